package server

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// EchoServer implements WebServer for Echo v4
type EchoServer struct {
	engine *echo.Echo
}

// NewEchoServer creates an Echo server without the startup banner
func NewEchoServer() *EchoServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &EchoServer{engine: e}
}

// RegisterRoute registers a route with the Echo engine
func (es *EchoServer) RegisterRoute(method, path string, handler HandlerFunc) {
	es.engine.Add(method, path, func(c echo.Context) error {
		if err := handler(&echoRequestContext{ctx: c}); err != nil {
			httpErr := toHTTPError(err)
			return c.JSON(httpErr.StatusCode, httpErr)
		}
		return nil
	})
}

// Start serves on addr until Stop is called
func (es *EchoServer) Start(addr string) error {
	if err := es.engine.Start(addr); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down
func (es *EchoServer) Stop(ctx context.Context) error {
	return es.engine.Shutdown(ctx)
}

// Name returns the framework name
func (es *EchoServer) Name() string {
	return "Echo"
}

// Handler returns the engine for use with net/http
func (es *EchoServer) Handler() http.Handler {
	return es.engine
}

type echoRequestContext struct {
	ctx echo.Context
}

func (e *echoRequestContext) Method() string {
	return e.ctx.Request().Method
}

func (e *echoRequestContext) Path() string {
	return e.ctx.Request().URL.Path
}

func (e *echoRequestContext) Param(key string) string {
	return e.ctx.Param(key)
}

func (e *echoRequestContext) Query(key string) string {
	return e.ctx.QueryParam(key)
}

func (e *echoRequestContext) Header(key string) string {
	return e.ctx.Request().Header.Get(key)
}

func (e *echoRequestContext) SetHeader(key, value string) {
	e.ctx.Response().Header().Set(key, value)
}

func (e *echoRequestContext) JSON(code int, body interface{}) error {
	return e.ctx.JSON(code, body)
}

func (e *echoRequestContext) Get(key string) interface{} {
	return e.ctx.Get(key)
}

func (e *echoRequestContext) Set(key string, val interface{}) {
	e.ctx.Set(key, val)
}
