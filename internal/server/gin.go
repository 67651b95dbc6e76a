package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// GinServer implements WebServer for the Gin framework
type GinServer struct {
	engine *gin.Engine

	mu     sync.Mutex
	server *http.Server
}

// NewGinServer creates a Gin server with panic recovery. Requests are
// logged by the service, so Gin's own logger is left out.
func NewGinServer() *GinServer {
	engine := gin.New()
	engine.Use(gin.Recovery())
	return &GinServer{engine: engine}
}

// RegisterRoute registers a route with the Gin engine
func (gs *GinServer) RegisterRoute(method, path string, handler HandlerFunc) {
	gs.engine.Handle(method, path, func(c *gin.Context) {
		if err := handler(&ginRequestContext{ctx: c}); err != nil {
			httpErr := toHTTPError(err)
			c.JSON(httpErr.StatusCode, httpErr)
		}
	})
}

// Start serves on addr until Stop is called
func (gs *GinServer) Start(addr string) error {
	// Gin has no shutdown of its own; it runs behind an http.Server
	server := &http.Server{Addr: addr, Handler: gs.engine}
	gs.mu.Lock()
	gs.server = server
	gs.mu.Unlock()

	if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down
func (gs *GinServer) Stop(ctx context.Context) error {
	gs.mu.Lock()
	server := gs.server
	gs.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// Name returns the framework name
func (gs *GinServer) Name() string {
	return "Gin"
}

// Handler returns the engine for use with net/http
func (gs *GinServer) Handler() http.Handler {
	return gs.engine
}

type ginRequestContext struct {
	ctx *gin.Context
}

func (g *ginRequestContext) Method() string {
	return g.ctx.Request.Method
}

func (g *ginRequestContext) Path() string {
	return g.ctx.Request.URL.Path
}

func (g *ginRequestContext) Param(key string) string {
	return g.ctx.Param(key)
}

func (g *ginRequestContext) Query(key string) string {
	return g.ctx.Query(key)
}

func (g *ginRequestContext) Header(key string) string {
	return g.ctx.GetHeader(key)
}

func (g *ginRequestContext) SetHeader(key, value string) {
	g.ctx.Header(key, value)
}

func (g *ginRequestContext) JSON(code int, body interface{}) error {
	g.ctx.JSON(code, body)
	return nil
}

func (g *ginRequestContext) Get(key string) interface{} {
	value, _ := g.ctx.Get(key)
	return value
}

func (g *ginRequestContext) Set(key string, val interface{}) {
	g.ctx.Set(key, val)
}
