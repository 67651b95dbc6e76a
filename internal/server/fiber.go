package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// FiberServer implements WebServer for Fiber v2
type FiberServer struct {
	app *fiber.App
}

// NewFiberServer creates a Fiber app with panic recovery. Immutable keeps
// parameter strings valid after the handler returns.
func NewFiberServer() *FiberServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
		UnescapePath:          true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(NewHTTPError(code, err.Error()))
		},
	})
	app.Use(recover.New())
	return &FiberServer{app: app}
}

// RegisterRoute registers a route with the Fiber app
func (fs *FiberServer) RegisterRoute(method, path string, handler HandlerFunc) {
	fs.app.Add(method, path, func(c *fiber.Ctx) error {
		if err := handler(&fiberRequestContext{ctx: c}); err != nil {
			httpErr := toHTTPError(err)
			return c.Status(httpErr.StatusCode).JSON(httpErr)
		}
		return nil
	})
}

// Start serves on addr until Stop is called
func (fs *FiberServer) Start(addr string) error {
	return fs.app.Listen(addr)
}

// Stop gracefully shuts the server down
func (fs *FiberServer) Stop(ctx context.Context) error {
	return fs.app.ShutdownWithContext(ctx)
}

// Name returns the framework name
func (fs *FiberServer) Name() string {
	return "Fiber"
}

// App returns the underlying Fiber app
func (fs *FiberServer) App() *fiber.App {
	return fs.app
}

type fiberRequestContext struct {
	ctx *fiber.Ctx
}

func (f *fiberRequestContext) Method() string {
	return f.ctx.Method()
}

func (f *fiberRequestContext) Path() string {
	return f.ctx.Path()
}

func (f *fiberRequestContext) Param(key string) string {
	return f.ctx.Params(key)
}

func (f *fiberRequestContext) Query(key string) string {
	return f.ctx.Query(key)
}

func (f *fiberRequestContext) Header(key string) string {
	return f.ctx.Get(key)
}

func (f *fiberRequestContext) SetHeader(key, value string) {
	f.ctx.Set(key, value)
}

func (f *fiberRequestContext) JSON(code int, body interface{}) error {
	return f.ctx.Status(code).JSON(body)
}

func (f *fiberRequestContext) Get(key string) interface{} {
	return f.ctx.Locals(key)
}

func (f *fiberRequestContext) Set(key string, val interface{}) {
	f.ctx.Locals(key, val)
}
