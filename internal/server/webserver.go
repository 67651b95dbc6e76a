package server

import (
	"context"
	"fmt"

	"github.com/toyz/docanno/internal/utils"
)

// RequestContext provides a framework-agnostic view of one request
type RequestContext interface {
	Method() string
	Path() string
	Param(key string) string
	Query(key string) string
	Header(key string) string
	SetHeader(key, value string)
	JSON(code int, body interface{}) error

	// Request-scoped values
	Get(key string) interface{}
	Set(key string, val interface{})
}

// HandlerFunc defines the signature for HTTP handlers
type HandlerFunc func(RequestContext) error

// MiddlewareFunc defines the signature for middleware
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// WebServer is implemented by the framework adapters. Paths use ":name"
// parameters, which every supported framework understands.
type WebServer interface {
	RegisterRoute(method, path string, handler HandlerFunc)
	Start(addr string) error
	Stop(ctx context.Context) error
	Name() string
}

// Factory creates a web server for one framework
type Factory func() WebServer

var frameworks = defaultFrameworks()

func defaultFrameworks() *utils.Registry[Factory] {
	r := utils.NewRegistry[Factory]()
	r.MustRegister("gin", func() WebServer { return NewGinServer() })
	r.MustRegister("echo", func() WebServer { return NewEchoServer() })
	r.MustRegister("fiber", func() WebServer { return NewFiberServer() })
	return r
}

// Frameworks returns the names accepted by NewWebServer
func Frameworks() []string {
	return frameworks.Names()
}

// NewWebServer creates a web server for the named framework
func NewWebServer(framework string) (WebServer, error) {
	factory, ok := frameworks.Get(framework)
	if !ok {
		return nil, fmt.Errorf("unknown framework '%s' (available: %v)", framework, frameworks.Names())
	}
	return factory(), nil
}

// chain applies middlewares so that the first one runs outermost
func chain(handler HandlerFunc, middlewares ...MiddlewareFunc) HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
