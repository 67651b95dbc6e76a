package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/docanno/internal/errors"
)

func TestFrameworks(t *testing.T) {
	assert.Equal(t, []string{"echo", "fiber", "gin"}, Frameworks())

	names := map[string]string{"gin": "Gin", "echo": "Echo", "fiber": "Fiber"}
	for framework, name := range names {
		web, err := NewWebServer(framework)
		require.NoError(t, err)
		assert.Equal(t, name, web.Name())
	}

	_, err := NewWebServer("martini")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "martini")
}

func TestChain_Order(t *testing.T) {
	var calls []string
	mark := func(name string) MiddlewareFunc {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx RequestContext) error {
				calls = append(calls, name)
				return next(ctx)
			}
		}
	}

	handler := chain(func(RequestContext) error {
		calls = append(calls, "handler")
		return nil
	}, mark("first"), mark("second"))

	require.NoError(t, handler(nil))
	assert.Equal(t, []string{"first", "second", "handler"}, calls)
}

func TestToHTTPError(t *testing.T) {
	syntax := errors.NewMultipleErrors()
	syntax.Add(errors.NewSyntaxError("empty argument", "Column(a,,b)", errors.SourceLocation{}))

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"http error", ErrNotFound("gone"), http.StatusNotFound},
		{"lookup", errors.NewLookupError("Missing", fmt.Errorf("type not found")), http.StatusNotFound},
		{"wrapped lookup", fmt.Errorf("serving: %w", errors.NewLookupError("Missing", nil)), http.StatusNotFound},
		{"syntax", syntax, http.StatusUnprocessableEntity},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, toHTTPError(tt.err).StatusCode)
		})
	}
}

func TestEchoServer_StartStop(t *testing.T) {
	web := NewEchoServer()
	done := make(chan error, 1)
	go func() { done <- web.Start("127.0.0.1:0") }()

	// Echo reports the listener once it is bound
	require.Eventually(t, func() bool { return web.engine.ListenerAddr() != nil }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, web.Stop(ctx))
	assert.NoError(t, <-done)
}

func TestGinServer_StopBeforeStart(t *testing.T) {
	assert.NoError(t, NewGinServer().Stop(context.Background()))
}
