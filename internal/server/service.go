// Package server exposes indexed annotations over HTTP on top of one of
// several web frameworks.
package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/toyz/docanno/internal/source"
	"github.com/toyz/docanno/internal/utils"
	"github.com/toyz/docanno/pkg/annotations"
)

// RequestIDHeader carries the request ID on requests and responses
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "docanno.request_id"

// importPathQuery selects between types that share a package name
const importPathQuery = "import_path"

// TypeSummary describes one indexed type in the type listing. Path is the
// route serving the type's annotations.
type TypeSummary struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Package    string `json:"package"`
	ImportPath string `json:"import_path,omitempty"`
	Path       string `json:"path"`
}

// Service answers annotation lookups against one index
type Service struct {
	index       *source.Index
	reader      *annotations.CachedReader
	diagnostics *utils.DiagnosticSystem
}

// NewService creates a service over idx. A nil parser means the legacy
// options; nil diagnostics disable request logging.
func NewService(idx *source.Index, parser *annotations.Parser, diagnostics *utils.DiagnosticSystem) *Service {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	return &Service{
		index:       idx,
		reader:      annotations.NewCachedReader(parser, idx),
		diagnostics: diagnostics,
	}
}

// Reader returns the caching reader behind the service
func (s *Service) Reader() *annotations.CachedReader {
	return s.reader
}

// Mount registers the service routes on web
func (s *Service) Mount(web WebServer) {
	middlewares := []MiddlewareFunc{s.requestID, s.logRequest}

	web.RegisterRoute(http.MethodGet, "/types", chain(s.listTypes, middlewares...))
	web.RegisterRoute(http.MethodGet, "/types/:name", chain(s.classAnnotations, middlewares...))
	web.RegisterRoute(http.MethodGet, "/types/:name/properties", chain(s.propertyAnnotations, middlewares...))
	web.RegisterRoute(http.MethodGet, "/types/:name/properties/:property", chain(s.singleProperty, middlewares...))
}

func (s *Service) listTypes(ctx RequestContext) error {
	types := s.index.Types()
	summaries := make([]TypeSummary, 0, len(types))
	for _, info := range types {
		summaries = append(summaries, TypeSummary{
			Key:        info.Key(),
			Name:       info.Name,
			Package:    info.Package,
			ImportPath: info.ImportPath,
			Path:       s.typePath(info),
		})
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{"types": summaries})
}

// typePath builds a route for info. Keys carry slashes once an import path
// is known, so those types are addressed by name plus an import_path query.
func (s *Service) typePath(info *source.TypeInfo) string {
	if name := s.index.RouteName(info); name != "" {
		return "/types/" + name
	}
	if info.ImportPath == "" {
		return "/types/" + info.Key()
	}
	query := url.Values{importPathQuery: {info.ImportPath}}
	return "/types/" + info.Name + "?" + query.Encode()
}

// lookup resolves the ":name" parameter, qualified by import_path if present
func (s *Service) lookup(ctx RequestContext) (*source.TypeInfo, error) {
	name := ctx.Param("name")
	if importPath := ctx.Query(importPathQuery); importPath != "" {
		name = importPath + "." + name[strings.LastIndex(name, ".")+1:]
	}
	return s.index.Lookup(name)
}

func (s *Service) classAnnotations(ctx RequestContext) error {
	info, err := s.lookup(ctx)
	if err != nil {
		return err
	}

	class, err := s.reader.ClassAnnotations(info.Key())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"type":        info.Key(),
		"annotations": class,
	})
}

func (s *Service) propertyAnnotations(ctx RequestContext) error {
	info, err := s.lookup(ctx)
	if err != nil {
		return err
	}

	set, err := s.reader.PropertyAnnotations(info.Key(), "")
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"type":       info.Key(),
		"properties": set,
	})
}

func (s *Service) singleProperty(ctx RequestContext) error {
	info, err := s.lookup(ctx)
	if err != nil {
		return err
	}

	property := ctx.Param("property")
	set, err := s.reader.PropertyAnnotations(info.Key(), property)
	if err != nil {
		return err
	}
	parsed, ok := set.Get(property)
	if !ok {
		return ErrNotFound("type '" + info.Key() + "' has no property '" + property + "'")
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"type":        info.Key(),
		"property":    property,
		"annotations": parsed,
	})
}

// requestID echoes the caller's request ID or assigns a new one
func (s *Service) requestID(next HandlerFunc) HandlerFunc {
	return func(ctx RequestContext) error {
		id := ctx.Header(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.SetHeader(RequestIDHeader, id)
		ctx.Set(requestIDKey, id)
		return next(ctx)
	}
}

// logRequest logs each request and renders handler errors as JSON
func (s *Service) logRequest(next HandlerFunc) HandlerFunc {
	return func(ctx RequestContext) error {
		start := time.Now()
		status := http.StatusOK
		err := next(ctx)
		if err != nil {
			httpErr := toHTTPError(err)
			status = httpErr.StatusCode
			err = ctx.JSON(status, httpErr)
		}
		s.diagnostics.Verbose("%s %s -> %d (%s) [%v]", ctx.Method(), ctx.Path(), status,
			time.Since(start), ctx.Get(requestIDKey))
		return err
	}
}
