package server

import (
	"encoding/json"
	"go/parser"
	"go/token"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/docanno/internal/source"
	"github.com/toyz/docanno/pkg/annotations"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const fixture = `package shop

// Product is sold.
// @Entity
// @Table(name=products)
type Product struct {
	// @Column(type=string, length=64)
	Name  string
	Price int
}

// @Column(=oops)
type Broken struct{}
`

func fixtureIndex(t *testing.T) *source.Index {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "shop.go", fixture, parser.ParseComments)
	require.NoError(t, err)
	return source.NewIndex(fset, file)
}

// serve runs req through web without opening a socket
func serve(t *testing.T, web WebServer, req *http.Request) (int, http.Header, map[string]interface{}) {
	t.Helper()

	var (
		status int
		header http.Header
		body   []byte
	)
	switch s := web.(type) {
	case *FiberServer:
		resp, err := s.App().Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err = io.ReadAll(resp.Body)
		require.NoError(t, err)
		status, header = resp.StatusCode, resp.Header
	case interface{ Handler() http.Handler }:
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		status, header, body = rec.Code, rec.Header(), rec.Body.Bytes()
	default:
		t.Fatalf("cannot serve %s in tests", web.Name())
	}

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded), string(body))
	return status, header, decoded
}

func TestService_Routes(t *testing.T) {
	for _, framework := range Frameworks() {
		t.Run(framework, func(t *testing.T) {
			web, err := NewWebServer(framework)
			require.NoError(t, err)
			NewService(fixtureIndex(t), nil, nil).Mount(web)

			t.Run("list types", func(t *testing.T) {
				status, _, body := serve(t, web, httptest.NewRequest(http.MethodGet, "/types", nil))
				assert.Equal(t, http.StatusOK, status)

				types := body["types"].([]interface{})
				require.Len(t, types, 2)
				assert.Equal(t, "shop.Product", types[0].(map[string]interface{})["key"])
				assert.Equal(t, "Broken", types[1].(map[string]interface{})["name"])
			})

			t.Run("class annotations", func(t *testing.T) {
				status, header, body := serve(t, web, httptest.NewRequest(http.MethodGet, "/types/Product", nil))
				assert.Equal(t, http.StatusOK, status)
				assert.NotEmpty(t, header.Get(RequestIDHeader))
				assert.Equal(t, "shop.Product", body["type"])

				class := body["annotations"].(map[string]interface{})
				assert.Equal(t, "Entity", class["1"])
				assert.Equal(t, map[string]interface{}{"name": "products"}, class["table"])
			})

			t.Run("all properties", func(t *testing.T) {
				status, _, body := serve(t, web, httptest.NewRequest(http.MethodGet, "/types/shop.Product/properties", nil))
				assert.Equal(t, http.StatusOK, status)

				props := body["properties"].(map[string]interface{})
				assert.Equal(t, map[string]interface{}{
					"column": map[string]interface{}{"type": "string", "length": "64"},
				}, props["Name"])
				assert.Equal(t, map[string]interface{}{}, props["Price"])
			})

			t.Run("single property", func(t *testing.T) {
				status, _, body := serve(t, web, httptest.NewRequest(http.MethodGet, "/types/Product/properties/Name", nil))
				assert.Equal(t, http.StatusOK, status)
				assert.Equal(t, "Name", body["property"])
			})

			t.Run("unknown type", func(t *testing.T) {
				status, _, body := serve(t, web, httptest.NewRequest(http.MethodGet, "/types/Missing", nil))
				assert.Equal(t, http.StatusNotFound, status)
				assert.Contains(t, body["message"], "Missing")
			})

			t.Run("unknown property", func(t *testing.T) {
				status, _, _ := serve(t, web, httptest.NewRequest(http.MethodGet, "/types/Product/properties/Weight", nil))
				assert.Equal(t, http.StatusNotFound, status)
			})

			t.Run("request id is echoed", func(t *testing.T) {
				req := httptest.NewRequest(http.MethodGet, "/types", nil)
				req.Header.Set(RequestIDHeader, "abc-123")
				_, header, _ := serve(t, web, req)
				assert.Equal(t, "abc-123", header.Get(RequestIDHeader))
			})
		})
	}
}

func TestService_StrictSyntaxErrors(t *testing.T) {
	for _, framework := range Frameworks() {
		t.Run(framework, func(t *testing.T) {
			web, err := NewWebServer(framework)
			require.NoError(t, err)
			strict := annotations.NewParser(annotations.StrictOptions())
			NewService(fixtureIndex(t), strict, nil).Mount(web)

			status, _, body := serve(t, web, httptest.NewRequest(http.MethodGet, "/types/Broken", nil))
			assert.Equal(t, http.StatusUnprocessableEntity, status)
			assert.Equal(t, "malformed annotations", body["message"])
			assert.Len(t, body["details"], 1)

			status, _, _ = serve(t, web, httptest.NewRequest(http.MethodGet, "/types/Product", nil))
			assert.Equal(t, http.StatusOK, status)
		})
	}
}

func TestService_CachesLookups(t *testing.T) {
	svc := NewService(fixtureIndex(t), nil, nil)
	web := NewGinServer()
	svc.Mount(web)

	for i := 0; i < 3; i++ {
		status, _, _ := serve(t, web, httptest.NewRequest(http.MethodGet, "/types/Product", nil))
		require.Equal(t, http.StatusOK, status)
	}

	stats := svc.Reader().Stats()
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(2), stats.Hits)
}

func TestService_ImportPathRoutes(t *testing.T) {
	fset := token.NewFileSet()
	index := func(name, src, importPath string) *source.Index {
		file, err := parser.ParseFile(fset, name, src, parser.ParseComments)
		require.NoError(t, err)
		idx := source.NewIndex(fset, file)
		idx.SetImportPath(importPath)
		return idx
	}
	idx := source.NewIndex(nil)
	idx.Merge(index("a/models.go", "package models\n\n// @Table(name=a)\ntype User struct{}\n", "github.com/x/models"))
	idx.Merge(index("b/models.go", "package models\n\n// @Table(name=b)\ntype User struct{}\n", "github.com/y/models"))
	idx.Merge(index("c/shop.go", "package shop\n\n// @Entity\ntype Cart struct{}\n", "github.com/x/shop"))

	for _, framework := range Frameworks() {
		t.Run(framework, func(t *testing.T) {
			web, err := NewWebServer(framework)
			require.NoError(t, err)
			NewService(idx, nil, nil).Mount(web)

			status, _, body := serve(t, web, httptest.NewRequest(http.MethodGet, "/types", nil))
			require.Equal(t, http.StatusOK, status)

			paths := make(map[string]string)
			for _, entry := range body["types"].([]interface{}) {
				summary := entry.(map[string]interface{})
				paths[summary["key"].(string)] = summary["path"].(string)
			}
			assert.Equal(t, map[string]string{
				"github.com/x/models.User": "/types/User?import_path=github.com%2Fx%2Fmodels",
				"github.com/y/models.User": "/types/User?import_path=github.com%2Fy%2Fmodels",
				"github.com/x/shop.Cart":   "/types/Cart",
			}, paths)

			// every listed path serves the type it was listed for
			for key, path := range paths {
				status, _, body := serve(t, web, httptest.NewRequest(http.MethodGet, path, nil))
				require.Equal(t, http.StatusOK, status, path)
				assert.Equal(t, key, body["type"], path)
			}

			status, _, body = serve(t, web, httptest.NewRequest(http.MethodGet,
				"/types/models.User/properties?import_path=github.com/y/models", nil))
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, "github.com/y/models.User", body["type"])

			status, _, _ = serve(t, web, httptest.NewRequest(http.MethodGet, "/types/User?import_path=github.com/z/models", nil))
			assert.Equal(t, http.StatusNotFound, status)
		})
	}
}
