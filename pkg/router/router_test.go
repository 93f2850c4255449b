package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vypar/pkg/router"
)

func TestNamedRoutesAndParams(t *testing.T) {
	r := router.New()
	r.Get("/products/{id}", "products.get", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("id=" + router.Param(req, "id")))
	})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/products/42")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	path, ok := r.Path("products.get")
	require.True(t, ok)
	assert.Equal(t, "/products/{id}", path)

	url, err := r.URL("products.get", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/products/42", url)
}

func TestGroupsNestAndApplyMiddleware(t *testing.T) {
	var order []string
	mw := func(tag string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, req)
			})
		}
	}

	r := router.New()
	api := r.Group("/api", mw("outer"))
	orders := api.Group("/orders", mw("inner"))
	orders.Post("/batch", "orders.batch", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/orders/batch", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Get("/healthz", "healthz", func(http.ResponseWriter, *http.Request) {})
	r.Delete("/orders/{id}", "orders.delete", func(http.ResponseWriter, *http.Request) {})

	infos := r.Routes()
	require.Len(t, infos, 2)

	names := []string{infos[0].Name, infos[1].Name}
	assert.Contains(t, names, "healthz")
	assert.Contains(t, names, "orders.delete")
}

func TestURLMissingParams(t *testing.T) {
	r := router.New()
	r.Get("/orders/{id}", "orders.get", func(http.ResponseWriter, *http.Request) {})

	_, err := r.URL("orders.get", nil)
	assert.Error(t, err)

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}
