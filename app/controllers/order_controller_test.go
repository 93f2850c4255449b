package controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/vypar/app/controllers"
	"github.com/shashiranjanraj/vypar/app/models"
	"github.com/shashiranjanraj/vypar/pkg/database"
	"github.com/shashiranjanraj/vypar/pkg/router"
)

var ctrlDBSeq atomic.Int64

func newTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:ctrl_test_%d?mode=memory&cache=shared", ctrlDBSeq.Add(1))
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.Order{}, &models.OrderItem{}, &models.OrderBatch{},
	))

	orderController := controllers.NewOrderController(db)
	r := router.New()
	orders := r.Group("/orders")
	orders.Post("", "orders.create", orderController.Create)
	orders.Post("/batch", "orders.batch", orderController.CreateBatch)
	orders.Get("/{id}", "orders.get", orderController.Get)
	orders.Delete("/{id}", "orders.delete", orderController.Delete)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv, db
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestBatchEndpointCreatesOrders(t *testing.T) {
	srv, db := newTestServer(t)
	require.NoError(t, db.Create(&models.Product{Name: "Blue Pen", UnitPrice: 1.50, StockQuantity: 100}).Error)

	resp := post(t, srv.URL+"/orders/batch", `{
		"orders": [{
			"customer_name": "Asha",
			"customer_email": "asha@example.com",
			"items": [{"product_id": 1, "quantity": 4}]
		}]
	}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var product models.Product
	require.NoError(t, db.First(&product, 1).Error)
	assert.Equal(t, 96, product.StockQuantity)
}

func TestBatchEndpointInsufficientStock(t *testing.T) {
	srv, db := newTestServer(t)
	require.NoError(t, db.Create(&models.Product{Name: "Stapler", UnitPrice: 12.99, StockQuantity: 2}).Error)

	resp := post(t, srv.URL+"/orders/batch", `{
		"orders": [{
			"customer_name": "Ben",
			"customer_email": "ben@example.com",
			"items": [{"product_id": 1, "quantity": 5}]
		}]
	}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBatchEndpointValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	// Missing orders key entirely.
	resp := post(t, srv.URL+"/orders/batch", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Bad email and non-positive quantity.
	resp = post(t, srv.URL+"/orders/batch", `{
		"orders": [{
			"customer_name": "x",
			"customer_email": "not-an-email",
			"items": [{"product_id": 1, "quantity": 0}]
		}]
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestBatchEndpointMalformedJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := post(t, srv.URL+"/orders/batch", `{"orders": [`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrderGetAndDeleteEndpoints(t *testing.T) {
	srv, db := newTestServer(t)
	require.NoError(t, db.Create(&models.Product{Name: "Eraser", UnitPrice: 0.99, StockQuantity: 10}).Error)

	resp := post(t, srv.URL+"/orders", `{
		"customer_name": "Cara",
		"customer_email": "cara@example.com",
		"items": [{"product_id": 1, "quantity": 10}]
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	getResp, err := http.Get(srv.URL + "/orders/1")
	require.NoError(t, err)
	getResp.Body.Close()
	assert.Equal(t, http.StatusOK, getResp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/orders/1", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusOK, delResp.StatusCode)

	var product models.Product
	require.NoError(t, db.First(&product, 1).Error)
	assert.Equal(t, 10, product.StockQuantity)
	assert.False(t, product.OutOfStock)

	getResp, err = http.Get(srv.URL + "/orders/1")
	require.NoError(t, err)
	getResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}
