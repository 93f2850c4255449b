// Package routes wires every HTTP endpoint to its controller.
package routes

import (
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/vypar/app/controllers"
	"github.com/shashiranjanraj/vypar/config"
	"github.com/shashiranjanraj/vypar/internal/authclient"
	"github.com/shashiranjanraj/vypar/internal/gql"
	"github.com/shashiranjanraj/vypar/pkg/metrics"
	"github.com/shashiranjanraj/vypar/pkg/middleware"
	"github.com/shashiranjanraj/vypar/pkg/reqid"
	"github.com/shashiranjanraj/vypar/pkg/response"
	"github.com/shashiranjanraj/vypar/pkg/router"
	"github.com/shashiranjanraj/vypar/pkg/storage"
	"github.com/shashiranjanraj/vypar/pkg/ws"
)

// Deps carries everything the route tree needs.
type Deps struct {
	DB      *gorm.DB
	Auth    *authclient.Client
	Storage *storage.Manager
	Hub     *ws.Hub
}

// RegisterAPI mounts the full route tree on r.
func RegisterAPI(r *router.Router, deps Deps) error {
	corsOpts := middleware.DefaultCORSOptions()
	if origins := config.CORSOrigins(); origins != "" && origins != "*" {
		corsOpts.AllowedOrigins = strings.Split(origins, ",")
	}

	r.Use(
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		metrics.Middleware(),
		middleware.CORS(corsOpts),
		middleware.RateLimit(300, time.Minute),
	)

	productController := controllers.NewProductController(deps.DB)
	orderController := controllers.NewOrderController(deps.DB)
	accountController := controllers.NewAccountController()

	// Public surface.
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	auth := middleware.Auth(deps.Auth)

	protected := r.Group("", auth)
	protected.Get("/users/me", "account.me", accountController.Me)

	products := protected.Group("/products")
	products.Post("", "products.create", productController.Create)
	products.Get("", "products.list", productController.List)
	products.Get("/{id}", "products.get", productController.Get)
	products.Patch("/{id}", "products.patch", productController.Patch)
	products.Delete("/{id}", "products.delete", productController.Delete)

	protected.Get("/categories", "products.categories", productController.Categories)

	orders := protected.Group("/orders")
	orders.Post("", "orders.create", orderController.Create)
	orders.Post("/batch", "orders.batch", orderController.CreateBatch)
	orders.Get("", "orders.list", orderController.List)
	orders.Get("/{id}", "orders.get", orderController.Get)
	orders.Patch("/{id}", "orders.patch", orderController.Patch)
	orders.Delete("/{id}", "orders.delete", orderController.Delete)

	if deps.Storage != nil {
		exportController := controllers.NewExportController(deps.DB, deps.Storage)
		admin := protected.Group("/admin", middleware.Superuser)
		admin.Get("/exports/inventory", "admin.exports.inventory", exportController.Inventory)
	}

	gqlHandler, err := gql.NewHandler(deps.DB)
	if err != nil {
		return err
	}
	protected.Post("/graphql", "graphql", gqlHandler)

	if deps.Hub != nil {
		r.Get("/ws/events", "ws.events", deps.Hub.Upgrade)
	}

	return nil
}
