// Package server boots the application: configuration, database,
// cache, storage, event wiring, and the HTTP and gRPC listeners.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/vypar/app/models"
	"github.com/shashiranjanraj/vypar/app/routes"
	"github.com/shashiranjanraj/vypar/config"
	"github.com/shashiranjanraj/vypar/internal/authclient"
	"github.com/shashiranjanraj/vypar/pkg/cache"
	"github.com/shashiranjanraj/vypar/pkg/database"
	"github.com/shashiranjanraj/vypar/pkg/event"
	"github.com/shashiranjanraj/vypar/pkg/logger"
	"github.com/shashiranjanraj/vypar/pkg/router"
	"github.com/shashiranjanraj/vypar/pkg/rpc"
	"github.com/shashiranjanraj/vypar/pkg/storage"
	"github.com/shashiranjanraj/vypar/pkg/ws"
)

const shutdownTimeout = 10 * time.Second

// Start boots every subsystem and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	if uri := config.LogMongoURI(); uri != "" {
		closeSink, err := logger.EnableMongoSink(uri, "vypar", "logs")
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		} else {
			defer closeSink()
		}
	}

	db, err := database.Connect()
	if err != nil {
		return fmt.Errorf("server: connect database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("server: migrate: %w", err)
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	}

	store, err := storage.Connect()
	if err != nil {
		return fmt.Errorf("server: connect storage: %w", err)
	}

	hub := ws.NewHub()
	go hub.Run()
	wireEvents(hub)

	var grpcSrv *grpc.Server
	if port := config.GRPCPort(); port != "" {
		grpcSrv, err = rpc.Start(port)
		if err != nil {
			return fmt.Errorf("server: start grpc: %w", err)
		}
	}

	r := router.New()
	deps := routes.Deps{
		DB:      db,
		Auth:    authclient.New(),
		Storage: store,
		Hub:     hub,
	}
	if err := routes.RegisterAPI(r, deps); err != nil {
		return fmt.Errorf("server: register routes: %w", err)
	}

	addr := ":" + config.AppPort()
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	rpc.Stop(grpcSrv)

	logger.Info("server stopped")
	return nil
}

// AutoMigrate creates or updates the schema for every model. The
// migration runner covers versioned deployments; this keeps dev and
// tests frictionless.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderBatch{},
	)
}

// wireEvents forwards domain events to the websocket hub as JSON frames
// tagged with the event name.
func wireEvents(hub *ws.Hub) {
	forward := func(name string) event.Handler {
		return func(payload interface{}) {
			frame, err := json.Marshal(map[string]interface{}{
				"event": name,
				"data":  payload,
			})
			if err != nil {
				return
			}
			select {
			case hub.Broadcast <- frame:
			default: // hub backlog full, drop rather than block the service
			}
		}
	}

	event.Listen(event.OrderBatchCreated, forward(event.OrderBatchCreated))
	event.Listen(event.ProductStockLow, forward(event.ProductStockLow))
	event.Listen(event.OrderDeleted, forward(event.OrderDeleted))
}
