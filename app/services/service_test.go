package services_test

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/vypar/app/models"
	"github.com/shashiranjanraj/vypar/pkg/database"
)

var testDBSeq atomic.Int64

// newTestDB opens a fresh in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderBatch{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()

	p := models.Product{
		Name:          name,
		Category:      "Test",
		UnitPrice:     price,
		StockQuantity: stock,
		OutOfStock:    stock == 0,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// jsonUnmarshal builds patch payloads the way HTTP requests would, so
// the present/null bookkeeping of patch fields is exercised for real.
func jsonUnmarshal(raw string, dest interface{}) error {
	return json.Unmarshal([]byte(raw), dest)
}
