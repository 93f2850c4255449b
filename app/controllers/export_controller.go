package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/vypar/app/models"
	"github.com/shashiranjanraj/vypar/pkg/apperr"
	"github.com/shashiranjanraj/vypar/pkg/logger"
	"github.com/shashiranjanraj/vypar/pkg/response"
	"github.com/shashiranjanraj/vypar/pkg/storage"
)

// ExportController writes inventory snapshots through the storage
// manager. Superuser only.
type ExportController struct {
	db      *gorm.DB
	storage *storage.Manager
}

func NewExportController(db *gorm.DB, m *storage.Manager) *ExportController {
	return &ExportController{db: db, storage: m}
}

// Inventory dumps the whole catalogue as CSV to the default disk and
// returns the file's URL.
func (c *ExportController) Inventory(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	if err := c.db.Order("id").Find(&products).Error; err != nil {
		response.AppError(w, apperr.Wrap(apperr.Internal, err, "load products"))
		return
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	_ = cw.Write([]string{"id", "name", "category", "unit_price", "stock_quantity", "out_of_stock"})
	for _, p := range products {
		_ = cw.Write([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			p.Category,
			strconv.FormatFloat(p.UnitPrice, 'f', 2, 64),
			strconv.Itoa(p.StockQuantity),
			strconv.FormatBool(p.OutOfStock),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		response.AppError(w, apperr.Wrap(apperr.Internal, err, "encode csv"))
		return
	}

	path := fmt.Sprintf("exports/inventory-%s.csv", time.Now().UTC().Format("20060102-150405"))
	disk := c.storage.Default()
	if err := disk.Put(path, buf.Bytes()); err != nil {
		logger.WithCtx(r.Context()).Error("inventory export failed", "path", path, "error", err)
		response.AppError(w, apperr.Wrap(apperr.Internal, err, "store export"))
		return
	}

	logger.WithCtx(r.Context()).Info("inventory exported", "path", path, "rows", len(products))
	response.Created(w, map[string]interface{}{
		"path": path,
		"url":  disk.URL(path),
		"rows": len(products),
	})
}
