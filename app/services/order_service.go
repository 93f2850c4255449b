package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/vypar/app/models"
	"github.com/shashiranjanraj/vypar/pkg/apperr"
	"github.com/shashiranjanraj/vypar/pkg/database"
	"github.com/shashiranjanraj/vypar/pkg/event"
	"github.com/shashiranjanraj/vypar/pkg/logger"
	"github.com/shashiranjanraj/vypar/pkg/metrics"
	"github.com/shashiranjanraj/vypar/pkg/patch"
)

// lowStockThreshold triggers a product.stock.low event when a commit
// leaves a product at or below it.
const lowStockThreshold = 5

// OrderItemInput is one line of an incoming order.
type OrderItemInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gt=0"`
}

// OrderInput is one incoming order of a batch.
type OrderInput struct {
	CustomerName  string           `json:"customer_name"  validate:"required,max=100"`
	CustomerEmail string           `json:"customer_email" validate:"required,email,max=100"`
	Items         []OrderItemInput `json:"items"          validate:"required,dive"`
}

// BatchInput is the payload of POST /orders/batch.
type BatchInput struct {
	Orders []OrderInput `json:"orders" validate:"required,dive"`
}

// BatchResult reports a committed batch.
type BatchResult struct {
	BatchID uint           `json:"batch_id"`
	Orders  []models.Order `json:"orders"`
}

// StockLowEvent is the payload of product.stock.low.
type StockLowEvent struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Remaining int    `json:"remaining"`
}

// OrderPatch carries a partial order update. The total is derived from
// items and is deliberately not patchable.
type OrderPatch struct {
	CustomerName  patch.Field[string] `json:"customer_name"`
	CustomerEmail patch.Field[string] `json:"customer_email"`
	Status        patch.Field[string] `json:"status"`
}

func (p OrderPatch) empty() bool {
	return !p.CustomerName.Present && !p.CustomerEmail.Present && !p.Status.Present
}

// OrderService owns order reads and the transactional write paths.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateBatch creates every order of the batch, or none of them.
//
// All validation, price snapshotting and stock movement happens inside
// one database transaction. The batch row is inserted first so the
// orders reference a persisted correlation id. Each product row is
// locked for update while its stock is checked and decremented, except
// on sqlite where the whole write transaction already excludes others.
func (s *OrderService) CreateBatch(in BatchInput) (*BatchResult, error) {
	if len(in.Orders) == 0 {
		return nil, apperr.New(apperr.Validation, "Batch must contain at least one order")
	}
	for _, o := range in.Orders {
		if len(o.Items) == 0 {
			return nil, apperr.New(apperr.Validation, "Each order must contain at least one item")
		}
	}

	defer metrics.ObserveDBQuery("tx", time.Now())

	var (
		batch   models.OrderBatch
		created []models.Order
		lowRows []StockLowEvent
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		batch = models.OrderBatch{}
		if err := tx.Create(&batch).Error; err != nil {
			return apperr.Wrap(apperr.Internal, err, "create order batch")
		}

		for _, orderIn := range in.Orders {
			order, low, err := s.createOrder(tx, batch.ID, orderIn)
			if err != nil {
				return err
			}
			created = append(created, *order)
			lowRows = append(lowRows, low...)
		}
		return nil
	})
	if err != nil {
		created = nil

		var ae *apperr.Error
		if errors.As(err, &ae) {
			if ae.Kind == apperr.BusinessRule {
				metrics.StockRejections.Inc()
			}
			metrics.BatchesProcessed.WithLabelValues("rejected").Inc()
			return nil, ae
		}

		logger.Error("order batch failed", "error", err)
		metrics.BatchesProcessed.WithLabelValues("failed").Inc()
		return nil, apperr.Wrap(apperr.Internal, err, "Failed to create order batch")
	}

	metrics.BatchesProcessed.WithLabelValues("committed").Inc()
	metrics.OrdersCreated.Add(float64(len(created)))

	result := &BatchResult{BatchID: batch.ID, Orders: created}
	event.FireAsync(event.OrderBatchCreated, result)
	for _, low := range lowRows {
		event.FireAsync(event.ProductStockLow, low)
	}

	logger.Info("order batch committed", "batch_id", batch.ID, "orders", len(created))
	return result, nil
}

// createOrder validates, prices and persists one order inside tx.
func (s *OrderService) createOrder(tx *gorm.DB, batchID uint, in OrderInput) (*models.Order, []StockLowEvent, error) {
	type pricedItem struct {
		product  models.Product
		quantity int
		subtotal float64
	}

	var (
		total  float64
		priced []pricedItem
	)

	for _, item := range in.Items {
		product, err := s.lockProduct(tx, item.ProductID)
		if err != nil {
			return nil, nil, err
		}

		if product.StockQuantity < item.Quantity {
			return nil, nil, apperr.New(apperr.BusinessRule,
				"Insufficient stock for %s. Available: %d, Requested: %d",
				product.Name, product.StockQuantity, item.Quantity)
		}

		subtotal := product.UnitPrice * float64(item.Quantity)
		total += subtotal
		priced = append(priced, pricedItem{product: *product, quantity: item.Quantity, subtotal: subtotal})
	}

	order := models.Order{
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		Status:        models.OrderStatusPending,
		TotalAmount:   total,
		OrderBatchID:  &batchID,
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, err, "create order")
	}

	var low []StockLowEvent
	for _, pi := range priced {
		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: pi.product.ID,
			Quantity:  pi.quantity,
			UnitPrice: pi.product.UnitPrice,
			Subtotal:  pi.subtotal,
		}
		if err := tx.Create(&item).Error; err != nil {
			return nil, nil, apperr.Wrap(apperr.Internal, err, "create order item")
		}
		order.Items = append(order.Items, item)

		// Re-read inside the transaction so a product repeated across
		// items is decremented cumulatively, not from a stale snapshot.
		var current models.Product
		if err := tx.First(&current, pi.product.ID).Error; err != nil {
			return nil, nil, apperr.Wrap(apperr.Internal, err, "reload product")
		}
		remaining := current.StockQuantity - pi.quantity
		if remaining < 0 {
			return nil, nil, apperr.New(apperr.BusinessRule,
				"Insufficient stock for %s. Available: %d, Requested: %d",
				current.Name, current.StockQuantity, pi.quantity)
		}
		updates := map[string]interface{}{
			"stock_quantity": remaining,
			"out_of_stock":   remaining == 0,
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", pi.product.ID).Updates(updates).Error; err != nil {
			return nil, nil, apperr.Wrap(apperr.Internal, err, "decrement stock")
		}
		if remaining <= lowStockThreshold {
			low = append(low, StockLowEvent{ProductID: pi.product.ID, Name: pi.product.Name, Remaining: remaining})
		}
	}

	return &order, low, nil
}

// lockProduct loads a product under SELECT ... FOR UPDATE where the
// driver supports row locks.
func (s *OrderService) lockProduct(tx *gorm.DB, id uint) (*models.Product, error) {
	q := tx
	if database.SupportsRowLocks(tx) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product models.Product
	err := q.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Product with ID %d not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "lock product")
	}
	return &product, nil
}

// Create makes a single order by delegating to the batch processor with
// a one-order batch, so the same validation and stock rules apply.
func (s *OrderService) Create(in OrderInput) (*models.Order, error) {
	result, err := s.CreateBatch(BatchInput{Orders: []OrderInput{in}})
	if err != nil {
		return nil, err
	}
	return &result.Orders[0], nil
}

// Get fetches one order with its items.
func (s *OrderService) Get(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Order with ID %d not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "get order")
	}
	return &order, nil
}

// List returns a window of orders ordered by id, plus the total count.
func (s *OrderService) List(offset, limit int) ([]models.Order, int64, error) {
	var total int64
	if err := s.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "count orders")
	}

	var orders []models.Order
	err := s.db.Preload("Items").Order("id").Offset(offset).Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "list orders")
	}
	return orders, total, nil
}

// Patch updates the customer fields or status of an order.
func (s *OrderService) Patch(id uint, in OrderPatch) (*models.Order, error) {
	if in.empty() {
		return nil, apperr.New(apperr.Validation, "No fields to update")
	}

	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if in.CustomerName.Present {
		name, ok := in.CustomerName.Get()
		if !ok || name == "" {
			return nil, apperr.New(apperr.Validation, "customer_name cannot be null or empty")
		}
		updates["customer_name"] = name
	}

	if in.CustomerEmail.Present {
		email, ok := in.CustomerEmail.Get()
		if !ok || email == "" {
			return nil, apperr.New(apperr.Validation, "customer_email cannot be null or empty")
		}
		updates["customer_email"] = email
	}

	if in.Status.Present {
		status, ok := in.Status.Get()
		if !ok {
			return nil, apperr.New(apperr.Validation, "status cannot be null")
		}
		switch status {
		case models.OrderStatusPending, models.OrderStatusConfirmed,
			models.OrderStatusShipped, models.OrderStatusCancelled:
		default:
			return nil, apperr.New(apperr.Validation, "invalid status %q", status)
		}
		updates["status"] = status
	}

	err := s.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "update order")
	}

	return s.Get(id)
}

// Delete removes an order and returns its quantities to stock, all in
// one transaction.
func (s *OrderService) Delete(id uint) error {
	defer metrics.ObserveDBQuery("tx", time.Now())

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.First(&order, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "Order with ID %d not found", id)
		}
		if err != nil {
			return apperr.Wrap(apperr.Internal, err, "get order")
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", id).Find(&items).Error; err != nil {
			return apperr.Wrap(apperr.Internal, err, "load order items")
		}

		for _, item := range items {
			product, err := s.lockProduct(tx, item.ProductID)
			if err != nil && apperr.Is(err, apperr.NotFound) {
				// product removed since the order was placed; nothing to restore
				continue
			}
			if err != nil {
				return err
			}

			restored := product.StockQuantity + item.Quantity
			updates := map[string]interface{}{
				"stock_quantity": restored,
				"out_of_stock":   restored == 0,
			}
			if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(updates).Error; err != nil {
				return apperr.Wrap(apperr.Internal, err, "restore stock")
			}
		}

		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return apperr.Wrap(apperr.Internal, err, "delete order items")
		}
		if err := tx.Delete(&order).Error; err != nil {
			return apperr.Wrap(apperr.Internal, err, "delete order")
		}
		return nil
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return ae
		}
		logger.Error("order delete failed", "order_id", id, "error", err)
		return apperr.Wrap(apperr.Internal, err, "Failed to delete order")
	}

	event.FireAsync(event.OrderDeleted, map[string]uint{"order_id": id})
	return nil
}
