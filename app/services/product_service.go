package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/vypar/app/models"
	"github.com/shashiranjanraj/vypar/pkg/apperr"
	"github.com/shashiranjanraj/vypar/pkg/cache"
	"github.com/shashiranjanraj/vypar/pkg/patch"
)

const (
	categoriesCacheKey = "products:categories"
	categoriesCacheTTL = 5 * time.Minute
)

// ProductCreate is the payload accepted by Create.
type ProductCreate struct {
	Name          string  `json:"name"           validate:"required,max=255"`
	Category      string  `json:"category"       validate:"max=255"`
	UnitPrice     float64 `json:"unit_price"     validate:"gte=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
}

// ProductPatch carries a partial update. Every field records whether
// the key appeared in the request body, so "absent" and "null" stay
// distinct.
type ProductPatch struct {
	Name          patch.Field[string]  `json:"name"`
	Category      patch.Field[string]  `json:"category"`
	UnitPrice     patch.Field[float64] `json:"unit_price"`
	StockQuantity patch.Field[int]     `json:"stock_quantity"`
}

func (p ProductPatch) empty() bool {
	return !p.Name.Present && !p.Category.Present &&
		!p.UnitPrice.Present && !p.StockQuantity.Present
}

// ProductService owns product reads and writes.
type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// Create inserts a product. A duplicate name is a Conflict.
func (s *ProductService) Create(in ProductCreate) (*models.Product, error) {
	var count int64
	if err := s.db.Model(&models.Product{}).Where("name = ?", in.Name).Count(&count).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "count products")
	}
	if count > 0 {
		return nil, apperr.New(apperr.Conflict, "Product with name %q already exists", in.Name)
	}

	product := &models.Product{
		Name:          in.Name,
		Category:      in.Category,
		UnitPrice:     in.UnitPrice,
		StockQuantity: in.StockQuantity,
		OutOfStock:    in.StockQuantity == 0,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "create product")
	}

	s.invalidateCaches()
	return product, nil
}

// Get fetches one product by id.
func (s *ProductService) Get(id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Product with ID %d not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "get product")
	}
	return &product, nil
}

// List returns a window of products ordered by id, plus the total count.
func (s *ProductService) List(offset, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := s.db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "count products")
	}

	var products []models.Product
	err := s.db.Order("id").Offset(offset).Limit(limit).Find(&products).Error
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "list products")
	}
	return products, total, nil
}

// Patch applies the present fields of in to the product. An empty patch
// is a Validation error; a null value for a non-nullable column too.
func (s *ProductService) Patch(id uint, in ProductPatch) (*models.Product, error) {
	if in.empty() {
		return nil, apperr.New(apperr.Validation, "No fields to update")
	}

	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if in.Name.Present {
		name, ok := in.Name.Get()
		if !ok || strings.TrimSpace(name) == "" {
			return nil, apperr.New(apperr.Validation, "name cannot be null or empty")
		}
		var count int64
		err := s.db.Model(&models.Product{}).
			Where("name = ? AND id <> ?", name, id).
			Count(&count).Error
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, err, "count products")
		}
		if count > 0 {
			return nil, apperr.New(apperr.Conflict, "Product with name %q already exists", name)
		}
		updates["name"] = name
	}

	if in.Category.Present {
		// null clears the category; empty string does the same.
		category, _ := in.Category.Get()
		updates["category"] = category
	}

	if in.UnitPrice.Present {
		price, ok := in.UnitPrice.Get()
		if !ok {
			return nil, apperr.New(apperr.Validation, "unit_price cannot be null")
		}
		if price < 0 {
			return nil, apperr.New(apperr.Validation, "unit_price must not be negative")
		}
		updates["unit_price"] = price
	}

	if in.StockQuantity.Present {
		qty, ok := in.StockQuantity.Get()
		if !ok {
			return nil, apperr.New(apperr.Validation, "stock_quantity cannot be null")
		}
		if qty < 0 {
			return nil, apperr.New(apperr.Validation, "stock_quantity must not be negative")
		}
		updates["stock_quantity"] = qty
		updates["out_of_stock"] = qty == 0
	}

	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "update product")
	}

	s.invalidateCaches()
	return s.Get(id)
}

// Delete removes a product.
func (s *ProductService) Delete(id uint) error {
	product, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(product).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err, "delete product")
	}

	s.invalidateCaches()
	return nil
}

// Categories returns the distinct non-empty categories, cached for a
// few minutes because the catalogue changes rarely.
func (s *ProductService) Categories() ([]string, error) {
	var categories []string
	err := cache.Remember(categoriesCacheKey, categoriesCacheTTL, &categories, func() (interface{}, error) {
		var out []string
		err := s.db.Model(&models.Product{}).
			Distinct("category").
			Where("category <> ''").
			Order("category").
			Pluck("category", &out).Error
		if err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "list categories")
	}
	return categories, nil
}

func (s *ProductService) invalidateCaches() {
	_ = cache.Del(categoriesCacheKey)
}
