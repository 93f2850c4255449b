package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vypar/app/services"
	"github.com/shashiranjanraj/vypar/pkg/apperr"
)

func TestProductCreateAndDuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProductService(db)

	created, err := svc.Create(services.ProductCreate{
		Name:          "Blue Pen",
		Category:      "Stationery",
		UnitPrice:     1.50,
		StockQuantity: 100,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.OutOfStock)

	_, err = svc.Create(services.ProductCreate{Name: "Blue Pen", UnitPrice: 2.0})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Conflict))
}

func TestProductCreateZeroStockIsOutOfStock(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProductService(db)

	created, err := svc.Create(services.ProductCreate{Name: "Rare Item", UnitPrice: 10})
	require.NoError(t, err)
	assert.True(t, created.OutOfStock)
}

func TestProductGetMissing(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProductService(db)

	_, err := svc.Get(99)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestProductList(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProductService(db)

	for _, name := range []string{"A", "B", "C", "D"} {
		_, err := svc.Create(services.ProductCreate{Name: name, UnitPrice: 1, StockQuantity: 1})
		require.NoError(t, err)
	}

	products, total, err := svc.List(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, products, 2)
	assert.Equal(t, "B", products[0].Name)
}

func TestProductPatchEmptyRejected(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProductService(db)
	p := seedProduct(t, db, "Stapler", 12.99, 25)

	_, err := svc.Patch(p.ID, services.ProductPatch{})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestProductPatchOnlyPresentFieldsChange(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProductService(db)
	p := seedProduct(t, db, "Stapler", 12.99, 25)

	var in services.ProductPatch
	require.NoError(t, jsonUnmarshal(`{"unit_price": 14.50}`, &in))

	updated, err := svc.Patch(p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 14.50, updated.UnitPrice)
	assert.Equal(t, "Stapler", updated.Name)
	assert.Equal(t, 25, updated.StockQuantity)
	assert.Equal(t, "Test", updated.Category)
}

func TestProductPatchNullVersusAbsent(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProductService(db)
	p := seedProduct(t, db, "Stapler", 12.99, 25)

	// Explicit null clears the nullable category.
	var clearCategory services.ProductPatch
	require.NoError(t, jsonUnmarshal(`{"category": null}`, &clearCategory))
	updated, err := svc.Patch(p.ID, clearCategory)
	require.NoError(t, err)
	assert.Equal(t, "", updated.Category)

	// Null for a required column is rejected.
	var nullName services.ProductPatch
	require.NoError(t, jsonUnmarshal(`{"name": null}`, &nullName))
	_, err = svc.Patch(p.ID, nullName)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))

	var nullPrice services.ProductPatch
	require.NoError(t, jsonUnmarshal(`{"unit_price": null}`, &nullPrice))
	_, err = svc.Patch(p.ID, nullPrice)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestProductPatchRejectsNegativeStock(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProductService(db)
	p := seedProduct(t, db, "Stapler", 12.99, 25)

	var in services.ProductPatch
	require.NoError(t, jsonUnmarshal(`{"stock_quantity": -1}`, &in))
	_, err := svc.Patch(p.ID, in)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestProductPatchStockZeroSetsOutOfStock(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProductService(db)
	p := seedProduct(t, db, "Stapler", 12.99, 25)

	var in services.ProductPatch
	require.NoError(t, jsonUnmarshal(`{"stock_quantity": 0}`, &in))
	updated, err := svc.Patch(p.ID, in)
	require.NoError(t, err)
	assert.True(t, updated.OutOfStock)

	require.NoError(t, jsonUnmarshal(`{"stock_quantity": 9}`, &in))
	updated, err = svc.Patch(p.ID, in)
	require.NoError(t, err)
	assert.False(t, updated.OutOfStock)
	assert.Equal(t, 9, updated.StockQuantity)
}

func TestProductPatchDuplicateNameConflict(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProductService(db)
	seedProduct(t, db, "Red Pen", 1.50, 10)
	p := seedProduct(t, db, "Blue Pen", 1.50, 10)

	var in services.ProductPatch
	require.NoError(t, jsonUnmarshal(`{"name": "Red Pen"}`, &in))
	_, err := svc.Patch(p.ID, in)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Conflict))
}

func TestProductDelete(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProductService(db)
	p := seedProduct(t, db, "Scissors", 8.75, 35)

	require.NoError(t, svc.Delete(p.ID))

	_, err := svc.Get(p.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))

	err = svc.Delete(p.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestProductCategories(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProductService(db)

	for _, p := range []struct {
		name, cat string
	}{
		{"Blue Pen", "Stationery"},
		{"Red Pen", "Stationery"},
		{"Stapler", "Office"},
		{"Mystery", ""},
	} {
		_, err := svc.Create(services.ProductCreate{Name: p.name, Category: p.cat, UnitPrice: 1, StockQuantity: 1})
		require.NoError(t, err)
	}

	categories, err := svc.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Office", "Stationery"}, categories)
}
