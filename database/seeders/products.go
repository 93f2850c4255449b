package seeders

import (
	"github.com/shashiranjanraj/vypar/app/models"
	"gorm.io/gorm"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts inserts the sample catalogue. It is a no-op when the
// products table already has rows, so reseeding is always safe.
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{Name: "Blue Pen", Category: "Stationery", UnitPrice: 1.50, StockQuantity: 100},
		{Name: "Red Pen", Category: "Stationery", UnitPrice: 1.50, StockQuantity: 85},
		{Name: "A4 Notebook", Category: "Stationery", UnitPrice: 4.99, StockQuantity: 50},
		{Name: "Stapler", Category: "Office", UnitPrice: 12.99, StockQuantity: 25},
		{Name: "Paper Clips", Category: "Office", UnitPrice: 2.25, StockQuantity: 200},
		{Name: "Highlighter", Category: "Stationery", UnitPrice: 2.75, StockQuantity: 75},
		{Name: "Sticky Notes", Category: "Office", UnitPrice: 3.50, StockQuantity: 120},
		{Name: "Eraser", Category: "Stationery", UnitPrice: 0.99, StockQuantity: 150},
		{Name: "Black Marker", Category: "Stationery", UnitPrice: 2.99, StockQuantity: 60},
		{Name: "Ruler 12inch", Category: "Stationery", UnitPrice: 1.25, StockQuantity: 80},
		{Name: "Scissors", Category: "Office", UnitPrice: 8.75, StockQuantity: 35},
		{Name: "Hole Punch", Category: "Office", UnitPrice: 15.50, StockQuantity: 20},
		{Name: "Calculator", Category: "Electronics", UnitPrice: 24.99, StockQuantity: 30},
		{Name: "USB Drive 16GB", Category: "Electronics", UnitPrice: 19.99, StockQuantity: 45},
		{Name: "Desk Lamp", Category: "Furniture", UnitPrice: 39.99, StockQuantity: 15},
		{Name: "File Folder", Category: "Office", UnitPrice: 1.99, StockQuantity: 100},
		{Name: "Whiteboard Marker", Category: "Stationery", UnitPrice: 3.25, StockQuantity: 90},
		{Name: "Tape Dispenser", Category: "Office", UnitPrice: 7.50, StockQuantity: 40},
	}

	return db.Create(&products).Error
}
