package models

import "gorm.io/gorm"

// Product is one catalogue entry. StockQuantity never goes negative at
// a committed state; OutOfStock mirrors StockQuantity == 0.
type Product struct {
	gorm.Model
	Name          string  `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Category      string  `gorm:"size:255;index"                json:"category"`
	UnitPrice     float64 `gorm:"not null;default:0"            json:"unit_price"`
	StockQuantity int     `gorm:"not null;default:0"            json:"stock_quantity"`
	OutOfStock    bool    `gorm:"not null;default:false"        json:"out_of_stock"`
}
