// Package gql exposes a read-only GraphQL view of the catalogue and the
// order book at /graphql. Mutations stay on the REST surface where the
// transactional rules live.
package gql

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/vypar/app/models"
	"github.com/shashiranjanraj/vypar/pkg/collection"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.Int},
		"name":           &graphql.Field{Type: graphql.String},
		"category":       &graphql.Field{Type: graphql.String},
		"unit_price":     &graphql.Field{Type: graphql.Float},
		"stock_quantity": &graphql.Field{Type: graphql.Int},
		"out_of_stock":   &graphql.Field{Type: graphql.Boolean},
	},
})

var orderItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderItem",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.Int},
		"product_id": &graphql.Field{Type: graphql.Int},
		"quantity":   &graphql.Field{Type: graphql.Int},
		"unit_price": &graphql.Field{Type: graphql.Float},
		"subtotal":   &graphql.Field{Type: graphql.Float},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.Int},
		"customer_name":  &graphql.Field{Type: graphql.String},
		"customer_email": &graphql.Field{Type: graphql.String},
		"status":         &graphql.Field{Type: graphql.String},
		"total_amount":   &graphql.Field{Type: graphql.Float},
		"items":          &graphql.Field{Type: graphql.NewList(orderItemType)},
	},
})

// NewSchema builds the query-only schema over db.
func NewSchema(db *gorm.DB) (graphql.Schema, error) {
	idArg := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
	}
	listArgs := graphql.FieldConfigArgument{
		"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
		"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"product": &graphql.Field{
				Type: productType,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var product models.Product
					if err := db.First(&product, p.Args["id"].(int)).Error; err != nil {
						return nil, fmt.Errorf("product not found")
					}
					return toProductMap(product), nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: listArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					offset, limit := window(p)
					var products []models.Product
					if err := db.Order("id").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
						return nil, err
					}
					return collection.Map(products, toProductMap), nil
				},
			},
			"order": &graphql.Field{
				Type: orderType,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var order models.Order
					err := db.Preload("Items").First(&order, p.Args["id"].(int)).Error
					if err != nil {
						return nil, fmt.Errorf("order not found")
					}
					return toOrderMap(order), nil
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: listArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					offset, limit := window(p)
					var orders []models.Order
					err := db.Preload("Items").Order("id").Offset(offset).Limit(limit).Find(&orders).Error
					if err != nil {
						return nil, err
					}
					return collection.Map(orders, toOrderMap), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}

func window(p graphql.ResolveParams) (offset, limit int) {
	offset, _ = p.Args["offset"].(int)
	limit, _ = p.Args["limit"].(int)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return offset, limit
}

func toProductMap(p models.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":             int(p.ID),
		"name":           p.Name,
		"category":       p.Category,
		"unit_price":     p.UnitPrice,
		"stock_quantity": p.StockQuantity,
		"out_of_stock":   p.OutOfStock,
	}
}

func toOrderMap(o models.Order) map[string]interface{} {
	items := make([]map[string]interface{}, len(o.Items))
	for i, it := range o.Items {
		items[i] = map[string]interface{}{
			"id":         int(it.ID),
			"product_id": int(it.ProductID),
			"quantity":   it.Quantity,
			"unit_price": it.UnitPrice,
			"subtotal":   it.Subtotal,
		}
	}
	return map[string]interface{}{
		"id":             int(o.ID),
		"customer_name":  o.CustomerName,
		"customer_email": o.CustomerEmail,
		"status":         o.Status,
		"total_amount":   o.TotalAmount,
		"items":          items,
	}
}
