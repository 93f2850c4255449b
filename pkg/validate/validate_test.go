package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/vypar/pkg/validate"
)

type productInput struct {
	Name          string  `json:"name"           validate:"required,max=255"`
	Category      string  `json:"category"       validate:"nullable,max=255"`
	UnitPrice     float64 `json:"unit_price"     validate:"gte=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(productInput{
		Name:          "Blue Pen",
		Category:      "Stationery",
		UnitPrice:     1.50,
		StockQuantity: 100,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"required,gt=0"`
	}
	if errs := validate.Struct(in{Quantity: -3}); !validate.HasErrors(errs) {
		t.Error("expected quantity < 0 to fail")
	}
	if errs := validate.Struct(in{Quantity: 3}); validate.HasErrors(errs) {
		t.Errorf("expected quantity 3 to pass, got: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=pending,confirmed,shipped,cancelled"`
	}
	if errs := validate.Struct(in{Status: "unknown"}); !validate.HasErrors(errs) {
		t.Error("expected unknown status to fail")
	}
	if errs := validate.Struct(in{Status: "shipped"}); validate.HasErrors(errs) {
		t.Errorf("expected shipped to pass, got: %v", errs)
	}
}

func TestNullableSkipsRemainingRules(t *testing.T) {
	type in struct {
		Category string `json:"category" validate:"nullable,max=3"`
	}
	if errs := validate.Struct(in{Category: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable field to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Category: "too long"}); !validate.HasErrors(errs) {
		t.Error("expected non-empty nullable field to still hit max")
	}
}

func TestNestedSliceValidation(t *testing.T) {
	type item struct {
		ProductID uint `json:"product_id" validate:"required"`
		Quantity  int  `json:"quantity"   validate:"required,gt=0"`
	}
	type order struct {
		CustomerEmail string `json:"customer_email" validate:"required,email"`
		Items         []item `json:"items"          validate:"required,dive"`
	}

	errs := validate.Struct(order{
		CustomerEmail: "a@b.com",
		Items:         []item{{ProductID: 1, Quantity: 2}, {ProductID: 0, Quantity: 0}},
	})
	if _, ok := errs["items[1].product_id"]; !ok {
		t.Errorf("expected nested item error, got: %v", errs)
	}
	if _, ok := errs["items[0].quantity"]; ok {
		t.Errorf("did not expect error for valid item, got: %v", errs)
	}
}
