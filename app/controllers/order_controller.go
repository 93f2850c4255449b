package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/vypar/app/services"
	"github.com/shashiranjanraj/vypar/pkg/bind"
	"github.com/shashiranjanraj/vypar/pkg/response"
	"github.com/shashiranjanraj/vypar/pkg/router"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{service: services.NewOrderService(db)}
}

// CreateBatch handles POST /orders/batch: all orders commit or none do.
func (c *OrderController) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var in services.BatchInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := c.service.CreateBatch(in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, result)
}

// Create handles POST /orders as a one-order batch.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.OrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.Create(in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, order)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := bind.ID(router.Param(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := c.service.Get(id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, order)
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	offset := bind.Offset(r)
	limit := bind.Limit(r, maxPageSize)

	orders, total, err := c.service.List(offset, limit)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Paginated(w, orders, response.Meta{
		Offset: offset,
		Limit:  limit,
		Count:  len(orders),
		Total:  total,
	})
}

func (c *OrderController) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := bind.ID(router.Param(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var in services.OrderPatch
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.Patch(id, in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, order)
}

// Delete removes an order and returns its quantities to stock.
func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := bind.ID(router.Param(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.service.Delete(id); err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Order deleted and stock restored"})
}
