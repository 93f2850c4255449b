package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/vypar/app/services"
	"github.com/shashiranjanraj/vypar/pkg/bind"
	"github.com/shashiranjanraj/vypar/pkg/response"
	"github.com/shashiranjanraj/vypar/pkg/router"
)

// maxPageSize caps the limit query parameter on listings.
const maxPageSize = 100

type ProductController struct {
	service *services.ProductService
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{service: services.NewProductService(db)}
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductCreate
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.service.Create(in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, product)
}

func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := bind.ID(router.Param(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := c.service.Get(id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	offset := bind.Offset(r)
	limit := bind.Limit(r, maxPageSize)

	products, total, err := c.service.List(offset, limit)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Paginated(w, products, response.Meta{
		Offset: offset,
		Limit:  limit,
		Count:  len(products),
		Total:  total,
	})
}

func (c *ProductController) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := bind.ID(router.Param(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var in services.ProductPatch
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.service.Patch(id, in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := bind.ID(router.Param(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.service.Delete(id); err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Product deleted"})
}

func (c *ProductController) Categories(w http.ResponseWriter, _ *http.Request) {
	categories, err := c.service.Categories()
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, categories)
}
