// internal/handlers/product.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rentalworks/catalog-backend/internal/services"
	"github.com/rentalworks/catalog-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := services.ListProductsParams{
		RegionCode: c.Query("region"),
		Page:       intQuery(c, "page", 1),
		PerPage:    intQuery(c, "per_page", services.DefaultPerPage),
		Path:       c.Request.URL.Path,
	}

	// Filters are permissive: a non-numeric rental_period is ignored rather
	// than rejected, matching a public read surface.
	if months, err := strconv.Atoi(c.Query("rental_period")); err == nil && months > 0 {
		params.RentalPeriodMonths = months
	}

	result, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	c.JSON(200, result)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	detail, err := h.productService.GetProductByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product not found")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	c.JSON(200, gin.H{"data": detail})
}

type cheapestQuery struct {
	Region       string `form:"region" validate:"required"`
	RentalPeriod int    `form:"rental_period" validate:"required,min=1"`
	Limit        int    `form:"limit" validate:"omitempty,min=1,max=50"`
}

// GET /products/cheapest
func (h *ProductHandler) GetCheapestProducts(c *gin.Context) {
	var query cheapestQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.BadRequestResponse(c, "Invalid query parameters", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&query)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	products, err := h.productService.GetCheapestProducts(c.Request.Context(), query.Region, query.RentalPeriod, query.Limit)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	c.JSON(200, gin.H{"data": products})
}

// GET /regions/:code/products
func (h *ProductHandler) GetProductsByRegion(c *gin.Context) {
	code := c.Param("code")

	products, err := h.productService.GetProductsWithPricingForRegion(c.Request.Context(), code)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	c.JSON(200, gin.H{"data": products})
}

func intQuery(c *gin.Context, name string, defaultValue int) int {
	value, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(defaultValue)))
	if err != nil || value < 1 {
		return defaultValue
	}
	return value
}
