// internal/handlers/cache.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rentalworks/catalog-backend/internal/services"
	"github.com/rentalworks/catalog-backend/internal/utils"
)

// CacheHandler exposes operator-facing cache invalidation. Writes to the
// catalog happen out of band (seeding, future admin tooling), so eviction is
// triggered explicitly rather than hooked into a write path.
type CacheHandler struct {
	productService *services.ProductService
}

func NewCacheHandler(productService *services.ProductService) *CacheHandler {
	return &CacheHandler{
		productService: productService,
	}
}

// DELETE /admin/cache/products/:id
func (h *CacheHandler) InvalidateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	if err := h.productService.ClearProductCache(c.Request.Context(), uint(id)); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Product cache invalidated"})
}

// DELETE /admin/cache/products
func (h *CacheHandler) InvalidateListings(c *gin.Context) {
	if err := h.productService.ClearListingCache(c.Request.Context()); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Listing cache invalidated"})
}
