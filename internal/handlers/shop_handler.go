package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shoe-catalog-service/internal/clients"
	"shoe-catalog-service/internal/models"
)

// PlatformClient is the commerce platform Admin API as used by the proxy
type PlatformClient interface {
	ListProducts(ctx context.Context) ([]clients.PlatformProduct, error)
	GetProduct(ctx context.Context, id int64) (*clients.PlatformProduct, error)
	CreateProduct(ctx context.Context, input clients.CatalogProductInput) (*clients.PlatformProduct, error)
	UpdateProduct(ctx context.Context, id int64, updates map[string]interface{}) (*clients.PlatformProduct, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListCollections(ctx context.Context) ([]clients.PlatformCollection, error)
}

// ShopHandler proxies product and collection calls to the commerce platform
type ShopHandler struct {
	client PlatformClient
}

func NewShopHandler(client PlatformClient) *ShopHandler {
	return &ShopHandler{client: client}
}

func (h *ShopHandler) ListProducts(c *gin.Context) {
	products, err := h.client.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": products,
		"total":    len(products),
	})
}

func (h *ShopHandler) GetProduct(c *gin.Context) {
	id, ok := parsePlatformID(c)
	if !ok {
		return
	}

	product, err := h.client.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}

func (h *ShopHandler) CreateProduct(c *gin.Context) {
	var input clients.CatalogProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	product, err := h.client.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"product": product,
	})
}

func (h *ShopHandler) UpdateProduct(c *gin.Context) {
	id, ok := parsePlatformID(c)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	product, err := h.client.UpdateProduct(c.Request.Context(), id, updates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}

func (h *ShopHandler) DeleteProduct(c *gin.Context) {
	id, ok := parsePlatformID(c)
	if !ok {
		return
	}

	if err := h.client.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Product deleted from platform"),
	})
}

// parsePlatformID reads the numeric platform id from the path. Anything else
// is rejected before it can reach the upstream URL.
func parsePlatformID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   "Invalid platform product ID format",
			Code:    models.CodeInvalidID,
			Status:  http.StatusBadRequest,
		})
		return 0, false
	}
	return id, true
}

func (h *ShopHandler) ListCollections(c *gin.Context) {
	collections, err := h.client.ListCollections(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"collections": collections,
		"total":       len(collections),
	})
}
