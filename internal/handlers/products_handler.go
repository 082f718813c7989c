package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shoe-catalog-service/internal/events"
	"shoe-catalog-service/internal/fixtures"
	"shoe-catalog-service/internal/models"
)

type ProductsHandler struct {
	store           CatalogStore
	eventsPublisher *events.Publisher
	fallbackEnabled bool
}

// NewProductsHandler builds the product handlers. eventsPublisher may be nil.
func NewProductsHandler(store CatalogStore, eventsPublisher *events.Publisher, fallbackEnabled bool) *ProductsHandler {
	return &ProductsHandler{
		store:           store,
		eventsPublisher: eventsPublisher,
		fallbackEnabled: fallbackEnabled,
	}
}

func (h *ProductsHandler) publish(c *gin.Context, entity, action, entityID, productID string, data interface{}) {
	event := events.NewCatalogEvent(entity, action, entityID, data)
	event.ProductID = productID
	event.ActorID = actorID(c)
	h.eventsPublisher.Publish(c.Request.Context(), event)
}

// parseProductFilter reads listing filters from the query string
func parseProductFilter(c *gin.Context) (models.ProductFilter, error) {
	filter := models.ProductFilter{
		Search:      c.Query("search"),
		Brand:       c.Query("brand"),
		ProductType: c.Query("productType"),
		Gender:      c.Query("gender"),
		Collection:  c.Query("collection"),
	}
	for name, dest := range map[string]**bool{"featured": &filter.Featured, "trending": &filter.Trending} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, models.NewValidationError(name, name+" must be true or false")
		}
		*dest = &v
	}
	return filter, nil
}

// GetProducts godoc
// @Summary List products
// @Description List products newest first, with variants ordered by size and images by position.
// @Description Serves the fallback dataset with usingFallback=true when the store is unreachable.
// @Tags Products
// @Produce json
// @Param search query string false "Matches title, brand or description"
// @Param brand query string false "Brand"
// @Param productType query string false "Product type"
// @Param gender query string false "Gender"
// @Param featured query bool false "Featured only"
// @Param trending query bool false "Trending only"
// @Param collection query string false "Collection handle"
// @Success 200 {object} models.ProductListResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /products [get]
func (h *ProductsHandler) GetProducts(c *gin.Context) {
	filter, err := parseProductFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	products, err := h.store.FindProducts(c.Request.Context(), filter)
	if err != nil {
		if h.fallbackEnabled && errors.Is(err, models.ErrStoreUnavailable) {
			h.respondFallback(c, filter, err)
			return
		}
		respondError(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success:  true,
		Products: products,
		Total:    len(products),
	})
}

func (h *ProductsHandler) respondFallback(c *gin.Context, filter models.ProductFilter, cause error) {
	fallback, err := fixtures.FallbackProducts()
	if err != nil {
		logrus.WithError(err).Error("Fallback dataset is unusable")
		respondError(c, cause)
		return
	}
	logrus.WithError(cause).Warn("Catalog store unavailable, serving fallback products")

	products := make([]models.Product, 0, len(fallback))
	for i := range fallback {
		if filter.Matches(&fallback[i]) {
			products = append(products, fallback[i])
		}
	}
	c.JSON(http.StatusOK, models.ProductListResponse{
		Success:       true,
		Products:      products,
		Total:         len(products),
		UsingFallback: true,
		Message:       stringPtr("Catalog store is unavailable; showing demo products"),
	})
}

// GetProduct godoc
// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.ProductResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.store.GetProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Product: product,
	})
}

// CreateProduct godoc
// @Summary Create product
// @Description Create a product, optionally with nested variants and images, in one transaction
// @Tags Products
// @Accept json
// @Produce json
// @Param product body models.CreateProductRequest true "Product data"
// @Success 201 {object} models.ProductResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /products [post]
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	product := req.Product()
	if err := h.store.CreateProduct(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, events.EntityProduct, events.ActionCreated, product.ID.String(), product.ID.String(), product)

	c.JSON(http.StatusCreated, models.ProductResponse{
		Success: true,
		Product: product,
		Message: stringPtr("Product created successfully"),
	})
}

// UpdateProduct godoc
// @Summary Update product
// @Description Partial update: absent or null fields are left unchanged
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body models.ProductPatch true "Fields to change"
// @Success 200 {object} models.ProductResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	var patch models.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	product, err := h.store.UpdateProduct(c.Request.Context(), productID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, events.EntityProduct, events.ActionUpdated, product.ID.String(), product.ID.String(), patch)

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Product: product,
		Message: stringPtr("Product updated successfully"),
	})
}

// DeleteProduct godoc
// @Summary Delete product
// @Description Removes the product with its variants, images and collection links atomically
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.DeleteResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	result, err := h.store.DeleteProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, events.EntityProduct, events.ActionDeleted, productID.String(), productID.String(), result)

	c.JSON(http.StatusOK, models.DeleteResponse{
		Success: true,
		Result:  result,
		Message: stringPtr("Product deleted successfully"),
	})
}

// AddToCollection links a product to a collection
// POST /api/v1/products/:id/collections/:collectionId
func (h *ProductsHandler) AddToCollection(c *gin.Context) {
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}
	collectionID, ok := parseID(c, "collectionId", "collection")
	if !ok {
		return
	}

	if err := h.store.AddProductToCollection(c.Request.Context(), productID, collectionID); err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, events.EntityCollection, events.ActionLinked, collectionID.String(), productID.String(), nil)

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Product added to collection"),
	})
}

// RemoveFromCollection unlinks a product from a collection
// DELETE /api/v1/products/:id/collections/:collectionId
func (h *ProductsHandler) RemoveFromCollection(c *gin.Context) {
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}
	collectionID, ok := parseID(c, "collectionId", "collection")
	if !ok {
		return
	}

	if err := h.store.RemoveProductFromCollection(c.Request.Context(), productID, collectionID); err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, events.EntityCollection, events.ActionUnlinked, collectionID.String(), productID.String(), nil)

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Product removed from collection"),
	})
}
