package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shoe-catalog-service/internal/events"
	"shoe-catalog-service/internal/models"
)

// Variant operations

func (h *ProductsHandler) GetVariants(c *gin.Context) {
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	variants, err := h.store.ListVariants(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	if variants == nil {
		variants = []models.Variant{}
	}

	c.JSON(http.StatusOK, models.VariantListResponse{
		Success:  true,
		Variants: variants,
		Total:    len(variants),
	})
}

// CreateVariant godoc
// @Summary Add variant
// @Description A variant without a price inherits the product's base price
// @Tags Variants
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param variant body models.CreateVariantRequest true "Variant data"
// @Success 201 {object} models.VariantResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id}/variants [post]
func (h *ProductsHandler) CreateVariant(c *gin.Context) {
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	var req models.CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	variant := req.Variant()
	if err := h.store.CreateVariant(c.Request.Context(), productID, variant); err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, events.EntityVariant, events.ActionCreated, variant.ID.String(), productID.String(), variant)

	c.JSON(http.StatusCreated, models.VariantResponse{
		Success: true,
		Variant: variant,
		Message: stringPtr("Variant created successfully"),
	})
}

func (h *ProductsHandler) UpdateVariant(c *gin.Context) {
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}
	variantID, ok := parseID(c, "variantId", "variant")
	if !ok {
		return
	}

	var patch models.VariantPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	variant, err := h.store.UpdateVariant(c.Request.Context(), productID, variantID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, events.EntityVariant, events.ActionUpdated, variantID.String(), productID.String(), patch)

	c.JSON(http.StatusOK, models.VariantResponse{
		Success: true,
		Variant: variant,
		Message: stringPtr("Variant updated successfully"),
	})
}

func (h *ProductsHandler) DeleteVariant(c *gin.Context) {
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}
	variantID, ok := parseID(c, "variantId", "variant")
	if !ok {
		return
	}

	if err := h.store.DeleteVariant(c.Request.Context(), productID, variantID); err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, events.EntityVariant, events.ActionDeleted, variantID.String(), productID.String(), nil)

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Variant deleted successfully"),
	})
}

// Image operations

func (h *ProductsHandler) GetImages(c *gin.Context) {
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	images, err := h.store.ListImages(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	if images == nil {
		images = []models.Image{}
	}

	c.JSON(http.StatusOK, models.ImageListResponse{
		Success: true,
		Images:  images,
		Total:   len(images),
	})
}

// AddImage godoc
// @Summary Add image
// @Description An image without a position is appended after the product's last image
// @Tags Images
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param image body models.CreateImageRequest true "Image data"
// @Success 201 {object} models.ImageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id}/images [post]
func (h *ProductsHandler) AddImage(c *gin.Context) {
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	var req models.CreateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	image := req.Image()
	if err := h.store.CreateImage(c.Request.Context(), productID, image); err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, events.EntityImage, events.ActionCreated, image.ID.String(), productID.String(), image)

	c.JSON(http.StatusCreated, models.ImageResponse{
		Success: true,
		Image:   image,
		Message: stringPtr("Image added successfully"),
	})
}

func (h *ProductsHandler) UpdateImage(c *gin.Context) {
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "imageId", "image")
	if !ok {
		return
	}

	var patch models.ImagePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	image, err := h.store.UpdateImage(c.Request.Context(), productID, imageID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, events.EntityImage, events.ActionUpdated, imageID.String(), productID.String(), patch)

	c.JSON(http.StatusOK, models.ImageResponse{
		Success: true,
		Image:   image,
		Message: stringPtr("Image updated successfully"),
	})
}

func (h *ProductsHandler) DeleteImage(c *gin.Context) {
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "imageId", "image")
	if !ok {
		return
	}

	if err := h.store.DeleteImage(c.Request.Context(), productID, imageID); err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, events.EntityImage, events.ActionDeleted, imageID.String(), productID.String(), nil)

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Image deleted successfully"),
	})
}
