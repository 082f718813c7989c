package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shoe-catalog-service/internal/events"
	"shoe-catalog-service/internal/models"
)

// CollectionsHandler serves collections and size charts
type CollectionsHandler struct {
	store           CatalogStore
	eventsPublisher *events.Publisher
}

func NewCollectionsHandler(store CatalogStore, eventsPublisher *events.Publisher) *CollectionsHandler {
	return &CollectionsHandler{store: store, eventsPublisher: eventsPublisher}
}

func (h *CollectionsHandler) publish(c *gin.Context, action, collectionID string, data interface{}) {
	event := events.NewCatalogEvent(events.EntityCollection, action, collectionID, data)
	event.ActorID = actorID(c)
	h.eventsPublisher.Publish(c.Request.Context(), event)
}

// GetCollections godoc
// @Summary List collections
// @Tags Collections
// @Produce json
// @Success 200 {object} models.CollectionListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /collections [get]
func (h *CollectionsHandler) GetCollections(c *gin.Context) {
	collections, err := h.store.ListCollections(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if collections == nil {
		collections = []models.Collection{}
	}

	c.JSON(http.StatusOK, models.CollectionListResponse{
		Success:     true,
		Collections: collections,
		Total:       len(collections),
	})
}

func (h *CollectionsHandler) GetCollection(c *gin.Context) {
	collectionID, ok := parseID(c, "id", "collection")
	if !ok {
		return
	}

	collection, err := h.store.GetCollection(c.Request.Context(), collectionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CollectionResponse{
		Success:    true,
		Collection: collection,
	})
}

// CreateCollection godoc
// @Summary Create collection
// @Tags Collections
// @Accept json
// @Produce json
// @Param collection body models.CreateCollectionRequest true "Collection data"
// @Success 201 {object} models.CollectionResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /collections [post]
func (h *CollectionsHandler) CreateCollection(c *gin.Context) {
	var req models.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	collection := req.Collection()
	if err := h.store.CreateCollection(c.Request.Context(), collection); err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, events.ActionCreated, collection.ID.String(), collection)

	c.JSON(http.StatusCreated, models.CollectionResponse{
		Success:    true,
		Collection: collection,
		Message:    stringPtr("Collection created successfully"),
	})
}

func (h *CollectionsHandler) UpdateCollection(c *gin.Context) {
	collectionID, ok := parseID(c, "id", "collection")
	if !ok {
		return
	}

	var patch models.CollectionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	collection, err := h.store.UpdateCollection(c.Request.Context(), collectionID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, events.ActionUpdated, collectionID.String(), patch)

	c.JSON(http.StatusOK, models.CollectionResponse{
		Success:    true,
		Collection: collection,
		Message:    stringPtr("Collection updated successfully"),
	})
}

// DeleteCollection removes the collection. Its products stay in the catalog.
func (h *CollectionsHandler) DeleteCollection(c *gin.Context) {
	collectionID, ok := parseID(c, "id", "collection")
	if !ok {
		return
	}

	if err := h.store.DeleteCollection(c.Request.Context(), collectionID); err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, events.ActionDeleted, collectionID.String(), nil)

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Collection deleted successfully"),
	})
}

// Size charts

// GetSizeCharts godoc
// @Summary List size charts
// @Tags SizeCharts
// @Produce json
// @Success 200 {object} models.SizeChartListResponse
// @Router /size-charts [get]
func (h *CollectionsHandler) GetSizeCharts(c *gin.Context) {
	charts, err := h.store.ListSizeCharts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if charts == nil {
		charts = []models.SizeChart{}
	}

	c.JSON(http.StatusOK, models.SizeChartListResponse{
		Success:    true,
		SizeCharts: charts,
		Total:      len(charts),
	})
}

func (h *CollectionsHandler) GetSizeChart(c *gin.Context) {
	chart, err := h.store.GetSizeChartByBrand(c.Request.Context(), c.Param("brand"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SizeChartResponse{
		Success:   true,
		SizeChart: chart,
	})
}
