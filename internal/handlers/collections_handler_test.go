package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shoe-catalog-service/internal/models"
)

func newCollectionsRouter(store CatalogStore) *gin.Engine {
	r := setupTestRouter()
	h := NewCollectionsHandler(store, nil)
	r.GET("/api/v1/collections", h.GetCollections)
	r.POST("/api/v1/collections", h.CreateCollection)
	r.GET("/api/v1/collections/:id", h.GetCollection)
	r.PUT("/api/v1/collections/:id", h.UpdateCollection)
	r.DELETE("/api/v1/collections/:id", h.DeleteCollection)
	r.GET("/api/v1/size-charts", h.GetSizeCharts)
	r.GET("/api/v1/size-charts/:brand", h.GetSizeChart)
	return r
}

func TestCollectionRoutes(t *testing.T) {
	store := new(MockCatalogStore)
	router := newCollectionsRouter(store)
	existing := models.Collection{ID: uuid.New(), Handle: "urban-collection", Title: "Colección Urbana"}

	store.On("ListCollections", mock.Anything).Return([]models.Collection{existing}, nil)
	store.On("GetCollection", mock.Anything, existing.ID).Return(&existing, nil)
	store.On("CreateCollection", mock.Anything, mock.MatchedBy(func(c *models.Collection) bool {
		return c.Handle == "sport-collection"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Collection).ID = uuid.New()
	}).Return(nil)
	title := "Colección Urbana 2025"
	updated := existing
	updated.Title = title
	store.On("UpdateCollection", mock.Anything, existing.ID, models.CollectionPatch{Title: &title}).Return(&updated, nil)
	store.On("DeleteCollection", mock.Anything, existing.ID).Return(nil)

	w := perform(router, http.MethodGet, "/api/v1/collections", nil)
	assertStatus(t, w, http.StatusOK)
	var list models.CollectionListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "urban-collection", list.Collections[0].Handle)

	w = perform(router, http.MethodGet, "/api/v1/collections/"+existing.ID.String(), nil)
	assertStatus(t, w, http.StatusOK)

	w = perform(router, http.MethodPost, "/api/v1/collections", map[string]string{"handle": "sport-collection", "title": "Colección Deportiva"})
	assertStatus(t, w, http.StatusCreated)
	var created models.CollectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEqual(t, uuid.Nil, created.Collection.ID)

	w = perform(router, http.MethodPut, "/api/v1/collections/"+existing.ID.String(), map[string]string{"title": title})
	assertStatus(t, w, http.StatusOK)
	var resp models.CollectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, title, resp.Collection.Title)

	w = perform(router, http.MethodDelete, "/api/v1/collections/"+existing.ID.String(), nil)
	assertStatus(t, w, http.StatusOK)

	store.AssertExpectations(t)
}

func TestCollectionRoutes_Errors(t *testing.T) {
	store := new(MockCatalogStore)
	router := newCollectionsRouter(store)
	missing := uuid.New()
	store.On("GetCollection", mock.Anything, missing).Return(nil, models.NotFoundError("collection", missing.String()))
	store.On("CreateCollection", mock.Anything, mock.Anything).
		Return(models.NewValidationError("handle", "collection handle urban-collection already exists"))
	store.On("ListCollections", mock.Anything).Return(nil, storeDown())

	w := perform(router, http.MethodGet, "/api/v1/collections/"+missing.String(), nil)
	assertStatus(t, w, http.StatusNotFound)

	w = perform(router, http.MethodPost, "/api/v1/collections", map[string]string{"handle": "urban-collection", "title": "Dup"})
	assertStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "handle", decodeError(t, w).Field)

	w = perform(router, http.MethodGet, "/api/v1/collections", nil)
	assertStatus(t, w, http.StatusInternalServerError)
	assert.Equal(t, models.CodeStoreUnavailable, decodeError(t, w).Code)

	w = perform(router, http.MethodPut, "/api/v1/collections/123", map[string]string{"title": "x"})
	assertStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, models.CodeInvalidID, decodeError(t, w).Code)
}

func TestSizeChartRoutes(t *testing.T) {
	store := new(MockCatalogStore)
	router := newCollectionsRouter(store)
	chart, err := models.NewSizeChart("UrbanStep", models.SizeTable{
		EU:   []float64{38, 39, 40},
		US:   []float64{6, 7, 8},
		UK:   []float64{5, 6, 7},
		CM:   []float64{24, 25, 26},
		Type: "UNISEX",
	})
	require.NoError(t, err)

	store.On("ListSizeCharts", mock.Anything).Return([]models.SizeChart{*chart}, nil)
	store.On("GetSizeChartByBrand", mock.Anything, "UrbanStep").Return(chart, nil)
	store.On("GetSizeChartByBrand", mock.Anything, "Nadie").Return(nil, models.NotFoundError("size chart", "Nadie"))

	w := perform(router, http.MethodGet, "/api/v1/size-charts", nil)
	assertStatus(t, w, http.StatusOK)
	var list models.SizeChartListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	w = perform(router, http.MethodGet, "/api/v1/size-charts/UrbanStep", nil)
	assertStatus(t, w, http.StatusOK)
	var resp models.SizeChartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	table, err := resp.SizeChart.Table()
	require.NoError(t, err)
	assert.Equal(t, []float64{24, 25, 26}, table.CM)

	w = perform(router, http.MethodGet, "/api/v1/size-charts/Nadie", nil)
	assertStatus(t, w, http.StatusNotFound)
}
