package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shoe-catalog-service/internal/models"
)

func newProductsRouter(store CatalogStore, fallback bool) *gin.Engine {
	r := setupTestRouter()
	h := NewProductsHandler(store, nil, fallback)
	products := r.Group("/api/v1/products")
	products.GET("", h.GetProducts)
	products.GET("/:id", h.GetProduct)
	products.POST("", h.CreateProduct)
	products.PUT("/:id", h.UpdateProduct)
	products.DELETE("/:id", h.DeleteProduct)
	products.GET("/:id/variants", h.GetVariants)
	products.POST("/:id/variants", h.CreateVariant)
	products.PUT("/:id/variants/:variantId", h.UpdateVariant)
	products.DELETE("/:id/variants/:variantId", h.DeleteVariant)
	products.GET("/:id/images", h.GetImages)
	products.POST("/:id/images", h.AddImage)
	products.PUT("/:id/images/:imageId", h.UpdateImage)
	products.DELETE("/:id/images/:imageId", h.DeleteImage)
	products.POST("/:id/collections/:collectionId", h.AddToCollection)
	products.DELETE("/:id/collections/:collectionId", h.RemoveFromCollection)
	return r
}

func createTestProduct() *models.Product {
	id := uuid.New()
	return &models.Product{
		ID:          id,
		Handle:      "zapato-urbano-classic",
		Title:       "Zapato Urbano Classic",
		ProductType: models.ProductTypeCasual,
		Brand:       "UrbanStep",
		Gender:      models.GenderUnisex,
		Price:       decimal.RequireFromString("89.99"),
		Featured:    true,
		Variants: []models.Variant{
			{ID: uuid.New(), ProductID: id, Size: "38", Color: "Negro", Price: decimal.RequireFromString("89.99"), SKU: "URB001-BLK-38", Inventory: 10},
		},
	}
}

func storeDown() error {
	return fmt.Errorf("find products: dial tcp 127.0.0.1:5432: connection refused: %w", models.ErrStoreUnavailable)
}

func TestGetProducts_Success(t *testing.T) {
	store := new(MockCatalogStore)
	product := createTestProduct()
	featured := true
	store.On("FindProducts", mock.Anything, models.ProductFilter{Brand: "UrbanStep", Featured: &featured}).
		Return([]models.Product{*product}, nil)

	w := perform(newProductsRouter(store, true), http.MethodGet, "/api/v1/products?brand=UrbanStep&featured=true", nil)

	assertStatus(t, w, http.StatusOK)
	var resp models.ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.UsingFallback)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, product.ID, resp.Products[0].ID)
	store.AssertExpectations(t)
}

func TestGetProducts_EmptyListIsArray(t *testing.T) {
	store := new(MockCatalogStore)
	store.On("FindProducts", mock.Anything, models.ProductFilter{}).Return(nil, nil)

	w := perform(newProductsRouter(store, true), http.MethodGet, "/api/v1/products", nil)

	assertStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), `"products":[]`)
	assert.Contains(t, w.Body.String(), `"total":0`)
}

func TestGetProducts_InvalidBoolFilter(t *testing.T) {
	store := new(MockCatalogStore)

	w := perform(newProductsRouter(store, true), http.MethodGet, "/api/v1/products?trending=maybe", nil)

	assertStatus(t, w, http.StatusBadRequest)
	resp := decodeError(t, w)
	assert.Equal(t, models.CodeValidation, resp.Code)
	assert.Equal(t, "trending", resp.Field)
	store.AssertNotCalled(t, "FindProducts", mock.Anything, mock.Anything)
}

func TestGetProducts_FallbackWhenStoreUnavailable(t *testing.T) {
	store := new(MockCatalogStore)
	store.On("FindProducts", mock.Anything, mock.Anything).Return(nil, storeDown())
	router := newProductsRouter(store, true)

	w := perform(router, http.MethodGet, "/api/v1/products", nil)

	assertStatus(t, w, http.StatusOK)
	var resp models.ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.UsingFallback)
	assert.Equal(t, 2, resp.Total)
	require.NotNil(t, resp.Message)

	w = perform(router, http.MethodGet, "/api/v1/products?search=running", nil)

	assertStatus(t, w, http.StatusOK)
	resp = models.ProductListResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.UsingFallback)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Running Pro Max", resp.Products[0].Title)
}

func TestGetProducts_NoFallbackWhenDisabled(t *testing.T) {
	store := new(MockCatalogStore)
	store.On("FindProducts", mock.Anything, mock.Anything).Return(nil, storeDown())

	w := perform(newProductsRouter(store, false), http.MethodGet, "/api/v1/products", nil)

	assertStatus(t, w, http.StatusInternalServerError)
	resp := decodeError(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, models.CodeStoreUnavailable, resp.Code)
	assert.NotContains(t, resp.Error, "connection refused")
}

func TestGetProducts_UnclassifiedErrorIsInternal(t *testing.T) {
	store := new(MockCatalogStore)
	store.On("FindProducts", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("boom"))

	w := perform(newProductsRouter(store, true), http.MethodGet, "/api/v1/products", nil)

	assertStatus(t, w, http.StatusInternalServerError)
	resp := decodeError(t, w)
	assert.Equal(t, models.CodeInternal, resp.Code)
	assert.Equal(t, "Internal server error", resp.Error)
}

func TestGetProduct(t *testing.T) {
	store := new(MockCatalogStore)
	product := createTestProduct()
	missing := uuid.New()
	store.On("GetProduct", mock.Anything, product.ID).Return(product, nil)
	store.On("GetProduct", mock.Anything, missing).Return(nil, models.NotFoundError("product", missing.String()))
	router := newProductsRouter(store, true)

	t.Run("found", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/api/v1/products/"+product.ID.String(), nil)
		assertStatus(t, w, http.StatusOK)
		var resp models.ProductResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "zapato-urbano-classic", resp.Product.Handle)
		assert.True(t, resp.Product.Price.Equal(decimal.RequireFromString("89.99")))
		require.Len(t, resp.Product.Variants, 1)
	})

	t.Run("not found", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/api/v1/products/"+missing.String(), nil)
		assertStatus(t, w, http.StatusNotFound)
		resp := decodeError(t, w)
		assert.Equal(t, models.CodeNotFound, resp.Code)
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/api/v1/products/not-a-uuid", nil)
		assertStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, models.CodeInvalidID, decodeError(t, w).Code)
	})
}

func TestCreateProduct(t *testing.T) {
	store := new(MockCatalogStore)
	newID := uuid.New()
	store.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.Handle == "running-pro-max" && len(p.Variants) == 2 && len(p.Images) == 1
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Product).ID = newID
	}).Return(nil)

	body := map[string]interface{}{
		"handle":      "running-pro-max",
		"title":       "Running Pro Max",
		"productType": "sports",
		"brand":       "RunFast",
		"price":       "129.99",
		"variants": []map[string]interface{}{
			{"size": "39", "color": "Azul", "sku": "RUN001-BLU-39", "inventory": 8},
			{"size": "41", "color": "Azul", "sku": "RUN001-BLU-41", "inventory": 3, "price": "119.99"},
		},
		"images": []map[string]interface{}{
			{"url": "/images/running-1.jpg", "altText": "Running Pro Max"},
		},
	}

	w := perform(newProductsRouter(store, true), http.MethodPost, "/api/v1/products", body)

	assertStatus(t, w, http.StatusCreated)
	var resp models.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, newID, resp.Product.ID)
	store.AssertExpectations(t)
}

func TestCreateProduct_BadRequests(t *testing.T) {
	store := new(MockCatalogStore)
	store.On("CreateProduct", mock.Anything, mock.Anything).
		Return(models.NewValidationError("handle", "handle must be a lowercase URL slug"))
	router := newProductsRouter(store, true)

	t.Run("malformed json", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/api/v1/products", `{"handle":`)
		assertStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, models.CodeValidation, decodeError(t, w).Code)
	})

	t.Run("missing required", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/api/v1/products", map[string]string{"title": "Sin handle"})
		assertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("store validation", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/api/v1/products", map[string]string{"handle": "Bad Handle", "title": "X"})
		assertStatus(t, w, http.StatusBadRequest)
		resp := decodeError(t, w)
		assert.Equal(t, "handle", resp.Field)
		assert.Equal(t, models.CodeValidation, resp.Code)
	})
}

func TestUpdateProduct(t *testing.T) {
	store := new(MockCatalogStore)
	product := createTestProduct()
	product.Title = "Zapato Urbano Classic II"
	store.On("UpdateProduct", mock.Anything, product.ID, mock.MatchedBy(func(p models.ProductPatch) bool {
		return p.Title != nil && *p.Title == "Zapato Urbano Classic II" && p.Featured != nil && !*p.Featured && p.Brand == nil
	})).Return(product, nil)

	w := perform(newProductsRouter(store, true), http.MethodPut, "/api/v1/products/"+product.ID.String(),
		map[string]interface{}{"title": "Zapato Urbano Classic II", "featured": false, "brand": nil})

	assertStatus(t, w, http.StatusOK)
	var resp models.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Zapato Urbano Classic II", resp.Product.Title)
	store.AssertExpectations(t)
}

func TestDeleteProduct(t *testing.T) {
	store := new(MockCatalogStore)
	id := uuid.New()
	result := &models.CascadeDeleteResult{
		ProductID:              id.String(),
		ProductsDeleted:        1,
		VariantsDeleted:        2,
		ImagesDeleted:          2,
		CollectionLinksRemoved: 1,
	}
	store.On("DeleteProduct", mock.Anything, id).Return(result, nil)
	router := newProductsRouter(store, true)

	w := perform(router, http.MethodDelete, "/api/v1/products/"+id.String(), nil)

	assertStatus(t, w, http.StatusOK)
	var resp models.DeleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 2, resp.Result.VariantsDeleted)
	assert.Equal(t, 1, resp.Result.CollectionLinksRemoved)

	store.On("DeleteProduct", mock.Anything, mock.Anything).Return(nil, models.NotFoundError("product", "x"))
	w = perform(router, http.MethodDelete, "/api/v1/products/"+uuid.NewString(), nil)
	assertStatus(t, w, http.StatusNotFound)
}

func TestVariantRoutes(t *testing.T) {
	store := new(MockCatalogStore)
	productID := uuid.New()
	variantID := uuid.New()
	router := newProductsRouter(store, true)
	base := "/api/v1/products/" + productID.String() + "/variants"

	store.On("ListVariants", mock.Anything, productID).Return([]models.Variant{
		{ID: variantID, ProductID: productID, Size: "38", Color: "Negro", SKU: "URB001-BLK-38"},
	}, nil)
	store.On("CreateVariant", mock.Anything, productID, mock.MatchedBy(func(v *models.Variant) bool {
		return v.Size == "40" && v.InheritPrice
	})).Run(func(args mock.Arguments) {
		v := args.Get(2).(*models.Variant)
		v.ID = uuid.New()
		v.Price = decimal.RequireFromString("89.99")
	}).Return(nil)
	inventory := 0
	store.On("UpdateVariant", mock.Anything, productID, variantID, models.VariantPatch{Inventory: &inventory}).
		Return(&models.Variant{ID: variantID, ProductID: productID, Inventory: 0}, nil)
	store.On("DeleteVariant", mock.Anything, productID, variantID).Return(nil)

	w := perform(router, http.MethodGet, base, nil)
	assertStatus(t, w, http.StatusOK)
	var list models.VariantListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	w = perform(router, http.MethodPost, base, map[string]interface{}{"size": "40", "color": "Negro", "sku": "URB001-BLK-40", "inventory": 5})
	assertStatus(t, w, http.StatusCreated)
	var created models.VariantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Variant.Price.Equal(decimal.RequireFromString("89.99")))

	w = perform(router, http.MethodPut, base+"/"+variantID.String(), map[string]int{"inventory": 0})
	assertStatus(t, w, http.StatusOK)

	w = perform(router, http.MethodDelete, base+"/"+variantID.String(), nil)
	assertStatus(t, w, http.StatusOK)

	w = perform(router, http.MethodDelete, base+"/nope", nil)
	assertStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, models.CodeInvalidID, decodeError(t, w).Code)

	store.AssertExpectations(t)
}

func TestCreateVariant_ExplicitZeroPriceIsKept(t *testing.T) {
	store := new(MockCatalogStore)
	productID := uuid.New()
	store.On("CreateVariant", mock.Anything, productID, mock.MatchedBy(func(v *models.Variant) bool {
		return v.SKU == "URB001-BLK-44" && !v.InheritPrice && v.Price.IsZero()
	})).Return(nil)

	w := perform(newProductsRouter(store, true), http.MethodPost, "/api/v1/products/"+productID.String()+"/variants",
		`{"size":"44","color":"Negro","sku":"URB001-BLK-44","price":"0"}`)

	assertStatus(t, w, http.StatusCreated)
	var created models.VariantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Variant.Price.IsZero())
	store.AssertExpectations(t)
}

func TestVariantRoutes_ParentMissing(t *testing.T) {
	store := new(MockCatalogStore)
	productID := uuid.New()
	store.On("CreateVariant", mock.Anything, productID, mock.Anything).
		Return(models.NotFoundError("product", productID.String()))

	w := perform(newProductsRouter(store, true), http.MethodPost, "/api/v1/products/"+productID.String()+"/variants",
		map[string]interface{}{"size": "40", "color": "Negro", "sku": "X"})

	assertStatus(t, w, http.StatusNotFound)
}

func TestImageRoutes(t *testing.T) {
	store := new(MockCatalogStore)
	productID := uuid.New()
	imageID := uuid.New()
	router := newProductsRouter(store, true)
	base := "/api/v1/products/" + productID.String() + "/images"

	store.On("ListImages", mock.Anything, productID).Return(nil, nil)
	store.On("CreateImage", mock.Anything, productID, mock.MatchedBy(func(img *models.Image) bool {
		return img.URL == "/images/urbano-3.jpg" && img.Position == 0
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*models.Image).Position = 3
	}).Return(nil)
	store.On("UpdateImage", mock.Anything, productID, imageID, mock.Anything).
		Return(nil, models.NewValidationError("position", "position must be positive"))
	store.On("DeleteImage", mock.Anything, productID, imageID).Return(nil)

	w := perform(router, http.MethodGet, base, nil)
	assertStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), `"images":[]`)

	w = perform(router, http.MethodPost, base, map[string]string{"url": "/images/urbano-3.jpg"})
	assertStatus(t, w, http.StatusCreated)
	var created models.ImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 3, created.Image.Position)

	w = perform(router, http.MethodPut, base+"/"+imageID.String(), map[string]int{"position": -1})
	assertStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "position", decodeError(t, w).Field)

	w = perform(router, http.MethodDelete, base+"/"+imageID.String(), nil)
	assertStatus(t, w, http.StatusOK)

	store.AssertExpectations(t)
}

func TestCollectionLinkRoutes(t *testing.T) {
	store := new(MockCatalogStore)
	productID := uuid.New()
	collectionID := uuid.New()
	path := fmt.Sprintf("/api/v1/products/%s/collections/%s", productID, collectionID)
	store.On("AddProductToCollection", mock.Anything, productID, collectionID).Return(nil)
	store.On("RemoveProductFromCollection", mock.Anything, productID, collectionID).
		Return(models.NotFoundError("collection link", collectionID.String()))
	router := newProductsRouter(store, true)

	w := perform(router, http.MethodPost, path, nil)
	assertStatus(t, w, http.StatusOK)

	w = perform(router, http.MethodDelete, path, nil)
	assertStatus(t, w, http.StatusNotFound)

	w = perform(router, http.MethodPost, fmt.Sprintf("/api/v1/products/%s/collections/bad", productID), nil)
	assertStatus(t, w, http.StatusBadRequest)
	assert.Contains(t, decodeError(t, w).Error, "collection")
}
