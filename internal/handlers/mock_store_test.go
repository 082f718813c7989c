package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shoe-catalog-service/internal/models"
)

// MockCatalogStore is a mock implementation of CatalogStore
type MockCatalogStore struct {
	mock.Mock
}

func (m *MockCatalogStore) FindProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockCatalogStore) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogStore) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCatalogStore) UpdateProduct(ctx context.Context, id uuid.UUID, patch models.ProductPatch) (*models.Product, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogStore) DeleteProduct(ctx context.Context, id uuid.UUID) (*models.CascadeDeleteResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CascadeDeleteResult), args.Error(1)
}

func (m *MockCatalogStore) ListVariants(ctx context.Context, productID uuid.UUID) ([]models.Variant, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Variant), args.Error(1)
}

func (m *MockCatalogStore) CreateVariant(ctx context.Context, productID uuid.UUID, variant *models.Variant) error {
	args := m.Called(ctx, productID, variant)
	return args.Error(0)
}

func (m *MockCatalogStore) UpdateVariant(ctx context.Context, productID, variantID uuid.UUID, patch models.VariantPatch) (*models.Variant, error) {
	args := m.Called(ctx, productID, variantID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Variant), args.Error(1)
}

func (m *MockCatalogStore) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	args := m.Called(ctx, productID, variantID)
	return args.Error(0)
}

func (m *MockCatalogStore) ListImages(ctx context.Context, productID uuid.UUID) ([]models.Image, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Image), args.Error(1)
}

func (m *MockCatalogStore) CreateImage(ctx context.Context, productID uuid.UUID, image *models.Image) error {
	args := m.Called(ctx, productID, image)
	return args.Error(0)
}

func (m *MockCatalogStore) UpdateImage(ctx context.Context, productID, imageID uuid.UUID, patch models.ImagePatch) (*models.Image, error) {
	args := m.Called(ctx, productID, imageID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockCatalogStore) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	args := m.Called(ctx, productID, imageID)
	return args.Error(0)
}

func (m *MockCatalogStore) ListCollections(ctx context.Context) ([]models.Collection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Collection), args.Error(1)
}

func (m *MockCatalogStore) GetCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCatalogStore) CreateCollection(ctx context.Context, collection *models.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockCatalogStore) UpdateCollection(ctx context.Context, id uuid.UUID, patch models.CollectionPatch) (*models.Collection, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCatalogStore) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogStore) AddProductToCollection(ctx context.Context, productID, collectionID uuid.UUID) error {
	args := m.Called(ctx, productID, collectionID)
	return args.Error(0)
}

func (m *MockCatalogStore) RemoveProductFromCollection(ctx context.Context, productID, collectionID uuid.UUID) error {
	args := m.Called(ctx, productID, collectionID)
	return args.Error(0)
}

func (m *MockCatalogStore) ListSizeCharts(ctx context.Context) ([]models.SizeChart, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SizeChart), args.Error(1)
}

func (m *MockCatalogStore) GetSizeChartByBrand(ctx context.Context, brand string) (*models.SizeChart, error) {
	args := m.Called(ctx, brand)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SizeChart), args.Error(1)
}

func (m *MockCatalogStore) Counts(ctx context.Context) (*models.CatalogCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogCounts), args.Error(1)
}

func (m *MockCatalogStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Helper to setup test router
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "test-user")
		c.Next()
	})
	return r
}

// perform sends body (marshalled as JSON when non-nil) and returns the recorder
func perform(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// compile-time check
var _ CatalogStore = (*MockCatalogStore)(nil)

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
}
