package handlers

import (
	"context"

	"github.com/google/uuid"

	"shoe-catalog-service/internal/models"
)

// CatalogStore is the catalog persistence the HTTP surface depends on.
// *repository.CatalogRepository satisfies it.
type CatalogStore interface {
	FindProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id uuid.UUID, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (*models.CascadeDeleteResult, error)

	ListVariants(ctx context.Context, productID uuid.UUID) ([]models.Variant, error)
	CreateVariant(ctx context.Context, productID uuid.UUID, variant *models.Variant) error
	UpdateVariant(ctx context.Context, productID, variantID uuid.UUID, patch models.VariantPatch) (*models.Variant, error)
	DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error

	ListImages(ctx context.Context, productID uuid.UUID) ([]models.Image, error)
	CreateImage(ctx context.Context, productID uuid.UUID, image *models.Image) error
	UpdateImage(ctx context.Context, productID, imageID uuid.UUID, patch models.ImagePatch) (*models.Image, error)
	DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error

	ListCollections(ctx context.Context) ([]models.Collection, error)
	GetCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	CreateCollection(ctx context.Context, collection *models.Collection) error
	UpdateCollection(ctx context.Context, id uuid.UUID, patch models.CollectionPatch) (*models.Collection, error)
	DeleteCollection(ctx context.Context, id uuid.UUID) error
	AddProductToCollection(ctx context.Context, productID, collectionID uuid.UUID) error
	RemoveProductFromCollection(ctx context.Context, productID, collectionID uuid.UUID) error

	ListSizeCharts(ctx context.Context) ([]models.SizeChart, error)
	GetSizeChartByBrand(ctx context.Context, brand string) (*models.SizeChart, error)

	Counts(ctx context.Context) (*models.CatalogCounts, error)
	Ping(ctx context.Context) error
}
