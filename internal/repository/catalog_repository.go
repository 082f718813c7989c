package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shoe-catalog-service/internal/models"
)

// DefaultQueryTimeout bounds every store operation when no timeout is configured
const DefaultQueryTimeout = 5 * time.Second

type CatalogRepository struct {
	db           *gorm.DB
	cache        *ListCache
	queryTimeout time.Duration
}

// NewCatalogRepository builds the catalog store. redisClient may be nil, in
// which case listing results are not cached.
func NewCatalogRepository(db *gorm.DB, redisClient *redis.Client, queryTimeout time.Duration) *CatalogRepository {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	return &CatalogRepository{
		db:           db,
		cache:        NewListCache(redisClient),
		queryTimeout: queryTimeout,
	}
}

func (r *CatalogRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.queryTimeout)
}

// classify maps driver and gorm errors onto the catalog error classes.
// Errors that are already classified pass through unchanged.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrStoreUnavailable):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.NewValidationError("", "a record with the same unique key already exists")
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return models.NewValidationError("", "value violates a catalog constraint")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return models.NewValidationError("", "referenced record does not exist")
	}
	return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("variants.size ASC")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("images.position ASC")
		}).
		Preload("Collections", func(db *gorm.DB) *gorm.DB {
			return db.Order("collections.title ASC")
		})
}

// sortChildren applies the display ordering to children held in memory.
// Sizes compare by byte order so the result does not depend on the
// database collation.
func sortChildren(p *models.Product) {
	sortVariants(p.Variants)
	sort.SliceStable(p.Images, func(i, j int) bool { return p.Images[i].Position < p.Images[j].Position })
}

func sortVariants(variants []models.Variant) {
	sort.SliceStable(variants, func(i, j int) bool { return variants[i].Size < variants[j].Size })
}

func applyProductFilter(query *gorm.DB, filter models.ProductFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(products.title) LIKE ? OR LOWER(products.brand) LIKE ? OR LOWER(products.description) LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Brand != "" {
		query = query.Where("LOWER(products.brand) = ?", strings.ToLower(filter.Brand))
	}
	if filter.ProductType != "" {
		query = query.Where("products.product_type = ?", strings.ToUpper(filter.ProductType))
	}
	if filter.Gender != "" {
		query = query.Where("products.gender = ?", strings.ToUpper(filter.Gender))
	}
	if filter.Featured != nil {
		query = query.Where("products.featured = ?", *filter.Featured)
	}
	if filter.Trending != nil {
		query = query.Where("products.trending = ?", *filter.Trending)
	}
	if filter.Collection != "" {
		sub := query.Session(&gorm.Session{NewDB: true}).
			Table("product_collections").
			Select("product_collections.product_id").
			Joins("JOIN collections ON collections.id = product_collections.collection_id").
			Where("collections.handle = ?", filter.Collection)
		query = query.Where("products.id IN (?)", sub)
	}
	return query
}

// Product Operations

// FindProducts returns every product matching filter, newest first, with
// variants ordered by size, images by position and collections loaded.
func (r *CatalogRepository) FindProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	if products, ok := r.cache.GetProducts(ctx, filter); ok {
		return products, nil
	}

	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var products []models.Product
	query := applyProductFilter(r.db.WithContext(qctx).Model(&models.Product{}), filter)
	if err := withChildren(query).Order("products.created_at DESC").Find(&products).Error; err != nil {
		return nil, classify(err)
	}
	for i := range products {
		sortChildren(&products[i])
	}

	r.cache.SetProducts(ctx, filter, products)
	return products, nil
}

// GetProduct retrieves a product by id with its children
func (r *CatalogRepository) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var product models.Product
	err := withChildren(r.db.WithContext(qctx)).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundError("product", id.String())
	}
	if err != nil {
		return nil, classify(err)
	}
	sortChildren(&product)
	return &product, nil
}

// FindProductByHandle retrieves a product by its natural key
func (r *CatalogRepository) FindProductByHandle(ctx context.Context, handle string) (*models.Product, error) {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var product models.Product
	err := withChildren(r.db.WithContext(qctx)).Where("handle = ?", handle).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundError("product", handle)
	}
	if err != nil {
		return nil, classify(err)
	}
	sortChildren(&product)
	return &product, nil
}

// CreateProduct inserts the product and any nested variants and images in a
// single transaction. Fails with a validation error when the handle is taken.
func (r *CatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := product.Normalize(); err != nil {
		return err
	}

	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	variants, images := product.Variants, product.Images
	err := r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureHandleFree(tx, &models.Product{}, product.Handle, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return err
		}
		for i := range variants {
			variants[i].ProductID = product.ID
		}
		if len(variants) > 0 {
			if err := tx.Create(&variants).Error; err != nil {
				return err
			}
		}
		for i := range images {
			images[i].ProductID = product.ID
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classify(err)
	}

	product.Variants, product.Images = variants, images
	sortChildren(product)
	r.invalidate(ctx)
	return nil
}

// UpsertProduct inserts the product or updates the scalar fields of the
// product holding the same handle. Variants and images are not touched.
func (r *CatalogRepository) UpsertProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := product.Normalize(); err != nil {
		return nil, err
	}

	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(qctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "handle"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "product_type", "brand", "gender",
			"material", "price", "featured", "trending", "updated_at",
		}),
	}).Create(product).Error
	if err != nil {
		return nil, classify(err)
	}
	r.invalidate(ctx)
	return r.FindProductByHandle(ctx, product.Handle)
}

// UpdateProduct applies only the fields set on patch
func (r *CatalogRepository) UpdateProduct(ctx context.Context, id uuid.UUID, patch models.ProductPatch) (*models.Product, error) {
	updates, err := patch.Columns()
	if err != nil {
		return nil, err
	}

	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err = r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &models.Product{}, "product", id); err != nil {
			return err
		}
		if handle, ok := updates["handle"].(string); ok {
			if err := ensureHandleFree(tx, &models.Product{}, handle, id); err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, classify(err)
	}

	r.invalidate(ctx)
	return r.GetProduct(ctx, id)
}

// DeleteProduct removes the product with its variants, images and collection
// links as one atomic unit.
func (r *CatalogRepository) DeleteProduct(ctx context.Context, id uuid.UUID) (*models.CascadeDeleteResult, error) {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := &models.CascadeDeleteResult{ProductID: id.String()}
	err := r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &models.Product{}, "product", id); err != nil {
			return err
		}

		images := tx.Where("product_id = ?", id).Delete(&models.Image{})
		if images.Error != nil {
			return fmt.Errorf("failed to delete images: %w", images.Error)
		}
		result.ImagesDeleted = int(images.RowsAffected)

		variants := tx.Where("product_id = ?", id).Delete(&models.Variant{})
		if variants.Error != nil {
			return fmt.Errorf("failed to delete variants: %w", variants.Error)
		}
		result.VariantsDeleted = int(variants.RowsAffected)

		links := tx.Exec("DELETE FROM product_collections WHERE product_id = ?", id)
		if links.Error != nil {
			return fmt.Errorf("failed to unlink collections: %w", links.Error)
		}
		result.CollectionLinksRemoved = int(links.RowsAffected)

		products := tx.Where("id = ?", id).Delete(&models.Product{})
		if products.Error != nil {
			return fmt.Errorf("failed to delete product: %w", products.Error)
		}
		result.ProductsDeleted = int(products.RowsAffected)
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	r.invalidate(ctx)
	return result, nil
}

// ensureExists returns NotFound when no row of model has the given id
func ensureExists(tx *gorm.DB, model interface{}, kind string, id uuid.UUID) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.NotFoundError(kind, id.String())
	}
	return nil
}

// ensureHandleFree rejects a handle already used by a row other than except
func ensureHandleFree(tx *gorm.DB, model interface{}, handle string, except uuid.UUID) error {
	var count int64
	query := tx.Model(model).Where("handle = ?", handle)
	if except != uuid.Nil {
		query = query.Where("id <> ?", except)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return models.NewValidationError("handle", fmt.Sprintf("handle %q already exists", handle))
	}
	return nil
}

func (r *CatalogRepository) invalidate(ctx context.Context) {
	r.cache.Invalidate(ctx)
}
