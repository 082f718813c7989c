package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shoe-catalog-service/internal/models"
)

// Collection Operations

func (r *CatalogRepository) ListCollections(ctx context.Context) ([]models.Collection, error) {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var collections []models.Collection
	if err := r.db.WithContext(qctx).Order("title ASC").Find(&collections).Error; err != nil {
		return nil, classify(err)
	}
	return collections, nil
}

func (r *CatalogRepository) GetCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var collection models.Collection
	err := r.db.WithContext(qctx).Where("id = ?", id).First(&collection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundError("collection", id.String())
	}
	if err != nil {
		return nil, classify(err)
	}
	return &collection, nil
}

func (r *CatalogRepository) CreateCollection(ctx context.Context, collection *models.Collection) error {
	if err := collection.Validate(); err != nil {
		return err
	}

	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureHandleFree(tx, &models.Collection{}, collection.Handle, uuid.Nil); err != nil {
			return err
		}
		return tx.Create(collection).Error
	})
	return classify(err)
}

// UpsertCollection inserts the collection or updates the one holding the same handle
func (r *CatalogRepository) UpsertCollection(ctx context.Context, collection *models.Collection) (*models.Collection, error) {
	if err := collection.Validate(); err != nil {
		return nil, err
	}

	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	db := r.db.WithContext(qctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "handle"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "image_url", "updated_at"}),
	}).Create(collection).Error
	if err != nil {
		return nil, classify(err)
	}

	var stored models.Collection
	if err := db.Where("handle = ?", collection.Handle).First(&stored).Error; err != nil {
		return nil, classify(err)
	}
	r.invalidate(ctx)
	return &stored, nil
}

func (r *CatalogRepository) UpdateCollection(ctx context.Context, id uuid.UUID, patch models.CollectionPatch) (*models.Collection, error) {
	updates, err := patch.Columns()
	if err != nil {
		return nil, err
	}

	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err = r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &models.Collection{}, "collection", id); err != nil {
			return err
		}
		if handle, ok := updates["handle"].(string); ok {
			if err := ensureHandleFree(tx, &models.Collection{}, handle, id); err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Collection{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, classify(err)
	}

	r.invalidate(ctx)
	return r.GetCollection(ctx, id)
}

// DeleteCollection removes the collection and its product links. Products are kept.
func (r *CatalogRepository) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &models.Collection{}, "collection", id); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM product_collections WHERE collection_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink products: %w", err)
		}
		return tx.Where("id = ?", id).Delete(&models.Collection{}).Error
	})
	if err != nil {
		return classify(err)
	}

	r.invalidate(ctx)
	return nil
}

// AddProductToCollection links a product to a collection. Linking twice is a no-op.
func (r *CatalogRepository) AddProductToCollection(ctx context.Context, productID, collectionID uuid.UUID) error {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &models.Product{}, "product", productID); err != nil {
			return err
		}
		if err := ensureExists(tx, &models.Collection{}, "collection", collectionID); err != nil {
			return err
		}
		return tx.Table("product_collections").
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(map[string]interface{}{"product_id": productID, "collection_id": collectionID}).Error
	})
	if err != nil {
		return classify(err)
	}

	r.invalidate(ctx)
	return nil
}

func (r *CatalogRepository) RemoveProductFromCollection(ctx context.Context, productID, collectionID uuid.UUID) error {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &models.Product{}, "product", productID); err != nil {
			return err
		}
		if err := ensureExists(tx, &models.Collection{}, "collection", collectionID); err != nil {
			return err
		}
		return tx.Exec("DELETE FROM product_collections WHERE product_id = ? AND collection_id = ?",
			productID, collectionID).Error
	})
	if err != nil {
		return classify(err)
	}

	r.invalidate(ctx)
	return nil
}

// Size Chart Operations

func (r *CatalogRepository) ListSizeCharts(ctx context.Context) ([]models.SizeChart, error) {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var charts []models.SizeChart
	if err := r.db.WithContext(qctx).Order("brand ASC").Find(&charts).Error; err != nil {
		return nil, classify(err)
	}
	return charts, nil
}

func (r *CatalogRepository) GetSizeChartByBrand(ctx context.Context, brand string) (*models.SizeChart, error) {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var chart models.SizeChart
	err := r.db.WithContext(qctx).Where("brand = ?", brand).First(&chart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundError("size chart", brand)
	}
	if err != nil {
		return nil, classify(err)
	}
	return &chart, nil
}

// UpsertSizeChart inserts the chart or replaces the table of the chart for the same brand
func (r *CatalogRepository) UpsertSizeChart(ctx context.Context, chart *models.SizeChart) (*models.SizeChart, error) {
	chart.Brand = strings.TrimSpace(chart.Brand)
	if chart.Brand == "" {
		return nil, models.NewValidationError("brand", "brand is required")
	}
	if len(chart.Sizes) == 0 {
		return nil, models.NewValidationError("sizes", "size table is required")
	}

	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	db := r.db.WithContext(qctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "brand"}},
		DoUpdates: clause.AssignmentColumns([]string{"sizes", "type", "updated_at"}),
	}).Create(chart).Error
	if err != nil {
		return nil, classify(err)
	}

	var stored models.SizeChart
	if err := db.Where("brand = ?", chart.Brand).First(&stored).Error; err != nil {
		return nil, classify(err)
	}
	return &stored, nil
}
