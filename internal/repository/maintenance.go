package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shoe-catalog-service/internal/models"
)

// Reset wipes every catalog table, children before parents, in one transaction
func (r *CatalogRepository) Reset(ctx context.Context) (*models.ResetResult, error) {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := &models.ResetResult{}
	err := r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})

		steps := []struct {
			name  string
			run   func() *gorm.DB
			count *int64
		}{
			{"images", func() *gorm.DB { return all.Delete(&models.Image{}) }, &result.ImagesDeleted},
			{"variants", func() *gorm.DB { return all.Delete(&models.Variant{}) }, &result.VariantsDeleted},
			{"collection links", func() *gorm.DB { return tx.Exec("DELETE FROM product_collections") }, &result.CollectionLinksRemoved},
			{"products", func() *gorm.DB { return all.Delete(&models.Product{}) }, &result.ProductsDeleted},
			{"collections", func() *gorm.DB { return all.Delete(&models.Collection{}) }, &result.CollectionsDeleted},
			{"size charts", func() *gorm.DB { return all.Delete(&models.SizeChart{}) }, &result.SizeChartsDeleted},
		}
		for _, step := range steps {
			res := step.run()
			if res.Error != nil {
				return fmt.Errorf("failed to delete %s: %w", step.name, res.Error)
			}
			*step.count = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	r.invalidate(ctx)
	return result, nil
}

// Counts returns row totals for every entity kind
func (r *CatalogRepository) Counts(ctx context.Context) (*models.CatalogCounts, error) {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	db := r.db.WithContext(qctx)
	counts := &models.CatalogCounts{}
	targets := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Product{}, &counts.Products},
		{&models.Variant{}, &counts.Variants},
		{&models.Image{}, &counts.Images},
		{&models.Collection{}, &counts.Collections},
		{&models.SizeChart{}, &counts.SizeCharts},
	}
	for _, t := range targets {
		if err := db.Model(t.model).Count(t.dest).Error; err != nil {
			return nil, classify(err)
		}
	}
	return counts, nil
}

// Ping verifies the store connection within the query timeout
func (r *CatalogRepository) Ping(ctx context.Context) error {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	sqlDB, err := r.db.DB()
	if err != nil {
		return classify(err)
	}
	return classify(sqlDB.PingContext(qctx))
}
