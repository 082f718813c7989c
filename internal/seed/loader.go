// Package seed populates the catalog store from a declarative dataset.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shoe-catalog-service/internal/fixtures"
	"shoe-catalog-service/internal/models"
)

// Store is the part of the catalog store the loader writes through
type Store interface {
	UpsertSizeChart(ctx context.Context, chart *models.SizeChart) (*models.SizeChart, error)
	UpsertCollection(ctx context.Context, collection *models.Collection) (*models.Collection, error)
	FindProductByHandle(ctx context.Context, handle string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	AddProductToCollection(ctx context.Context, productID, collectionID uuid.UUID) error
	Reset(ctx context.Context) (*models.ResetResult, error)
	Counts(ctx context.Context) (*models.CatalogCounts, error)
}

// ProductSummary describes one dataset product after a load
type ProductSummary struct {
	Handle     string   `json:"handle"`
	Title      string   `json:"title"`
	Sizes      []string `json:"sizes"`
	Colors     []string `json:"colors"`
	TotalStock int      `json:"totalStock"`
	Skipped    bool     `json:"skipped"`
}

// Report is the outcome of a load
type Report struct {
	SizeChartsUpserted  int                   `json:"sizeChartsUpserted"`
	CollectionsUpserted int                   `json:"collectionsUpserted"`
	ProductsCreated     int                   `json:"productsCreated"`
	ProductsSkipped     int                   `json:"productsSkipped"`
	VariantsCreated     int                   `json:"variantsCreated"`
	ImagesCreated       int                   `json:"imagesCreated"`
	Products            []ProductSummary      `json:"products"`
	Totals              *models.CatalogCounts `json:"totals"`
}

// Loader applies datasets to a Store
type Loader struct {
	store  Store
	logger *logrus.Entry
}

func NewLoader(store Store, logger *logrus.Logger) *Loader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Loader{
		store:  store,
		logger: logger.WithField("component", "seed"),
	}
}

// Load upserts size charts and collections by natural key, then creates the
// products whose handle is not present yet. Existing products are left as
// they are, children included, so re-running a load never duplicates rows.
func (l *Loader) Load(ctx context.Context, catalog *fixtures.Catalog) (*Report, error) {
	if catalog == nil {
		return nil, models.NewValidationError("catalog", "dataset is required")
	}
	report := &Report{}

	for _, f := range catalog.SizeCharts {
		chart, err := f.SizeChart()
		if err != nil {
			return nil, err
		}
		if _, err := l.store.UpsertSizeChart(ctx, chart); err != nil {
			return nil, fmt.Errorf("failed to upsert size chart %s: %w", f.Brand, err)
		}
		report.SizeChartsUpserted++
		l.logger.WithField("brand", f.Brand).Info("Size chart upserted")
	}

	collectionIDs := make(map[string]uuid.UUID, len(catalog.Collections))
	for _, f := range catalog.Collections {
		stored, err := l.store.UpsertCollection(ctx, f.Collection())
		if err != nil {
			return nil, fmt.Errorf("failed to upsert collection %s: %w", f.Handle, err)
		}
		collectionIDs[stored.Handle] = stored.ID
		report.CollectionsUpserted++
		l.logger.WithField("handle", f.Handle).Info("Collection upserted")
	}

	for _, f := range catalog.Products {
		summary, err := l.loadProduct(ctx, f, collectionIDs, report)
		if err != nil {
			return nil, err
		}
		report.Products = append(report.Products, *summary)
	}

	totals, err := l.store.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count catalog rows: %w", err)
	}
	report.Totals = totals

	l.logReport(report)
	return report, nil
}

func (l *Loader) loadProduct(ctx context.Context, f fixtures.ProductFixture, collectionIDs map[string]uuid.UUID, report *Report) (*ProductSummary, error) {
	existing, err := l.store.FindProductByHandle(ctx, f.Handle)
	switch {
	case err == nil:
		report.ProductsSkipped++
		l.logger.WithField("handle", f.Handle).Info("Product exists, skipping")
		summary := summarize(existing)
		summary.Skipped = true
		return summary, nil
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("failed to look up product %s: %w", f.Handle, err)
	}

	product, err := f.Product()
	if err != nil {
		return nil, err
	}
	if err := l.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product %s: %w", f.Handle, err)
	}
	report.ProductsCreated++
	report.VariantsCreated += len(product.Variants)
	report.ImagesCreated += len(product.Images)

	for _, handle := range f.Collections {
		collectionID, ok := collectionIDs[handle]
		if !ok {
			return nil, models.NewValidationError("collections",
				fmt.Sprintf("product %s references unknown collection %s", f.Handle, handle))
		}
		if err := l.store.AddProductToCollection(ctx, product.ID, collectionID); err != nil {
			return nil, fmt.Errorf("failed to link product %s to %s: %w", f.Handle, handle, err)
		}
	}

	l.logger.WithFields(logrus.Fields{
		"handle":   product.Handle,
		"variants": len(product.Variants),
		"images":   len(product.Images),
	}).Info("Product created")
	return summarize(product), nil
}

// Reset removes every catalog row
func (l *Loader) Reset(ctx context.Context) (*models.ResetResult, error) {
	result, err := l.store.Reset(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reset catalog: %w", err)
	}
	l.logger.WithFields(logrus.Fields{
		"images":           result.ImagesDeleted,
		"variants":         result.VariantsDeleted,
		"collection_links": result.CollectionLinksRemoved,
		"products":         result.ProductsDeleted,
		"collections":      result.CollectionsDeleted,
		"size_charts":      result.SizeChartsDeleted,
	}).Info("Catalog reset")
	return result, nil
}

func summarize(p *models.Product) *ProductSummary {
	summary := &ProductSummary{
		Handle:     p.Handle,
		Title:      p.Title,
		TotalStock: p.TotalStock(),
	}
	seenColor := make(map[string]bool)
	for _, v := range p.Variants {
		summary.Sizes = append(summary.Sizes, v.Size)
		if !seenColor[v.Color] {
			seenColor[v.Color] = true
			summary.Colors = append(summary.Colors, v.Color)
		}
	}
	return summary
}

func (l *Loader) logReport(r *Report) {
	l.logger.WithFields(logrus.Fields{
		"size_charts":      r.SizeChartsUpserted,
		"collections":      r.CollectionsUpserted,
		"products_created": r.ProductsCreated,
		"products_skipped": r.ProductsSkipped,
		"variants_created": r.VariantsCreated,
		"images_created":   r.ImagesCreated,
	}).Info("Seed completed")

	if r.Totals != nil {
		l.logger.WithFields(logrus.Fields{
			"products":    r.Totals.Products,
			"variants":    r.Totals.Variants,
			"images":      r.Totals.Images,
			"collections": r.Totals.Collections,
			"size_charts": r.Totals.SizeCharts,
		}).Info("Catalog totals")
	}

	for _, p := range r.Products {
		l.logger.WithFields(logrus.Fields{
			"handle": p.Handle,
			"sizes":  strings.Join(p.Sizes, ", "),
			"colors": strings.Join(p.Colors, ", "),
			"stock":  p.TotalStock,
		}).Info(p.Title)
	}
}
