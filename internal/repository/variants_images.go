package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shoe-catalog-service/internal/models"
)

// Variant Operations

// ListVariants returns the product's variants ordered by size
func (r *CatalogRepository) ListVariants(ctx context.Context, productID uuid.UUID) ([]models.Variant, error) {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var variants []models.Variant
	err := r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &models.Product{}, "product", productID); err != nil {
			return err
		}
		return tx.Where("product_id = ?", productID).Order("size ASC").Find(&variants).Error
	})
	if err != nil {
		return nil, classify(err)
	}
	sortVariants(variants)
	return variants, nil
}

// CreateVariant adds a variant to an existing product. A variant flagged
// InheritPrice takes the product's base price.
func (r *CatalogRepository) CreateVariant(ctx context.Context, productID uuid.UUID, variant *models.Variant) error {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		err := tx.Select("id", "price").Where("id = ?", productID).First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NotFoundError("product", productID.String())
		}
		if err != nil {
			return err
		}

		if variant.InheritPrice {
			variant.Price = product.Price
		}
		if err := variant.Validate(); err != nil {
			return err
		}
		variant.ProductID = productID
		return tx.Create(variant).Error
	})
	if err != nil {
		return classify(err)
	}

	r.invalidate(ctx)
	return nil
}

// UpdateVariant applies only the fields set on patch
func (r *CatalogRepository) UpdateVariant(ctx context.Context, productID, variantID uuid.UUID, patch models.VariantPatch) (*models.Variant, error) {
	updates, err := patch.Columns()
	if err != nil {
		return nil, err
	}

	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var variant models.Variant
	err = r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		if err := findChild(tx, &variant, "variant", productID, variantID); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&variant).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", variantID).First(&variant).Error
	})
	if err != nil {
		return nil, classify(err)
	}

	r.invalidate(ctx)
	return &variant, nil
}

// DeleteVariant removes a single variant of the product
func (r *CatalogRepository) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		var variant models.Variant
		if err := findChild(tx, &variant, "variant", productID, variantID); err != nil {
			return err
		}
		return tx.Delete(&variant).Error
	})
	if err != nil {
		return classify(err)
	}

	r.invalidate(ctx)
	return nil
}

// Image Operations

// ListImages returns the product's images ordered by position
func (r *CatalogRepository) ListImages(ctx context.Context, productID uuid.UUID) ([]models.Image, error) {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var images []models.Image
	err := r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &models.Product{}, "product", productID); err != nil {
			return err
		}
		return tx.Where("product_id = ?", productID).Order("position ASC").Find(&images).Error
	})
	if err != nil {
		return nil, classify(err)
	}
	return images, nil
}

// CreateImage adds an image to an existing product. Position 0 places it
// after the product's last image.
func (r *CatalogRepository) CreateImage(ctx context.Context, productID uuid.UUID, image *models.Image) error {
	if err := image.Validate(); err != nil {
		return err
	}

	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &models.Product{}, "product", productID); err != nil {
			return err
		}
		if image.Position == 0 {
			var last int
			err := tx.Model(&models.Image{}).
				Where("product_id = ?", productID).
				Select("COALESCE(MAX(position), 0)").
				Scan(&last).Error
			if err != nil {
				return err
			}
			image.Position = last + 1
		}
		image.ProductID = productID
		return tx.Create(image).Error
	})
	if err != nil {
		return classify(err)
	}

	r.invalidate(ctx)
	return nil
}

// UpdateImage applies only the fields set on patch
func (r *CatalogRepository) UpdateImage(ctx context.Context, productID, imageID uuid.UUID, patch models.ImagePatch) (*models.Image, error) {
	updates, err := patch.Columns()
	if err != nil {
		return nil, err
	}

	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var image models.Image
	err = r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		if err := findChild(tx, &image, "image", productID, imageID); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&image).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", imageID).First(&image).Error
	})
	if err != nil {
		return nil, classify(err)
	}

	r.invalidate(ctx)
	return &image, nil
}

// DeleteImage removes a single image of the product
func (r *CatalogRepository) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(qctx).Transaction(func(tx *gorm.DB) error {
		var image models.Image
		if err := findChild(tx, &image, "image", productID, imageID); err != nil {
			return err
		}
		return tx.Delete(&image).Error
	})
	if err != nil {
		return classify(err)
	}

	r.invalidate(ctx)
	return nil
}

// findChild loads a variant or image scoped to its parent product. A missing
// parent is reported before a missing child.
func findChild(tx *gorm.DB, dest interface{}, kind string, productID, childID uuid.UUID) error {
	if err := ensureExists(tx, &models.Product{}, "product", productID); err != nil {
		return err
	}
	err := tx.Where("id = ? AND product_id = ?", childID, productID).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NotFoundError(kind, childID.String())
	}
	return err
}
