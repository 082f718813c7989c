package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductType is the footwear category of a product
type ProductType string

const (
	ProductTypeSneakers ProductType = "SNEAKERS"
	ProductTypeSports   ProductType = "SPORTS"
	ProductTypeBoots    ProductType = "BOOTS"
	ProductTypeHeels    ProductType = "HEELS"
	ProductTypeSandals  ProductType = "SANDALS"
	ProductTypeFormal   ProductType = "FORMAL"
	ProductTypeCasual   ProductType = "CASUAL"
)

// Gender is the target audience of a product
type Gender string

const (
	GenderMen    Gender = "MEN"
	GenderWomen  Gender = "WOMEN"
	GenderUnisex Gender = "UNISEX"
	GenderKids   Gender = "KIDS"
)

var productTypes = map[ProductType]bool{
	ProductTypeSneakers: true,
	ProductTypeSports:   true,
	ProductTypeBoots:    true,
	ProductTypeHeels:    true,
	ProductTypeSandals:  true,
	ProductTypeFormal:   true,
	ProductTypeCasual:   true,
}

var genders = map[Gender]bool{
	GenderMen:    true,
	GenderWomen:  true,
	GenderUnisex: true,
	GenderKids:   true,
}

// ParseProductType normalizes s to upper case. Empty input yields SNEAKERS.
func ParseProductType(s string) (ProductType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ProductTypeSneakers, nil
	}
	t := ProductType(s)
	if !productTypes[t] {
		return "", NewValidationError("productType", "unknown product type "+s)
	}
	return t, nil
}

// ParseGender normalizes s to upper case. Empty input yields UNISEX.
func ParseGender(s string) (Gender, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return GenderUnisex, nil
	}
	g := Gender(s)
	if !genders[g] {
		return "", NewValidationError("gender", "unknown gender "+s)
	}
	return g, nil
}

// Product is a shoe model sold in the catalog. It owns its variants and images.
type Product struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Handle      string          `json:"handle" gorm:"not null;uniqueIndex:idx_products_handle"`
	Title       string          `json:"title" gorm:"not null"`
	Description string          `json:"description"`
	ProductType ProductType     `json:"productType" gorm:"not null;index"`
	Brand       string          `json:"brand" gorm:"index"`
	Gender      Gender          `json:"gender" gorm:"not null"`
	Material    string          `json:"material"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Featured    bool            `json:"featured" gorm:"not null;default:false;index"`
	Trending    bool            `json:"trending" gorm:"not null;default:false;index"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	Variants    []Variant    `json:"variants" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images      []Image      `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Collections []Collection `json:"collections" gorm:"many2many:product_collections"`
}

// Variant is a size/color/SKU combination of a product
type Variant struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID       `json:"productId" gorm:"type:uuid;not null;index"`
	Size      string          `json:"size" gorm:"not null"`
	Color     string          `json:"color" gorm:"not null"`
	ColorHex  *string         `json:"colorHex,omitempty"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	SKU       string          `json:"sku" gorm:"not null;index"`
	Inventory int             `json:"inventory" gorm:"not null;default:0;check:inventory >= 0"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`

	// InheritPrice marks a variant created without a price. The store copies
	// the product's base price into it; an explicit zero is kept.
	InheritPrice bool `json:"-" gorm:"-"`
}

// Image is a product picture; Position orders a product's gallery
type Image struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	URL       string    `json:"url" gorm:"not null"`
	AltText   *string   `json:"altText,omitempty"`
	Position  int       `json:"position" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// Collection groups products for merchandising
type Collection struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Handle      string    `json:"handle" gorm:"not null;uniqueIndex:idx_collections_handle"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SizeTable maps a brand's sizes across regional systems
type SizeTable struct {
	EU   []float64 `json:"euSizes"`
	US   []float64 `json:"usSizes"`
	UK   []float64 `json:"ukSizes"`
	CM   []float64 `json:"cmSizes"`
	Type string    `json:"type"`
}

// SizeChart is the per-brand size conversion reference
type SizeChart struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Brand     string         `json:"brand" gorm:"not null;uniqueIndex:idx_size_charts_brand"`
	Sizes     datatypes.JSON `json:"sizes"`
	Type      string         `json:"type" gorm:"not null"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewSizeChart builds a chart for brand from the given conversion table
func NewSizeChart(brand string, table SizeTable) (*SizeChart, error) {
	data, err := json.Marshal(table)
	if err != nil {
		return nil, fmt.Errorf("failed to encode size table for %s: %w", brand, err)
	}
	return &SizeChart{
		Brand: brand,
		Sizes: datatypes.JSON(data),
		Type:  table.Type,
	}, nil
}

// Table decodes the stored conversion table
func (s *SizeChart) Table() (SizeTable, error) {
	var table SizeTable
	if len(s.Sizes) == 0 {
		return table, nil
	}
	err := json.Unmarshal(s.Sizes, &table)
	return table, err
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (s *SizeChart) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TotalStock sums inventory across all variants
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Inventory
	}
	return total
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// TableName returns the table name for the Variant model
func (Variant) TableName() string {
	return "variants"
}

// TableName returns the table name for the Image model
func (Image) TableName() string {
	return "images"
}

func (Collection) TableName() string {
	return "collections"
}

func (SizeChart) TableName() string {
	return "size_charts"
}
