package models

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product with optional nested children
type CreateProductRequest struct {
	Handle      string                 `json:"handle" binding:"required"`
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description,omitempty"`
	ProductType string                 `json:"productType,omitempty"`
	Brand       string                 `json:"brand,omitempty"`
	Gender      string                 `json:"gender,omitempty"`
	Material    string                 `json:"material,omitempty"`
	Price       decimal.Decimal        `json:"price"`
	Featured    bool                   `json:"featured"`
	Trending    bool                   `json:"trending"`
	Variants    []CreateVariantRequest `json:"variants,omitempty"`
	Images      []CreateImageRequest   `json:"images,omitempty"`
}

// CreateVariantRequest represents a request to add a variant to a product.
// A nil Price inherits the product's base price.
type CreateVariantRequest struct {
	Size      string           `json:"size"`
	Color     string           `json:"color"`
	ColorHex  *string          `json:"colorHex,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	SKU       string           `json:"sku"`
	Inventory int              `json:"inventory"`
}

// CreateImageRequest represents a request to add an image. Position 0 appends.
type CreateImageRequest struct {
	URL      string  `json:"url"`
	AltText  *string `json:"altText,omitempty"`
	Position int     `json:"position,omitempty"`
}

// CreateCollectionRequest represents a request to create a collection
type CreateCollectionRequest struct {
	Handle      string `json:"handle" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// ProductPatch is a partial product update. A nil field is left unchanged;
// a non-nil pointer to a zero value clears the column.
type ProductPatch struct {
	Handle      *string          `json:"handle,omitempty"`
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	ProductType *string          `json:"productType,omitempty"`
	Brand       *string          `json:"brand,omitempty"`
	Gender      *string          `json:"gender,omitempty"`
	Material    *string          `json:"material,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Featured    *bool            `json:"featured,omitempty"`
	Trending    *bool            `json:"trending,omitempty"`
}

// VariantPatch is a partial variant update
type VariantPatch struct {
	Size      *string          `json:"size,omitempty"`
	Color     *string          `json:"color,omitempty"`
	ColorHex  *string          `json:"colorHex,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	SKU       *string          `json:"sku,omitempty"`
	Inventory *int             `json:"inventory,omitempty"`
}

// ImagePatch is a partial image update
type ImagePatch struct {
	URL      *string `json:"url,omitempty"`
	AltText  *string `json:"altText,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// CollectionPatch is a partial collection update
type CollectionPatch struct {
	Handle      *string `json:"handle,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// Product converts the request into an unsaved product with its children
func (r *CreateProductRequest) Product() *Product {
	p := &Product{
		Handle:      r.Handle,
		Title:       r.Title,
		Description: r.Description,
		ProductType: ProductType(r.ProductType),
		Brand:       r.Brand,
		Gender:      Gender(r.Gender),
		Material:    r.Material,
		Price:       r.Price,
		Featured:    r.Featured,
		Trending:    r.Trending,
	}
	for _, v := range r.Variants {
		p.Variants = append(p.Variants, *v.Variant())
	}
	for _, img := range r.Images {
		p.Images = append(p.Images, *img.Image())
	}
	return p
}

// Variant converts the request into an unsaved variant. A missing price is
// flagged for the store to fill from the parent product; an explicit zero is kept.
func (r *CreateVariantRequest) Variant() *Variant {
	v := &Variant{
		Size:      r.Size,
		Color:     r.Color,
		ColorHex:  r.ColorHex,
		SKU:       r.SKU,
		Inventory: r.Inventory,
	}
	if r.Price != nil {
		v.Price = *r.Price
	} else {
		v.InheritPrice = true
	}
	return v
}

func (r *CreateImageRequest) Image() *Image {
	return &Image{URL: r.URL, AltText: r.AltText, Position: r.Position}
}

func (r *CreateCollectionRequest) Collection() *Collection {
	return &Collection{
		Handle:      r.Handle,
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

func validateHandle(handle string) error {
	if handle == "" {
		return NewValidationError("handle", "handle is required")
	}
	if !slug.IsSlug(handle) {
		return NewValidationError("handle", "handle must be a lowercase URL slug")
	}
	return nil
}

func validatePrice(field string, price decimal.Decimal) error {
	if price.IsNegative() {
		return NewValidationError(field, "price must not be negative")
	}
	return nil
}

// Normalize validates the product and its nested children, applying defaults:
// enum values are upper-cased, variants without a price inherit the base price
// and images without a position are numbered after the last explicit one.
func (p *Product) Normalize() error {
	p.Handle = strings.TrimSpace(p.Handle)
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return NewValidationError("title", "title is required")
	}
	if err := validateHandle(p.Handle); err != nil {
		return err
	}
	productType, err := ParseProductType(string(p.ProductType))
	if err != nil {
		return err
	}
	p.ProductType = productType
	gender, err := ParseGender(string(p.Gender))
	if err != nil {
		return err
	}
	p.Gender = gender
	if err := validatePrice("price", p.Price); err != nil {
		return err
	}

	for i := range p.Variants {
		if p.Variants[i].InheritPrice {
			p.Variants[i].Price = p.Price
		}
		if err := p.Variants[i].Validate(); err != nil {
			return err
		}
	}

	next := 1
	for i := range p.Images {
		if err := p.Images[i].Validate(); err != nil {
			return err
		}
		if p.Images[i].Position >= next {
			next = p.Images[i].Position + 1
		}
	}
	for i := range p.Images {
		if p.Images[i].Position == 0 {
			p.Images[i].Position = next
			next++
		}
	}
	return nil
}

// Validate checks the variant's required fields
func (v *Variant) Validate() error {
	v.Size = strings.TrimSpace(v.Size)
	v.Color = strings.TrimSpace(v.Color)
	v.SKU = strings.TrimSpace(v.SKU)
	switch {
	case v.Size == "":
		return NewValidationError("size", "variant size is required")
	case v.Color == "":
		return NewValidationError("color", "variant color is required")
	case v.SKU == "":
		return NewValidationError("sku", "variant sku is required")
	case v.Inventory < 0:
		return NewValidationError("inventory", "inventory must not be negative")
	}
	return validatePrice("price", v.Price)
}

// Validate checks the image's required fields. Position 0 means "append".
func (i *Image) Validate() error {
	i.URL = strings.TrimSpace(i.URL)
	if i.URL == "" {
		return NewValidationError("url", "image url is required")
	}
	if i.Position < 0 {
		return NewValidationError("position", "position must be positive")
	}
	return nil
}

// Validate checks the collection's required fields
func (c *Collection) Validate() error {
	c.Handle = strings.TrimSpace(c.Handle)
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return NewValidationError("title", "title is required")
	}
	return validateHandle(c.Handle)
}

// Columns returns the column updates carried by the patch
func (p ProductPatch) Columns() (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	if p.Handle != nil {
		handle := strings.TrimSpace(*p.Handle)
		if err := validateHandle(handle); err != nil {
			return nil, err
		}
		updates["handle"] = handle
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, NewValidationError("title", "title is required")
		}
		updates["title"] = title
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.ProductType != nil {
		productType, err := ParseProductType(*p.ProductType)
		if err != nil {
			return nil, err
		}
		updates["product_type"] = productType
	}
	if p.Brand != nil {
		updates["brand"] = *p.Brand
	}
	if p.Gender != nil {
		gender, err := ParseGender(*p.Gender)
		if err != nil {
			return nil, err
		}
		updates["gender"] = gender
	}
	if p.Material != nil {
		updates["material"] = *p.Material
	}
	if p.Price != nil {
		if err := validatePrice("price", *p.Price); err != nil {
			return nil, err
		}
		updates["price"] = *p.Price
	}
	if p.Featured != nil {
		updates["featured"] = *p.Featured
	}
	if p.Trending != nil {
		updates["trending"] = *p.Trending
	}
	return updates, nil
}

func (p VariantPatch) Columns() (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	required := map[string]*string{"size": p.Size, "color": p.Color, "sku": p.SKU}
	for column, value := range required {
		if value == nil {
			continue
		}
		v := strings.TrimSpace(*value)
		if v == "" {
			return nil, NewValidationError(column, "variant "+column+" is required")
		}
		updates[column] = v
	}
	if p.ColorHex != nil {
		updates["color_hex"] = *p.ColorHex
	}
	if p.Price != nil {
		if err := validatePrice("price", *p.Price); err != nil {
			return nil, err
		}
		updates["price"] = *p.Price
	}
	if p.Inventory != nil {
		if *p.Inventory < 0 {
			return nil, NewValidationError("inventory", "inventory must not be negative")
		}
		updates["inventory"] = *p.Inventory
	}
	return updates, nil
}

func (p ImagePatch) Columns() (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	if p.URL != nil {
		url := strings.TrimSpace(*p.URL)
		if url == "" {
			return nil, NewValidationError("url", "image url is required")
		}
		updates["url"] = url
	}
	if p.AltText != nil {
		updates["alt_text"] = *p.AltText
	}
	if p.Position != nil {
		if *p.Position <= 0 {
			return nil, NewValidationError("position", "position must be positive")
		}
		updates["position"] = *p.Position
	}
	return updates, nil
}

func (p CollectionPatch) Columns() (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	if p.Handle != nil {
		handle := strings.TrimSpace(*p.Handle)
		if err := validateHandle(handle); err != nil {
			return nil, err
		}
		updates["handle"] = handle
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, NewValidationError("title", "title is required")
		}
		updates["title"] = title
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.ImageURL != nil {
		updates["image_url"] = *p.ImageURL
	}
	return updates, nil
}

// ProductFilter narrows FindProducts. Zero values match everything.
type ProductFilter struct {
	Search      string `json:"search,omitempty"`
	Brand       string `json:"brand,omitempty"`
	ProductType string `json:"productType,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Featured    *bool  `json:"featured,omitempty"`
	Trending    *bool  `json:"trending,omitempty"`
	Collection  string `json:"collection,omitempty"`
}

// Matches reports whether p satisfies the filter. Used for in-memory
// datasets such as the fallback listing.
func (f ProductFilter) Matches(p *Product) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Brand), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
		return false
	}
	if f.ProductType != "" && !strings.EqualFold(string(p.ProductType), f.ProductType) {
		return false
	}
	if f.Gender != "" && !strings.EqualFold(string(p.Gender), f.Gender) {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.Trending != nil && p.Trending != *f.Trending {
		return false
	}
	if f.Collection != "" {
		found := false
		for _, c := range p.Collections {
			if c.Handle == f.Collection {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// CatalogCounts holds row totals per entity kind
type CatalogCounts struct {
	Products    int64 `json:"products"`
	Variants    int64 `json:"variants"`
	Images      int64 `json:"images"`
	Collections int64 `json:"collections"`
	SizeCharts  int64 `json:"sizeCharts"`
}

// Response types

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Field   string `json:"field,omitempty"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Product *Product `json:"product"`
	Message *string  `json:"message,omitempty"`
}

type ProductListResponse struct {
	Success       bool      `json:"success"`
	Products      []Product `json:"products"`
	Total         int       `json:"total"`
	UsingFallback bool      `json:"usingFallback"`
	Message       *string   `json:"message,omitempty"`
}

type VariantResponse struct {
	Success bool     `json:"success"`
	Variant *Variant `json:"variant"`
	Message *string  `json:"message,omitempty"`
}

type VariantListResponse struct {
	Success  bool      `json:"success"`
	Variants []Variant `json:"variants"`
	Total    int       `json:"total"`
}

type ImageResponse struct {
	Success bool    `json:"success"`
	Image   *Image  `json:"image"`
	Message *string `json:"message,omitempty"`
}

type ImageListResponse struct {
	Success bool    `json:"success"`
	Images  []Image `json:"images"`
	Total   int     `json:"total"`
}

type CollectionResponse struct {
	Success    bool        `json:"success"`
	Collection *Collection `json:"collection"`
	Message    *string     `json:"message,omitempty"`
}

type CollectionListResponse struct {
	Success     bool         `json:"success"`
	Collections []Collection `json:"collections"`
	Total       int          `json:"total"`
}

type SizeChartResponse struct {
	Success   bool       `json:"success"`
	SizeChart *SizeChart `json:"sizeChart"`
}

type SizeChartListResponse struct {
	Success    bool        `json:"success"`
	SizeCharts []SizeChart `json:"sizeCharts"`
	Total      int         `json:"total"`
}

type DeleteResponse struct {
	Success bool                 `json:"success"`
	Result  *CascadeDeleteResult `json:"result,omitempty"`
	Message *string              `json:"message,omitempty"`
}

type DiagnosticsResponse struct {
	Success   bool          `json:"success"`
	Counts    CatalogCounts `json:"counts"`
	Timestamp time.Time     `json:"timestamp"`
}

type SuccessResponse struct {
	Success bool    `json:"success"`
	Message *string `json:"message,omitempty"`
}
