// Package fixtures holds the declarative catalog datasets shipped with the
// service: the demo catalog loaded by the seed command and the listing served
// while the store is unreachable.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"shoe-catalog-service/internal/models"
)

//go:embed catalog.yaml
var demoCatalog []byte

//go:embed fallback.yaml
var fallbackCatalog []byte

// fallbackNamespace derives stable IDs for fallback records
var fallbackNamespace = uuid.MustParse("8f6f2a4e-3c1b-5d7a-9e21-4b0c6d8a1f35")

// Catalog is a declarative catalog dataset
type Catalog struct {
	SizeCharts  []SizeChartFixture  `yaml:"sizeCharts"`
	Collections []CollectionFixture `yaml:"collections"`
	Products    []ProductFixture    `yaml:"products"`
}

type SizeChartFixture struct {
	Brand string    `yaml:"brand"`
	Type  string    `yaml:"type"`
	EU    []float64 `yaml:"euSizes"`
	US    []float64 `yaml:"usSizes"`
	UK    []float64 `yaml:"ukSizes"`
	CM    []float64 `yaml:"cmSizes"`
}

type CollectionFixture struct {
	Handle      string `yaml:"handle"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"imageUrl"`
}

type ProductFixture struct {
	Handle      string           `yaml:"handle"`
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	ProductType string           `yaml:"productType"`
	Brand       string           `yaml:"brand"`
	Gender      string           `yaml:"gender"`
	Material    string           `yaml:"material"`
	Price       string           `yaml:"price"`
	Featured    bool             `yaml:"featured"`
	Trending    bool             `yaml:"trending"`
	Collections []string         `yaml:"collections"`
	Variants    []VariantFixture `yaml:"variants"`
	Images      []ImageFixture   `yaml:"images"`
}

type VariantFixture struct {
	Size      string  `yaml:"size"`
	Color     string  `yaml:"color"`
	ColorHex  *string `yaml:"colorHex"`
	Price     string  `yaml:"price"`
	SKU       string  `yaml:"sku"`
	Inventory int     `yaml:"inventory"`
}

type ImageFixture struct {
	URL      string  `yaml:"url"`
	AltText  *string `yaml:"altText"`
	Position int     `yaml:"position"`
}

// Counts are the record totals a dataset declares
type Counts struct {
	SizeCharts  int
	Collections int
	Products    int
	Variants    int
	Images      int
}

// DemoCatalog returns the embedded demo dataset
func DemoCatalog() (*Catalog, error) {
	return Parse(demoCatalog)
}

// Load reads a dataset from a YAML file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML dataset
func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &catalog, nil
}

// Counts returns the number of records of each kind declared by c
func (c *Catalog) Counts() Counts {
	counts := Counts{
		SizeCharts:  len(c.SizeCharts),
		Collections: len(c.Collections),
		Products:    len(c.Products),
	}
	for _, p := range c.Products {
		counts.Variants += len(p.Variants)
		counts.Images += len(p.Images)
	}
	return counts
}

func (f SizeChartFixture) SizeChart() (*models.SizeChart, error) {
	return models.NewSizeChart(f.Brand, models.SizeTable{
		EU:   f.EU,
		US:   f.US,
		UK:   f.UK,
		CM:   f.CM,
		Type: f.Type,
	})
}

func (f CollectionFixture) Collection() *models.Collection {
	return &models.Collection{
		Handle:      f.Handle,
		Title:       f.Title,
		Description: f.Description,
		ImageURL:    f.ImageURL,
	}
}

// Product converts the fixture into an unsaved product with its variants and
// images. Collection links are left to the caller.
func (f ProductFixture) Product() (*models.Product, error) {
	price, err := parsePrice(f.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", f.Handle, err)
	}
	p := &models.Product{
		Handle:      f.Handle,
		Title:       f.Title,
		Description: f.Description,
		ProductType: models.ProductType(f.ProductType),
		Brand:       f.Brand,
		Gender:      models.Gender(f.Gender),
		Material:    f.Material,
		Price:       price,
		Featured:    f.Featured,
		Trending:    f.Trending,
	}
	for _, v := range f.Variants {
		variantPrice, err := parsePrice(v.Price)
		if err != nil {
			return nil, fmt.Errorf("product %s variant %s: %w", f.Handle, v.SKU, err)
		}
		p.Variants = append(p.Variants, models.Variant{
			Size:         v.Size,
			Color:        v.Color,
			ColorHex:     v.ColorHex,
			Price:        variantPrice,
			SKU:          v.SKU,
			Inventory:    v.Inventory,
			InheritPrice: strings.TrimSpace(v.Price) == "",
		})
	}
	for _, img := range f.Images {
		p.Images = append(p.Images, models.Image{
			URL:      img.URL,
			AltText:  img.AltText,
			Position: img.Position,
		})
	}
	return p, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, models.NewValidationError("price", fmt.Sprintf("invalid price %q", s))
	}
	return price, nil
}

var (
	fallbackOnce     sync.Once
	fallbackProducts []models.Product
	fallbackErr      error
)

// FallbackProducts returns the static listing served when the store cannot be
// reached. IDs are derived from handles and SKUs so they are stable across
// restarts. Callers get their own copy.
func FallbackProducts() ([]models.Product, error) {
	fallbackOnce.Do(func() {
		fallbackProducts, fallbackErr = buildFallback()
	})
	if fallbackErr != nil {
		return nil, fallbackErr
	}
	out := make([]models.Product, len(fallbackProducts))
	for i, p := range fallbackProducts {
		p.Variants = append([]models.Variant(nil), p.Variants...)
		p.Images = append([]models.Image(nil), p.Images...)
		out[i] = p
	}
	return out, nil
}

func buildFallback() ([]models.Product, error) {
	catalog, err := Parse(fallbackCatalog)
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(catalog.Products))
	for _, f := range catalog.Products {
		p, err := f.Product()
		if err != nil {
			return nil, err
		}
		if err := p.Normalize(); err != nil {
			return nil, fmt.Errorf("fallback product %s: %w", f.Handle, err)
		}
		p.ID = uuid.NewSHA1(fallbackNamespace, []byte("product:"+p.Handle))
		for i := range p.Variants {
			p.Variants[i].ID = uuid.NewSHA1(fallbackNamespace, []byte("variant:"+p.Variants[i].SKU))
			p.Variants[i].ProductID = p.ID
		}
		for i := range p.Images {
			p.Images[i].ID = uuid.NewSHA1(fallbackNamespace, []byte(fmt.Sprintf("image:%s:%d", p.Handle, p.Images[i].Position)))
			p.Images[i].ProductID = p.ID
		}
		products = append(products, *p)
	}
	return products, nil
}
