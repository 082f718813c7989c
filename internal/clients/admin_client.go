package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"shoe-catalog-service/internal/models"
)

// Defaults applied when a catalog product is pushed to the platform
const (
	DefaultProductType = "Shoes"
	DefaultVendor      = "Zapatos Trendy"
	DefaultTags        = "zapatos, calzado"
)

// AdminClient talks to the commerce platform's Admin REST API
type AdminClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *logrus.Entry
}

// PlatformVariant is a product variant as the platform represents it
type PlatformVariant struct {
	ID                int64  `json:"id,omitempty"`
	Option1           string `json:"option1,omitempty"`
	Option2           string `json:"option2,omitempty"`
	Price             string `json:"price,omitempty"`
	SKU               string `json:"sku,omitempty"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

// PlatformImage is a product image as the platform represents it
type PlatformImage struct {
	ID  int64  `json:"id,omitempty"`
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// PlatformProduct is a product resource of the Admin API
type PlatformProduct struct {
	ID          int64             `json:"id,omitempty"`
	Title       string            `json:"title"`
	BodyHTML    string            `json:"body_html"`
	ProductType string            `json:"product_type"`
	Vendor      string            `json:"vendor"`
	Tags        string            `json:"tags"`
	Handle      string            `json:"handle,omitempty"`
	Variants    []PlatformVariant `json:"variants,omitempty"`
	Images      []PlatformImage   `json:"images,omitempty"`
}

// PlatformCollection is a custom collection resource of the Admin API
type PlatformCollection struct {
	ID       int64  `json:"id"`
	Handle   string `json:"handle"`
	Title    string `json:"title"`
	BodyHTML string `json:"body_html,omitempty"`
}

// CatalogProductInput is the catalog-shaped payload accepted by CreateProduct
type CatalogProductInput struct {
	Title       string                `json:"title" binding:"required"`
	Description string                `json:"description"`
	ProductType string                `json:"product_type"`
	Brand       string                `json:"brand"`
	Tags        string                `json:"tags"`
	Variants    []CatalogVariantInput `json:"variants"`
	Images      []CatalogImageInput   `json:"images"`
}

type CatalogVariantInput struct {
	Size      string `json:"size"`
	Color     string `json:"color"`
	Price     string `json:"price"`
	SKU       string `json:"sku"`
	Inventory int    `json:"inventory"`
}

type CatalogImageInput struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

// NewAdminClient creates a client for shop's Admin API. domain is the shop
// host ("example.myshopify.com") or a full base URL.
func NewAdminClient(domain, accessToken, apiVersion string) *AdminClient {
	base := strings.TrimSuffix(domain, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return &AdminClient{
		baseURL:     fmt.Sprintf("%s/admin/api/%s", base, apiVersion),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logrus.WithField("component", "admin-client"),
	}
}

// ToPlatformProduct maps catalog fields onto the platform's product shape,
// filling the platform defaults for missing type, vendor and tags.
func (in CatalogProductInput) ToPlatformProduct() PlatformProduct {
	p := PlatformProduct{
		Title:       in.Title,
		BodyHTML:    in.Description,
		ProductType: in.ProductType,
		Vendor:      in.Brand,
		Tags:        in.Tags,
	}
	if p.ProductType == "" {
		p.ProductType = DefaultProductType
	}
	if p.Vendor == "" {
		p.Vendor = DefaultVendor
	}
	if p.Tags == "" {
		p.Tags = DefaultTags
	}
	for _, v := range in.Variants {
		p.Variants = append(p.Variants, PlatformVariant{
			Option1:           v.Size,
			Option2:           v.Color,
			Price:             v.Price,
			SKU:               v.SKU,
			InventoryQuantity: v.Inventory,
		})
	}
	for _, img := range in.Images {
		p.Images = append(p.Images, PlatformImage{Src: img.URL, Alt: img.AltText})
	}
	return p
}

// ListProducts returns the shop's products
func (c *AdminClient) ListProducts(ctx context.Context) ([]PlatformProduct, error) {
	var result struct {
		Products []PlatformProduct `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/products.json", nil, &result); err != nil {
		return nil, err
	}
	return result.Products, nil
}

// GetProduct returns one product by its platform id
func (c *AdminClient) GetProduct(ctx context.Context, id int64) (*PlatformProduct, error) {
	var result struct {
		Product *PlatformProduct `json:"product"`
	}
	if err := c.do(ctx, http.MethodGet, productPath(id), nil, &result); err != nil {
		return nil, err
	}
	if result.Product == nil {
		return nil, fmt.Errorf("%w: product %d missing from response", models.ErrUpstream, id)
	}
	return result.Product, nil
}

// CreateProduct pushes a catalog product to the platform
func (c *AdminClient) CreateProduct(ctx context.Context, input CatalogProductInput) (*PlatformProduct, error) {
	payload := map[string]interface{}{"product": input.ToPlatformProduct()}
	var result struct {
		Product *PlatformProduct `json:"product"`
	}
	if err := c.do(ctx, http.MethodPost, "/products.json", payload, &result); err != nil {
		return nil, err
	}
	c.logger.WithField("title", input.Title).Info("Product created on platform")
	return result.Product, nil
}

// UpdateProduct sends only the provided keys. Keys with null values are dropped.
func (c *AdminClient) UpdateProduct(ctx context.Context, id int64, updates map[string]interface{}) (*PlatformProduct, error) {
	fields := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		if v != nil {
			fields[k] = v
		}
	}
	fields["id"] = id

	var result struct {
		Product *PlatformProduct `json:"product"`
	}
	if err := c.do(ctx, http.MethodPut, productPath(id), map[string]interface{}{"product": fields}, &result); err != nil {
		return nil, err
	}
	return result.Product, nil
}

// DeleteProduct removes a product from the platform
func (c *AdminClient) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, productPath(id), nil, nil)
}

func productPath(id int64) string {
	return fmt.Sprintf("/products/%d.json", id)
}

// ListCollections returns the shop's custom collections
func (c *AdminClient) ListCollections(ctx context.Context) ([]PlatformCollection, error) {
	var result struct {
		CustomCollections []PlatformCollection `json:"custom_collections"`
	}
	if err := c.do(ctx, http.MethodGet, "/custom_collections.json", nil, &result); err != nil {
		return nil, err
	}
	return result.CustomCollections, nil
}

// do performs one Admin API call. Every failure is wrapped in ErrUpstream.
func (c *AdminClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", models.ErrUpstream, err)
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", models.ErrUpstream, err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", models.ErrUpstream, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("Admin API request failed")
		return fmt.Errorf("%w: %s %s returned %d - %s", models.ErrUpstream, method, path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", models.ErrUpstream, err)
	}
	return nil
}
