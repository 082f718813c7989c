package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ExportFormat represents the file format for a catalog export
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ParseExportFormat defaults to JSON when s is empty
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case "", ExportFormatJSON:
		return ExportFormatJSON, nil
	case ExportFormatCSV, ExportFormatXLSX:
		return ExportFormat(s), nil
	}
	return "", NewValidationError("format", "unsupported export format "+s)
}

// ExportColumn defines a column in tabular exports
type ExportColumn struct {
	Name  string
	Width float64
}

// ExportColumns returns the columns written to CSV and XLSX exports
func ExportColumns() []ExportColumn {
	return []ExportColumn{
		{Name: "title", Width: 32},
		{Name: "handle", Width: 28},
		{Name: "brand", Width: 18},
		{Name: "type", Width: 12},
		{Name: "gender", Width: 10},
		{Name: "price", Width: 10},
		{Name: "variants", Width: 10},
		{Name: "stock", Width: 10},
		{Name: "featured", Width: 10},
		{Name: "trending", Width: 10},
	}
}

// ExportRow is the per-product line of an export
type ExportRow struct {
	Title    string          `json:"title"`
	Handle   string          `json:"handle"`
	Brand    string          `json:"brand"`
	Type     ProductType     `json:"type"`
	Gender   Gender          `json:"gender"`
	Price    decimal.Decimal `json:"price"`
	Variants int             `json:"variants"`
	Stock    int             `json:"stock"`
	Featured bool            `json:"featured"`
	Trending bool            `json:"trending"`
}

// ExportSummary is the catalog snapshot produced by the export endpoint
type ExportSummary struct {
	Timestamp     time.Time   `json:"timestamp"`
	TotalProducts int         `json:"totalProducts"`
	TotalVariants int         `json:"totalVariants"`
	TotalStock    int         `json:"totalStock"`
	Products      []ExportRow `json:"products"`
}

// NewExportSummary aggregates products into an export snapshot
func NewExportSummary(products []Product, now time.Time) *ExportSummary {
	summary := &ExportSummary{
		Timestamp:     now,
		TotalProducts: len(products),
		Products:      make([]ExportRow, 0, len(products)),
	}
	for i := range products {
		p := &products[i]
		stock := p.TotalStock()
		summary.TotalVariants += len(p.Variants)
		summary.TotalStock += stock
		summary.Products = append(summary.Products, ExportRow{
			Title:    p.Title,
			Handle:   p.Handle,
			Brand:    p.Brand,
			Type:     p.ProductType,
			Gender:   p.Gender,
			Price:    p.Price,
			Variants: len(p.Variants),
			Stock:    stock,
			Featured: p.Featured,
			Trending: p.Trending,
		})
	}
	return summary
}

// Values renders the row in ExportColumns order
func (r ExportRow) Values() []string {
	return []string{
		r.Title,
		r.Handle,
		r.Brand,
		string(r.Type),
		string(r.Gender),
		r.Price.StringFixed(2),
		strconv.Itoa(r.Variants),
		strconv.Itoa(r.Stock),
		strconv.FormatBool(r.Featured),
		strconv.FormatBool(r.Trending),
	}
}
