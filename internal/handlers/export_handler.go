package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"shoe-catalog-service/internal/models"
)

const exportSheet = "Products"

// ExportHandler produces catalog snapshots
type ExportHandler struct {
	store CatalogStore
	now   func() time.Time
}

func NewExportHandler(store CatalogStore) *ExportHandler {
	return &ExportHandler{store: store, now: time.Now}
}

// ExportProducts godoc
// @Summary Export catalog
// @Description Summary of every product matching the listing filters, as JSON, CSV or XLSX
// @Tags Products
// @Produce json
// @Produce text/csv
// @Param format query string false "json, csv or xlsx" default(json)
// @Success 200 {object} models.ExportSummary
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /products/export [get]
func (h *ExportHandler) ExportProducts(c *gin.Context) {
	format, err := models.ParseExportFormat(c.DefaultQuery("format", "json"))
	if err != nil {
		respondError(c, err)
		return
	}
	filter, err := parseProductFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	products, err := h.store.FindProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	now := h.now().UTC()
	summary := models.NewExportSummary(products, now)
	filename := fmt.Sprintf("catalog_%s", now.Format("20060102_150405"))

	switch format {
	case models.ExportFormatCSV:
		h.writeCSV(c, summary, filename+".csv")
	case models.ExportFormatXLSX:
		h.writeXLSX(c, summary, filename+".xlsx")
	default:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"export":  summary,
		})
	}
}

func (h *ExportHandler) writeCSV(c *gin.Context, summary *models.ExportSummary, filename string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	columns := models.ExportColumns()
	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Name
	}
	writer.Write(headers)
	for _, row := range summary.Products {
		writer.Write(row.Values())
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logrus.WithError(err).Warn("CSV export write failed")
	}
}

func (h *ExportHandler) writeXLSX(c *gin.Context, summary *models.ExportSummary, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, col := range models.ExportColumns() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, col.Name)
		f.SetCellStyle(exportSheet, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(exportSheet, colName, colName, col.Width)
	}

	for r, row := range summary.Products {
		price, _ := row.Price.Float64()
		values := []interface{}{
			row.Title, row.Handle, row.Brand, string(row.Type), string(row.Gender),
			price, row.Variants, row.Stock, row.Featured, row.Trending,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			f.SetCellValue(exportSheet, cell, v)
		}
	}

	// Totals sheet
	f.NewSheet("Summary")
	f.SetCellValue("Summary", "A1", "Generated")
	f.SetCellValue("Summary", "B1", summary.Timestamp.Format(time.RFC3339))
	f.SetCellValue("Summary", "A2", "Products")
	f.SetCellValue("Summary", "B2", summary.TotalProducts)
	f.SetCellValue("Summary", "A3", "Variants")
	f.SetCellValue("Summary", "B3", summary.TotalVariants)
	f.SetCellValue("Summary", "A4", "Stock")
	f.SetCellValue("Summary", "B4", summary.TotalStock)
	f.SetColWidth("Summary", "A", "A", 15)
	f.SetColWidth("Summary", "B", "B", 28)

	sheetIdx, _ := f.GetSheetIndex(exportSheet)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		logrus.WithError(err).Warn("XLSX export write failed")
	}
}
