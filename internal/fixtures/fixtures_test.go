package fixtures

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoe-catalog-service/internal/models"
)

func TestDemoCatalog(t *testing.T) {
	catalog, err := DemoCatalog()
	require.NoError(t, err)

	counts := catalog.Counts()
	assert.Equal(t, 2, counts.SizeCharts)
	assert.Equal(t, 2, counts.Collections)
	assert.Equal(t, 1, counts.Products)
	assert.Equal(t, 2, counts.Variants)
	assert.Equal(t, 1, counts.Images)

	product, err := catalog.Products[0].Product()
	require.NoError(t, err)
	assert.Equal(t, "zapato-urbano-classic", product.Handle)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("89.99")))
	require.Len(t, product.Variants, 2)
	assert.Equal(t, "40", product.Variants[0].Size)
	assert.Equal(t, 25, product.Variants[0].Inventory)
	assert.Equal(t, []string{"urban-collection"}, catalog.Products[0].Collections)
}

func TestSizeChartFixture(t *testing.T) {
	catalog, err := DemoCatalog()
	require.NoError(t, err)

	chart, err := catalog.SizeCharts[0].SizeChart()
	require.NoError(t, err)
	assert.Equal(t, "UrbanSteps", chart.Brand)
	assert.Equal(t, "SNEAKERS", chart.Type)

	table, err := chart.Table()
	require.NoError(t, err)
	assert.Len(t, table.EU, 9)
	assert.Equal(t, 36.0, table.EU[0])
	assert.Equal(t, 23.5, table.CM[1])
}

func TestParse(t *testing.T) {
	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("products: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("invalid price", func(t *testing.T) {
		catalog, err := Parse([]byte(`
products:
  - handle: broken
    title: Broken
    price: "not-a-number"
`))
		require.NoError(t, err)
		_, err = catalog.Products[0].Product()
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("variant price omitted or zero", func(t *testing.T) {
		catalog, err := Parse([]byte(`
products:
  - handle: running-pro-max
    title: Running Pro Max
    price: "129.99"
    variants:
      - {size: "41", color: Azul, sku: RUN001-BLU-41}
      - {size: "42", color: Azul, sku: RUN001-BLU-42, price: "0"}
`))
		require.NoError(t, err)
		product, err := catalog.Products[0].Product()
		require.NoError(t, err)
		require.NoError(t, product.Normalize())
		assert.Equal(t, "129.99", product.Variants[0].Price.StringFixed(2))
		assert.True(t, product.Variants[1].Price.IsZero())
	})

	t.Run("empty dataset", func(t *testing.T) {
		catalog, err := Parse([]byte(""))
		require.NoError(t, err)
		assert.Equal(t, Counts{}, catalog.Counts())
	})
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestFallbackProducts(t *testing.T) {
	products, err := FallbackProducts()
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "zapato-urbano-classic", products[0].Handle)
	assert.Equal(t, "running-pro-max", products[1].Handle)
	assert.Equal(t, models.ProductTypeSports, products[1].ProductType)

	for _, p := range products {
		assert.NotEmpty(t, p.ID)
		for _, v := range p.Variants {
			assert.Equal(t, p.ID, v.ProductID)
		}
	}

	again, err := FallbackProducts()
	require.NoError(t, err)
	assert.Equal(t, products[0].ID, again[0].ID)
	assert.Equal(t, products[0].Variants[0].ID, again[0].Variants[0].ID)
}

func TestFallbackProducts_ReturnsCopies(t *testing.T) {
	first, err := FallbackProducts()
	require.NoError(t, err)
	first[0].Title = "changed"
	first[0].Variants[0].Inventory = 999

	second, err := FallbackProducts()
	require.NoError(t, err)
	assert.Equal(t, "Zapato Urbano Classic", second[0].Title)
	assert.Equal(t, 10, second[0].Variants[0].Inventory)
}
