package yamlparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/edifact-orders/internal/config"
	"github.com/ginjaninja78/edifact-orders/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_YAML(t *testing.T) {
	order, err := Decode([]byte(`
message_ref: "456789"
order_number: ORD2025001
order_date: "20250322"
currency: EUR
tax_rate: 20.0
parties:
  - {qualifier: BY, id: "123456789", name: Buyer Ltd}
items:
  - product_code: ABC123
    description: Product A
    quantity: 10
    price: 25.50
`))
	require.NoError(t, err)

	assert.Equal(t, "456789", order.MessageRef)
	assert.Equal(t, "EUR", order.Currency)
	assert.Equal(t, types.Numeric("20.0"), order.TaxRate)
	require.Len(t, order.Parties, 1)
	assert.Equal(t, "Buyer Ltd", order.Parties[0].Name)
	require.Len(t, order.Items, 1)

	// Literal text survives, trailing zeros included.
	assert.Equal(t, types.Numeric("10"), order.Items[0].Quantity)
	assert.Equal(t, types.Numeric("25.50"), order.Items[0].Price)
	assert.Zero(t, order.Items[0].SourceRow)
}

func TestDecode_JSON(t *testing.T) {
	order, err := Decode([]byte(`{
  "message_ref": "J1",
  "order_number": "PO-7",
  "order_date": "20250322",
  "items": [
    {"product_code": "A", "description": "a", "quantity": "3", "price": 0.10}
  ]
}`))
	require.NoError(t, err)

	assert.Equal(t, "PO-7", order.OrderNumber)
	require.Len(t, order.Items, 1)
	assert.Equal(t, types.Numeric("3"), order.Items[0].Quantity)
	assert.Equal(t, types.Numeric("0.10"), order.Items[0].Price)
}

func TestDecode_NullNumeric(t *testing.T) {
	order, err := Decode([]byte("message_ref: M\nitems:\n  - {product_code: A, description: a, quantity: 1, price: null}\n"))
	require.NoError(t, err)
	assert.True(t, order.Items[0].Price.IsZero())
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte("message_ref: M\norder_numbr: typo\n"))
	assert.ErrorContains(t, err, "order_numbr")

	_, err = Decode([]byte("items:\n  - {product_code: A, quantity: [1, 2]}\n"))
	assert.Error(t, err)

	_, err = Decode([]byte(""))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestParser_ParseFileWithItemsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lines"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lines", "items.csv"),
		[]byte("sku;name;qty;unit_price\nB2;Beta;2;4.00\n"), 0644))

	path := filepath.Join(dir, "order.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`message_ref: M1
order_number: PO-1
order_date: "20250322"
items:
  - {product_code: A1, description: Alpha, quantity: 1, price: 1.50}
items_file: lines/items.csv
`), 0644))

	order, err := New(config.CSVSettings{Delimiter: ";", HeaderRows: 1, DataStartRow: 2}).ParseFile(path)
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "A1", order.Items[0].ProductCode)
	assert.Equal(t, "B2", order.Items[1].ProductCode)
	assert.Equal(t, types.Numeric("4.00"), order.Items[1].Price)
	assert.Equal(t, 2, order.Items[1].SourceRow)
	assert.Empty(t, order.ItemsFile)
}

func TestParser_ParseZeroSettingsUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.csv"),
		[]byte("product_code,description,quantity,price\nC3,Gamma,5,2\n"), 0644))

	order, err := (&Parser{}).Parse([]byte("message_ref: M\nitems_file: items.csv\n"), dir)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "C3", order.Items[0].ProductCode)
}

func TestParser_MissingItemsFile(t *testing.T) {
	_, err := New(config.DefaultCSVSettings()).Parse([]byte("message_ref: M\nitems_file: nowhere.csv\n"), t.TempDir())
	assert.ErrorContains(t, err, "items_file")
}

func TestParser_MissingDocument(t *testing.T) {
	_, err := New(config.DefaultCSVSettings()).ParseFile(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
