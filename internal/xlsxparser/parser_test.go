package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/edifact-orders/internal/csvparser"
	"github.com/ginjaninja78/edifact-orders/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// newWorkbook builds an order workbook. The header sheet name is lower case
// to exercise case-insensitive lookup.
func newWorkbook(t *testing.T, withParties bool) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })

	require.NoError(t, f.SetSheetName("Sheet1", "header"))
	header := [][]interface{}{
		{"Field", "Value"},
		{"message_ref", "456789"},
		{"Order Number", "ORD2025001"},
		{"order_date", "20250322"},
		{},
		{"tax_rate", "20.0"},
		{"unknown_key", "ignored"},
	}
	for i, row := range header {
		cellRef, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("header", cellRef, &row))
	}

	if withParties {
		_, err := f.NewSheet("Parties")
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Parties", "A1", &[]interface{}{"Qualifier", "ID", "Name"}))
		require.NoError(t, f.SetSheetRow("Parties", "A2", &[]interface{}{"BY", "123456789", "Buyer Ltd"}))
	}

	_, err := f.NewSheet("Items")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Items", "A1", &[]interface{}{"SKU", "Description", "Qty", "Unit Price"}))
	require.NoError(t, f.SetSheetRow("Items", "A2", &[]interface{}{"ABC123", "Product A", 10, "25.50"}))
	require.NoError(t, f.SetSheetRow("Items", "A4", &[]interface{}{"XYZ9", "Bolt", "4", "0.25"}))
	return f
}

func TestParseFile(t *testing.T) {
	order, err := ParseFile(newWorkbook(t, true), DefaultSheetNames())
	require.NoError(t, err)

	assert.Equal(t, "456789", order.MessageRef)
	assert.Equal(t, "ORD2025001", order.OrderNumber)
	assert.Equal(t, "20250322", order.OrderDate)
	assert.Equal(t, types.Numeric("20.0"), order.TaxRate)

	assert.Equal(t, []types.RawParty{{Qualifier: "BY", ID: "123456789", Name: "Buyer Ltd"}}, order.Parties)

	assert.Equal(t, []types.RawItem{
		{ProductCode: "ABC123", Description: "Product A", Quantity: "10", Price: "25.50", SourceRow: 2},
		{ProductCode: "XYZ9", Description: "Bolt", Quantity: "4", Price: "0.25", SourceRow: 4},
	}, order.Items)
}

func TestParseFile_PartiesSheetOptional(t *testing.T) {
	order, err := ParseFile(newWorkbook(t, false), DefaultSheetNames())
	require.NoError(t, err)
	assert.Empty(t, order.Parties)
	assert.Len(t, order.Items, 2)
}

func TestParseFile_MissingSheets(t *testing.T) {
	f := newWorkbook(t, false)

	_, err := ParseFile(f, SheetNames{Header: "Kopf", Items: "Items"})
	assert.ErrorContains(t, err, "Kopf")

	_, err = ParseFile(f, SheetNames{Header: "Header", Items: "Lines"})
	assert.ErrorContains(t, err, "Lines")
}

func TestParseFile_MissingItemColumn(t *testing.T) {
	f := newWorkbook(t, false)
	require.NoError(t, f.SetCellValue("Items", "D1", "Notes"))

	_, err := ParseFile(f, DefaultSheetNames())
	assert.ErrorIs(t, err, csvparser.ErrMissingColumn)
	assert.ErrorContains(t, err, "price")
}

func TestParse_SavedWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.xlsx")
	require.NoError(t, newWorkbook(t, true).SaveAs(path))

	order, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "ORD2025001", order.OrderNumber)
	assert.Len(t, order.Items, 2)

	_, err = Parse(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
