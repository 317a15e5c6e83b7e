// =============================================================================
// EDIFACT ORDERS Generator - XLSX Order Workbook Parser
// =============================================================================
//
// This module reads an order document kept as an Excel workbook. Sheet names
// are matched case-insensitively and are configurable via SheetNames.
//
// WORKBOOK STRUCTURE:
//
//   Header sheet (two columns, one field per row):
//   | Field            | Value      |
//   |------------------|------------|
//   | message_ref      | MSG001     |
//   | order_number     | PO-1001    |
//   | order_date       | 20240115   |
//   | tax_rate         | 20.0       |
//
//   Parties sheet (first row is the header):
//   | qualifier | id            | name       | address        | contact |
//
//   Items sheet (first row is the header, same columns as item CSV files):
//   | product_code | description | quantity | price |
//
//   The Parties sheet is optional. Dates should be entered as text cells;
//   raw cell values are read, so numbers keep the digits Excel stored.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/edifact-orders/internal/csvparser"
	"github.com/ginjaninja78/edifact-orders/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// SHEET CONFIGURATION
// =============================================================================

// SheetNames names the worksheets of an order workbook.
type SheetNames struct {
	Header  string
	Parties string
	Items   string
}

// DefaultSheetNames returns the standard sheet names.
func DefaultSheetNames() SheetNames {
	return SheetNames{Header: "Header", Parties: "Parties", Items: "Items"}
}

// headerFields maps normalized Header sheet keys to RawOrder setters.
var headerFields = map[string]func(o *types.RawOrder, v string){
	"message_ref":          func(o *types.RawOrder, v string) { o.MessageRef = v },
	"order_number":         func(o *types.RawOrder, v string) { o.OrderNumber = v },
	"order_date":           func(o *types.RawOrder, v string) { o.OrderDate = v },
	"delivery_date":        func(o *types.RawOrder, v string) { o.DeliveryDate = v },
	"currency":             func(o *types.RawOrder, v string) { o.Currency = v },
	"delivery_location":    func(o *types.RawOrder, v string) { o.DeliveryLocation = v },
	"payment_terms":        func(o *types.RawOrder, v string) { o.PaymentTerms = v },
	"tax_rate":             func(o *types.RawOrder, v string) { o.TaxRate = types.Numeric(v) },
	"special_instructions": func(o *types.RawOrder, v string) { o.SpecialInstructions = v },
	"incoterms":            func(o *types.RawOrder, v string) { o.Incoterms = v },
}

// =============================================================================
// MAIN PARSING FUNCTIONS
// =============================================================================

// Parse reads the order workbook at path using the default sheet names.
func Parse(path string) (*types.RawOrder, error) {
	return ParseWithConfig(path, DefaultSheetNames())
}

// ParseWithConfig reads the order workbook at path.
func ParseWithConfig(path string, sheets SheetNames) (*types.RawOrder, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return ParseFile(f, sheets)
}

// ParseFile reads an already opened workbook.
func ParseFile(f *excelize.File, sheets SheetNames) (*types.RawOrder, error) {
	order := &types.RawOrder{}

	// =========================================================================
	// HEADER SHEET
	// =========================================================================

	headerSheet, ok := findSheet(f, sheets.Header)
	if !ok {
		return nil, fmt.Errorf("workbook has no %q sheet", sheets.Header)
	}
	rows, err := readRows(f, headerSheet)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if len(row) == 0 || isRowEmpty(row) {
			continue
		}
		set, known := headerFields[csvparser.NormalizeHeader(cell(row, 0))]
		if !known {
			continue
		}
		set(order, cell(row, 1))
	}

	// =========================================================================
	// PARTIES SHEET
	// =========================================================================

	if partySheet, ok := findSheet(f, sheets.Parties); ok {
		parties, err := parseParties(f, partySheet)
		if err != nil {
			return nil, err
		}
		order.Parties = parties
	}

	// =========================================================================
	// ITEMS SHEET
	// =========================================================================

	itemSheet, ok := findSheet(f, sheets.Items)
	if !ok {
		return nil, fmt.Errorf("workbook has no %q sheet", sheets.Items)
	}
	items, err := parseItems(f, itemSheet)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func parseParties(f *excelize.File, sheet string) ([]types.RawParty, error) {
	rows, err := readRows(f, sheet)
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	columns := make(map[string]int)
	for i, h := range rows[0] {
		columns[csvparser.NormalizeHeader(h)] = i
	}
	get := func(row []string, name string) string {
		if i, ok := columns[name]; ok {
			return cell(row, i)
		}
		return ""
	}

	var parties []types.RawParty
	for _, row := range rows[1:] {
		if isRowEmpty(row) {
			continue
		}
		parties = append(parties, types.RawParty{
			Qualifier: get(row, "qualifier"),
			ID:        get(row, "id"),
			Name:      get(row, "name"),
			Address:   get(row, "address"),
			Contact:   get(row, "contact"),
		})
	}
	return parties, nil
}

func parseItems(f *excelize.File, sheet string) ([]types.RawItem, error) {
	rows, err := readRows(f, sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make(map[string]int)
	for i, h := range rows[0] {
		if field := csvparser.FieldForHeader(h); field != "" {
			if _, dup := columns[field]; !dup {
				columns[field] = i
			}
		}
	}
	for _, field := range []string{"product_code", "description", "quantity", "price"} {
		if _, ok := columns[field]; !ok {
			return nil, fmt.Errorf("sheet %q: %w: %s", sheet, csvparser.ErrMissingColumn, field)
		}
	}

	var items []types.RawItem
	for i, row := range rows[1:] {
		if isRowEmpty(row) {
			continue
		}
		items = append(items, types.RawItem{
			ProductCode: cell(row, columns["product_code"]),
			Description: cell(row, columns["description"]),
			Quantity:    types.Numeric(cell(row, columns["quantity"])),
			Price:       types.Numeric(cell(row, columns["price"])),
			SourceRow:   i + 2,
		})
	}
	return items, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// findSheet returns the workbook's spelling of name.
func findSheet(f *excelize.File, name string) (string, bool) {
	for _, sheet := range f.GetSheetList() {
		if strings.EqualFold(sheet, name) {
			return sheet, true
		}
	}
	return "", false
}

func readRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// cell safely returns the trimmed value at index.
func cell(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
