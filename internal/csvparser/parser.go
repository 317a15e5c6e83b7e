// =============================================================================
// EDIFACT ORDERS Generator - CSV Item Parser
// =============================================================================
//
// This module reads order item lines from a CSV file referenced by an order
// document's items_file key. Each data row becomes one RawItem.
//
// EXPECTED COLUMNS (matched case-insensitively, in any order):
//   product_code   (aliases: code, sku, ean)
//   description    (aliases: desc, name)
//   quantity       (aliases: qty)
//   price          (aliases: unit_price)
//
//   Unknown columns are ignored. Values are kept as literal text; numeric
//   checks happen later in validation, so a malformed quantity is reported
//   with its item index like any other document.
//
// FEATURES:
//   - Configurable delimiter (comma, semicolon, pipe, tab)
//   - Multi-row headers merged column by column
//   - Blank rows skipped
//   - Streaming reader for large item lists
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/edifact-orders/internal/config"
	"github.com/ginjaninja78/edifact-orders/internal/types"
)

// ErrMissingColumn is returned when a required item column is absent.
var ErrMissingColumn = errors.New("missing item column")

// columnAliases maps normalized header text to the item field it fills.
var columnAliases = map[string]string{
	"product_code": "product_code",
	"productcode":  "product_code",
	"code":         "product_code",
	"sku":          "product_code",
	"ean":          "product_code",
	"description":  "description",
	"desc":         "description",
	"name":         "description",
	"quantity":     "quantity",
	"qty":          "quantity",
	"price":        "price",
	"unit_price":   "price",
}

// requiredColumns lists the item fields a file must provide, in report order.
var requiredColumns = []string{"product_code", "description", "quantity", "price"}

// =============================================================================
// MAIN PARSING FUNCTION
// =============================================================================

// ParseItems reads every item line in filePath.
func ParseItems(filePath string, settings config.CSVSettings) ([]types.RawItem, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open items file: %w", err)
	}
	defer file.Close()

	items, err := ReadItems(file, settings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return items, nil
}

// ReadItems reads every item line from r.
func ReadItems(r io.Reader, settings config.CSVSettings) ([]types.RawItem, error) {
	parser, err := NewItemReader(r, settings)
	if err != nil {
		return nil, err
	}

	var items []types.RawItem
	for parser.Next() {
		items = append(items, parser.Item())
	}
	if err := parser.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// =============================================================================
// STREAMING READER
// =============================================================================

// ItemReader reads item lines one row at a time.
//
// USAGE:
//
//	reader, err := csvparser.NewItemReader(f, settings)
//	if err != nil {
//	    return err
//	}
//	for reader.Next() {
//	    item := reader.Item()
//	    // ...
//	}
//	if err := reader.Err(); err != nil {
//	    return err
//	}
type ItemReader struct {
	reader    *csv.Reader
	settings  config.CSVSettings
	columns   map[string]int
	current   types.RawItem
	rowNumber int
	err       error
}

// NewItemReader reads the header rows of r and prepares the column mapping.
func NewItemReader(r io.Reader, settings config.CSVSettings) (*ItemReader, error) {
	if settings.HeaderRows <= 0 {
		settings.HeaderRows = 1
	}

	reader := csv.NewReader(bufio.NewReader(r))
	configureReader(reader, settings)

	p := &ItemReader{reader: reader, settings: settings}

	if err := p.readHeaders(); err != nil {
		return nil, err
	}
	if err := p.skipToDataStart(); err != nil {
		return nil, err
	}
	return p, nil
}

// configureReader applies the delimiter and leniency settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Trailing empty cells are common in spreadsheet exports.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

func (p *ItemReader) readHeaders() error {
	headerRows := make([][]string, 0, p.settings.HeaderRows)

	for i := 0; i < p.settings.HeaderRows; i++ {
		row, err := p.reader.Read()
		if err == io.EOF {
			return fmt.Errorf("unexpected end of file while reading headers")
		}
		if err != nil {
			return fmt.Errorf("error reading header row %d: %w", i+1, err)
		}
		headerRows = append(headerRows, row)
		p.rowNumber++
	}

	columns, err := mapColumns(mergeHeaders(headerRows))
	if err != nil {
		return err
	}
	p.columns = columns
	return nil
}

func (p *ItemReader) skipToDataStart() error {
	targetRow := p.settings.DataStartRow
	if targetRow <= p.settings.HeaderRows {
		targetRow = p.settings.HeaderRows + 1
	}

	for p.rowNumber < targetRow-1 {
		_, err := p.reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error skipping to data start: %w", err)
		}
		p.rowNumber++
	}
	return nil
}

// Next advances to the next non-blank row. It returns false at end of input
// or on error.
func (p *ItemReader) Next() bool {
	for p.err == nil {
		row, err := p.reader.Read()
		if err == io.EOF {
			return false
		}
		if err != nil {
			p.err = fmt.Errorf("error reading row %d: %w", p.rowNumber+1, err)
			return false
		}
		p.rowNumber++

		if isRowEmpty(row) {
			continue
		}

		line, _ := p.reader.FieldPos(0)
		cell := func(field string) string {
			i := p.columns[field]
			if i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		p.current = types.RawItem{
			ProductCode: cell("product_code"),
			Description: cell("description"),
			Quantity:    types.Numeric(cell("quantity")),
			Price:       types.Numeric(cell("price")),
			SourceRow:   line,
		}
		return true
	}
	return false
}

// Item returns the current item line.
func (p *ItemReader) Item() types.RawItem {
	return p.current
}

// RowNumber returns the number of records read so far, headers included.
// Blank lines are not records.
func (p *ItemReader) RowNumber() int {
	return p.rowNumber
}

// Err returns the first read error.
func (p *ItemReader) Err() error {
	return p.err
}

// =============================================================================
// HEADER HANDLING
// =============================================================================

// mergeHeaders joins the non-empty cells of each column across header rows.
//
//	Row 1: "Product", "",     "Unit"
//	Row 2: "Code",    "Qty",  "Price"
//	-> "Product Code", "Qty", "Unit Price"
func mergeHeaders(rows [][]string) []string {
	if len(rows) == 1 {
		return rows[0]
	}

	maxCols := 0
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string
		for _, row := range rows {
			if col < len(row) {
				if v := strings.TrimSpace(row[col]); v != "" {
					parts = append(parts, v)
				}
			}
		}
		headers[col] = strings.Join(parts, " ")
	}
	return headers
}

// NormalizeHeader lowercases a header and turns spaces and dashes into
// underscores ("Unit Price" -> "unit_price"). A UTF-8 BOM is dropped.
func NormalizeHeader(header string) string {
	header = strings.TrimPrefix(header, "\ufeff")
	header = strings.ToLower(strings.TrimSpace(header))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(header)
}

// FieldForHeader returns the item field a header maps to, or "".
func FieldForHeader(header string) string {
	return columnAliases[NormalizeHeader(header)]
}

func mapColumns(headers []string) (map[string]int, error) {
	columns := make(map[string]int, len(requiredColumns))
	for i, h := range headers {
		field := FieldForHeader(h)
		if field == "" {
			continue
		}
		if _, dup := columns[field]; !dup {
			columns[field] = i
		}
	}
	for _, field := range requiredColumns {
		if _, ok := columns[field]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, field)
		}
	}
	return columns, nil
}

// isRowEmpty reports whether every cell of row is blank.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
