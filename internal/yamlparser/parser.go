// =============================================================================
// EDIFACT ORDERS Generator - Order Document Parser
// =============================================================================
//
// This module decodes order documents written in YAML or JSON. JSON is read
// through the YAML decoder, so both formats share one code path and one set
// of field names.
//
// EXAMPLE DOCUMENT:
//
//   message_ref: MSG001
//   order_number: PO-1001
//   order_date: "20240115"
//   currency: EUR
//   tax_rate: 20.0
//   parties:
//     - {qualifier: BY, id: "5412345000013", name: Buyer Ltd}
//   items:
//     - {product_code: "4000862141404", description: Widget, quantity: 10, price: 25.50}
//   items_file: items.csv       # optional, appended after inline items
//
// Unknown keys are rejected so that a misspelled field is not silently lost.
//
// =============================================================================

package yamlparser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/edifact-orders/internal/config"
	"github.com/ginjaninja78/edifact-orders/internal/csvparser"
	"github.com/ginjaninja78/edifact-orders/internal/types"
	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned for a file with no YAML/JSON content.
var ErrEmptyDocument = errors.New("order document is empty")

// Parser decodes order documents.
type Parser struct {
	// CSV configures how a document's items_file is read.
	CSV config.CSVSettings
}

// New returns a Parser that reads item files with settings.
func New(settings config.CSVSettings) *Parser {
	return &Parser{CSV: settings}
}

// ParseFile decodes the document at path. A relative items_file is resolved
// against the document's directory.
func (p *Parser) ParseFile(path string) (*types.RawOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read order document: %w", err)
	}

	order, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := p.resolveItemsFile(order, filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return order, nil
}

// Parse decodes data and resolves items_file against baseDir.
func (p *Parser) Parse(data []byte, baseDir string) (*types.RawOrder, error) {
	order, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err := p.resolveItemsFile(order, baseDir); err != nil {
		return nil, err
	}
	return order, nil
}

// Decode decodes a single YAML or JSON document without touching the file
// system.
func Decode(data []byte) (*types.RawOrder, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var order types.RawOrder
	if err := dec.Decode(&order); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("failed to decode order document: %w", err)
	}
	return &order, nil
}

func (p *Parser) resolveItemsFile(order *types.RawOrder, baseDir string) error {
	if order.ItemsFile == "" {
		return nil
	}

	itemsPath := order.ItemsFile
	if !filepath.IsAbs(itemsPath) {
		itemsPath = filepath.Join(baseDir, itemsPath)
	}

	settings := p.CSV
	if settings.HeaderRows <= 0 {
		settings = config.DefaultCSVSettings()
	}

	items, err := csvparser.ParseItems(itemsPath, settings)
	if err != nil {
		return fmt.Errorf("items_file: %w", err)
	}
	order.Items = append(order.Items, items...)
	order.ItemsFile = ""
	return nil
}
