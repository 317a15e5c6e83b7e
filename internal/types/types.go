// =============================================================================
// EDIFACT ORDERS Generator - Shared Types
// =============================================================================
//
// This package contains the order entities shared by the input parsers, the
// validator, the segment builder and the converter. Keeping them here avoids
// import cycles between those packages.
//
// Two families of types live here:
//   - Raw*   : caller-supplied data exactly as decoded (strings, literal numbers)
//   - Order, Party, Item : the normalized document produced by validation
//
// =============================================================================

package types

import (
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// RAW INPUT TYPES
// =============================================================================

// Numeric holds the literal text of a number as it appeared in the input.
// Quantities and prices may arrive quoted ("10") or bare (10, 25.50); both
// decode to the same literal so that no binary floating point is involved.
type Numeric string

// UnmarshalYAML keeps the scalar's literal text. This also covers JSON input,
// since the document parser decodes JSON through the YAML decoder.
func (n *Numeric) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &yaml.TypeError{Errors: []string{"numeric field must be a scalar"}}
	}
	if node.Tag == "!!null" {
		*n = ""
		return nil
	}
	*n = Numeric(strings.TrimSpace(node.Value))
	return nil
}

// String returns the literal text.
func (n Numeric) String() string {
	return string(n)
}

// IsZero reports whether the field was absent or empty.
func (n Numeric) IsZero() bool {
	return strings.TrimSpace(string(n)) == ""
}

// RawOrder is an order document as supplied by the caller.
type RawOrder struct {
	MessageRef          string  `yaml:"message_ref" json:"message_ref" validate:"required,notblank"`
	OrderNumber         string  `yaml:"order_number" json:"order_number" validate:"required,notblank"`
	OrderDate           string  `yaml:"order_date" json:"order_date" validate:"required,notblank"`
	DeliveryDate        string  `yaml:"delivery_date,omitempty" json:"delivery_date,omitempty"`
	Currency            string  `yaml:"currency,omitempty" json:"currency,omitempty" validate:"omitempty,iso4217"`
	DeliveryLocation    string  `yaml:"delivery_location,omitempty" json:"delivery_location,omitempty"`
	PaymentTerms        string  `yaml:"payment_terms,omitempty" json:"payment_terms,omitempty"`
	TaxRate             Numeric `yaml:"tax_rate,omitempty" json:"tax_rate,omitempty"`
	SpecialInstructions string  `yaml:"special_instructions,omitempty" json:"special_instructions,omitempty"`
	Incoterms           string  `yaml:"incoterms,omitempty" json:"incoterms,omitempty"`

	Parties []RawParty `yaml:"parties,omitempty" json:"parties,omitempty" validate:"-"`
	Items   []RawItem  `yaml:"items,omitempty" json:"items,omitempty" validate:"-"`

	// ItemsFile points at a CSV file holding the item lines. It is resolved
	// by the document parser and never reaches the validator.
	ItemsFile string `yaml:"items_file,omitempty" json:"items_file,omitempty" validate:"-"`
}

// RawParty is a party entry as supplied by the caller.
type RawParty struct {
	Qualifier string `yaml:"qualifier" json:"qualifier"`
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name,omitempty" json:"name,omitempty"`
	Address   string `yaml:"address,omitempty" json:"address,omitempty"`
	Contact   string `yaml:"contact,omitempty" json:"contact,omitempty"`
}

// RawItem is an item line as supplied by the caller.
type RawItem struct {
	ProductCode string  `yaml:"product_code" json:"product_code"`
	Description string  `yaml:"description" json:"description"`
	Quantity    Numeric `yaml:"quantity" json:"quantity"`
	Price       Numeric `yaml:"price" json:"price"`

	// SourceRow is the row number in the originating CSV or XLSX sheet.
	// Zero when the item came from a YAML/JSON document.
	SourceRow int `yaml:"-" json:"-"`
}

// =============================================================================
// VALIDATED TYPES
// =============================================================================

// Order is the normalized order document produced by validation.
type Order struct {
	MessageRef          string
	OrderNumber         string
	OrderDate           string
	DeliveryDate        string
	Currency            string
	DeliveryLocation    string
	PaymentTerms        string
	TaxRate             *decimal.Decimal
	SpecialInstructions string
	Incoterms           string

	// PaymentTermsIsDate is true when PaymentTerms validated as a date under
	// the configured date-format code.
	PaymentTermsIsDate bool

	// Parties and Items contain only the entities that passed the structural
	// checks, in input order.
	Parties []Party
	Items   []Item
}

// Party is a structurally valid party.
type Party struct {
	Qualifier string
	ID        string
	Name      string
	Address   string
	Contact   string
}

// Item is a structurally valid item line.
type Item struct {
	// Index is the 1-based position of the item in the caller's input.
	Index       int
	ProductCode string
	Description string
	Quantity    int64
	Price       decimal.Decimal
}

// LineTotal returns quantity × price without rounding.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}
