// =============================================================================
// EDIFACT ORDERS Generator - Validation Engine
// =============================================================================
//
// This module turns a caller-supplied RawOrder into a normalized Order, or
// fails with a typed error.
//
// VALIDATION STRATEGY:
//   Checks run in a fixed order and the first failure aborts:
//   1. Required header fields (message_ref, order_number, order_date)
//   2. Items collection present and non-empty
//   3. Dates against the configured date-format code
//   4. Currency code (ISO 4217)
//   5. Tax rate, then each item's quantity and price
//
//   Parties and items that lack a required field are not errors: they are
//   left out of the Order and reported through the Hook. Document-level
//   defects always abort with no partial result.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/ginjaninja78/edifact-orders/internal/config"
	"github.com/ginjaninja78/edifact-orders/internal/types"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// structValidator is shared; validator.Validate caches struct metadata and is
// safe for concurrent use.
var structValidator = newStructValidator()

func newStructValidator() *validatorv10.Validate {
	v := validatorv10.New()

	// Report fields by their document names (message_ref, not MessageRef).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", func(fl validatorv10.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(fmt.Sprintf("register notblank: %v", err))
	}

	return v
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator validates order documents for one dialect.
type Validator struct {
	cfg  config.EdifactConfig
	hook types.Hook
}

// NewValidator creates a Validator. hook may be nil.
func NewValidator(cfg config.EdifactConfig, hook types.Hook) *Validator {
	return &Validator{cfg: cfg, hook: hook}
}

// Validate checks raw and returns the normalized order. raw is not modified.
func (v *Validator) Validate(raw *types.RawOrder) (*types.Order, error) {
	if raw == nil {
		return nil, &types.MissingFieldError{Field: "message_ref"}
	}

	header := trimHeader(*raw)

	// =========================================================================
	// STEP 1: REQUIRED HEADER FIELDS
	// =========================================================================

	var codeErr error
	if err := structValidator.Struct(header); err != nil {
		var fieldErrs validatorv10.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("validate header: %w", err)
		}
		for _, fe := range fieldErrs {
			switch fe.Tag() {
			case "required", "notblank":
				return nil, &types.MissingFieldError{Field: fe.Field()}
			case "iso4217":
				if codeErr == nil {
					codeErr = &types.InvalidCodeError{Field: fe.Field(), Value: fmt.Sprint(fe.Value())}
				}
			default:
				if codeErr == nil {
					codeErr = fmt.Errorf("field %s failed %s check", fe.Field(), fe.Tag())
				}
			}
		}
	}

	// =========================================================================
	// STEP 2: ITEMS PRESENT
	// =========================================================================

	if len(raw.Items) == 0 {
		return nil, &types.EmptyItemsError{}
	}

	// =========================================================================
	// STEP 3: DATES
	// =========================================================================

	if err := v.checkDates(&header); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 4: CODES
	// =========================================================================

	if codeErr != nil {
		return nil, codeErr
	}

	// =========================================================================
	// STEP 5: NUMERIC NORMALIZATION
	// =========================================================================

	order := &types.Order{
		MessageRef:          header.MessageRef,
		OrderNumber:         header.OrderNumber,
		OrderDate:           header.OrderDate,
		DeliveryDate:        header.DeliveryDate,
		Currency:            header.Currency,
		DeliveryLocation:    header.DeliveryLocation,
		PaymentTerms:        header.PaymentTerms,
		SpecialInstructions: header.SpecialInstructions,
		Incoterms:           header.Incoterms,
	}
	order.PaymentTermsIsDate = order.PaymentTerms != "" &&
		v.cfg.DateFormatSupported() && v.dateMatches(order.PaymentTerms)

	if !header.TaxRate.IsZero() {
		rate, err := v.parseDecimal(0, "tax_rate", header.TaxRate)
		if err != nil {
			return nil, err
		}
		order.TaxRate = &rate
	}

	order.Parties = v.normalizeParties(header.MessageRef, raw.Parties)

	items, err := v.normalizeItems(header.MessageRef, raw.Items)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &types.EmptyItemsError{Excluded: len(raw.Items)}
	}
	order.Items = items

	v.hook.Emit(types.Event{
		Kind:       types.EventValidated,
		MessageRef: order.MessageRef,
		Count:      len(order.Items),
		Reason:     fmt.Sprintf("%d parties, %d items", len(order.Parties), len(order.Items)),
	})

	return order, nil
}

// trimHeader returns a copy of raw with header strings trimmed.
func trimHeader(raw types.RawOrder) types.RawOrder {
	for _, s := range []*string{
		&raw.MessageRef, &raw.OrderNumber, &raw.OrderDate, &raw.DeliveryDate,
		&raw.Currency, &raw.DeliveryLocation, &raw.PaymentTerms,
		&raw.SpecialInstructions, &raw.Incoterms,
	} {
		*s = strings.TrimSpace(*s)
	}
	return raw
}

// =============================================================================
// DATE VALIDATION
// =============================================================================

func (v *Validator) checkDates(header *types.RawOrder) error {
	if !v.cfg.DateFormatSupported() {
		if v.cfg.StrictDateFormat {
			return &types.ConfigError{Setting: "date_format", Reason: fmt.Sprintf("unsupported code %q", v.cfg.DateFormat)}
		}
		v.hook.Emit(types.Event{
			Kind:       types.EventDateUnchecked,
			MessageRef: header.MessageRef,
			Reason:     fmt.Sprintf("date format %q has no known layout", v.cfg.DateFormat),
		})
		return nil
	}

	dates := []struct{ field, value string }{
		{"order_date", header.OrderDate},
		{"delivery_date", header.DeliveryDate},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		if !v.dateMatches(d.value) {
			return &types.InvalidDateError{Field: d.field, Value: d.value, Format: v.cfg.DateFormat}
		}
	}
	return nil
}

// dateMatches reports whether value is a calendar-valid date written exactly
// in the configured layout (digits only, fixed width).
func (v *Validator) dateMatches(value string) bool {
	return ValidDate(value, v.cfg.DateFormat)
}

// ValidDate reports whether value is valid under the EDIFACT date-format code.
// Unsupported codes report false.
func ValidDate(value, formatCode string) bool {
	layout, ok := config.DateFormats[formatCode]
	if !ok || len(value) != len(layout) {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	_, err := time.Parse(layout, value)
	return err == nil
}

// =============================================================================
// PARTIES AND ITEMS
// =============================================================================

func (v *Validator) normalizeParties(ref string, raw []types.RawParty) []types.Party {
	parties := make([]types.Party, 0, len(raw))
	for i, p := range raw {
		party := types.Party{
			Qualifier: strings.TrimSpace(p.Qualifier),
			ID:        strings.TrimSpace(p.ID),
			Name:      strings.TrimSpace(p.Name),
			Address:   strings.TrimSpace(p.Address),
			Contact:   strings.TrimSpace(p.Contact),
		}

		var missing string
		switch {
		case party.Qualifier == "":
			missing = "qualifier"
		case party.ID == "":
			missing = "id"
		}
		if missing != "" {
			v.hook.Emit(types.Event{
				Kind:       types.EventPartySkipped,
				MessageRef: ref,
				Index:      i + 1,
				Reason:     "missing " + missing,
			})
			continue
		}

		parties = append(parties, party)
	}
	return parties
}

func (v *Validator) normalizeItems(ref string, raw []types.RawItem) ([]types.Item, error) {
	items := make([]types.Item, 0, len(raw))
	for i, it := range raw {
		index := i + 1
		code := strings.TrimSpace(it.ProductCode)
		desc := strings.TrimSpace(it.Description)

		var missing string
		switch {
		case code == "":
			missing = "product_code"
		case desc == "":
			missing = "description"
		case it.Quantity.IsZero():
			missing = "quantity"
		case it.Price.IsZero():
			missing = "price"
		}
		if missing != "" {
			v.hook.Emit(types.Event{
				Kind:       types.EventItemSkipped,
				MessageRef: ref,
				Index:      index,
				Reason:     "missing " + missing,
			})
			continue
		}

		qty, err := v.parseQuantity(index, it.Quantity)
		if err != nil {
			return nil, err
		}
		price, err := v.parseDecimal(index, "price", it.Price)
		if err != nil {
			return nil, err
		}

		items = append(items, types.Item{
			Index:       index,
			ProductCode: code,
			Description: desc,
			Quantity:    qty,
			Price:       price,
		})
	}
	return items, nil
}

// =============================================================================
// NUMERIC PARSING
// =============================================================================

// Bounds on accepted numeric literals. Exponent notation is allowed, but
// "1e12000000" must not expand into millions of digits.
const (
	maxExponent = 18
	maxDigits   = 28
)

// parseDecimal parses an exact decimal. Binary floating point is never used.
func (v *Validator) parseDecimal(index int, field string, raw types.Numeric) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw.String())
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &types.InvalidNumericFieldError{Index: index, Field: field, Value: s, Reason: "not a decimal number"}
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent || d.NumDigits() > maxDigits {
		return decimal.Zero, &types.InvalidNumericFieldError{Index: index, Field: field, Value: s, Reason: "out of range"}
	}
	if d.IsNegative() && !v.cfg.AllowNegativeAmounts {
		return decimal.Zero, &types.InvalidNumericFieldError{Index: index, Field: field, Value: s, Reason: "must not be negative"}
	}
	return d, nil
}

// parseQuantity parses a non-zero whole number. "10" and "10.0" are
// accepted, "10.5" and "0" are not.
func (v *Validator) parseQuantity(index int, raw types.Numeric) (int64, error) {
	d, err := v.parseDecimal(index, "quantity", raw)
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(raw.String())
	if !d.IsInteger() {
		return 0, &types.InvalidNumericFieldError{Index: index, Field: "quantity", Value: s, Reason: "not a whole number"}
	}
	if d.IsZero() {
		return 0, &types.InvalidNumericFieldError{Index: index, Field: "quantity", Value: s, Reason: "must not be zero"}
	}
	n := d.BigInt()
	if !n.IsInt64() {
		return 0, &types.InvalidNumericFieldError{Index: index, Field: "quantity", Value: s, Reason: "out of range"}
	}
	return n.Int64(), nil
}
