package ediwriter

import (
	"strings"
	"testing"

	"github.com/ginjaninja78/edifact-orders/internal/config"
	"github.com/ginjaninja78/edifact-orders/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioOrder() *types.Order {
	return &types.Order{
		MessageRef:  "456789",
		OrderNumber: "ORD2025001",
		OrderDate:   "20250322",
		Parties:     []types.Party{{Qualifier: "BY", ID: "123456789"}},
		Items: []types.Item{{
			Index:       1,
			ProductCode: "ABC123",
			Description: "Product A",
			Quantity:    10,
			Price:       decimal.RequireFromString("25.50"),
		}},
	}
}

func TestGenerate_NoTax(t *testing.T) {
	msg := Generate(scenarioOrder(), config.DefaultEdifactConfig())

	want := []string{
		"UNA:+.? '",
		"UNH+456789+ORDERS:D:96A:UN'",
		"BGM+220+ORD2025001+9'",
		"DTM+137:20250322:102'",
		"NAD+BY+123456789::91'",
		"LIN+1++ABC123:EN'",
		"IMD+F++:::Product A'",
		"QTY+21:10:EA'",
		"PRI+AAA:25.50:EA'",
		"MOA+79:255.00:'",
		"UNT+10+456789'",
	}
	assert.Equal(t, want, msg.Segments)
	assert.Equal(t, 10, msg.SegmentCount)
	assert.Equal(t, strings.Join(want, "\n"), msg.Text)
	assert.Equal(t, "456789", msg.MessageRef)
	assert.False(t, msg.Totals.HasTax)
}

func TestGenerate_WithTax(t *testing.T) {
	order := scenarioOrder()
	rate := decimal.RequireFromString("20.0")
	order.TaxRate = &rate

	msg := Generate(order, config.DefaultEdifactConfig())

	n := len(msg.Segments)
	require.GreaterOrEqual(t, n, 4)
	assert.Equal(t, "TAX+7+VAT+++:::20.0%'", msg.Segments[n-4])
	assert.Equal(t, "MOA+124:51.00:'", msg.Segments[n-3])
	assert.Equal(t, "MOA+79:306.00:'", msg.Segments[n-2])
	assert.Equal(t, "UNT+12+456789'", msg.Segments[n-1])
	assert.Equal(t, 12, msg.SegmentCount)
}

func TestGenerate_LineNumbersAreContiguous(t *testing.T) {
	order := scenarioOrder()
	order.Items = []types.Item{
		{Index: 1, ProductCode: "A", Description: "a", Quantity: 1, Price: decimal.NewFromInt(1)},
		{Index: 3, ProductCode: "C", Description: "c", Quantity: 1, Price: decimal.NewFromInt(1)},
	}

	msg := Generate(order, config.DefaultEdifactConfig())

	var lines []string
	for _, s := range msg.Segments {
		if strings.HasPrefix(s, "LIN+") {
			lines = append(lines, s)
		}
	}
	assert.Equal(t, []string{"LIN+1++A:EN'", "LIN+2++C:EN'"}, lines)
}

func TestGenerate_TrailerCountMatchesSegments(t *testing.T) {
	rate := decimal.RequireFromString("19")
	order := scenarioOrder()
	order.DeliveryDate = "20250401"
	order.Currency = "EUR"
	order.DeliveryLocation = "5412345000020"
	order.Incoterms = "EXW"
	order.PaymentTerms = "NET30"
	order.TaxRate = &rate
	order.SpecialInstructions = "Call before delivery"
	order.Parties = append(order.Parties, types.Party{Qualifier: "SU", ID: "1", Name: "S", Address: "A", Contact: "C"})

	msg := Generate(order, config.DefaultEdifactConfig())

	counted := msg.CountedSegments()
	assert.Equal(t, msg.SegmentCount, len(counted))
	assert.True(t, strings.HasPrefix(counted[0], "UNH+"))
	assert.True(t, strings.HasPrefix(counted[len(counted)-1], "UNT+"))
	assert.Equal(t, "UNA:+.? '", msg.Segments[0])
}

func TestGenerate_CustomLineBreakAndIdentifier(t *testing.T) {
	cfg := config.DefaultEdifactConfig()
	cfg.LineBreak = ""
	cfg.Release = "01B"

	msg := Generate(scenarioOrder(), cfg)

	assert.NotContains(t, msg.Text, "\n")
	assert.Contains(t, msg.Text, "UNH+456789+ORDERS:D:01B:UN'BGM")
	assert.True(t, strings.HasSuffix(msg.Text, "UNT+10+456789'"))
}

func TestGenerate_EscapedReferenceInTrailer(t *testing.T) {
	order := scenarioOrder()
	order.MessageRef = "REF+1"

	msg := Generate(order, config.DefaultEdifactConfig())

	assert.Equal(t, "UNH+REF?+1+ORDERS:D:96A:UN'", msg.Segments[1])
	assert.Equal(t, "UNT+10+REF?+1'", msg.Segments[len(msg.Segments)-1])
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := config.DefaultEdifactConfig()
	first := Generate(scenarioOrder(), cfg)
	second := Generate(scenarioOrder(), cfg)
	assert.Equal(t, first.Text, second.Text)
}

func TestSerialize_EmptyBody(t *testing.T) {
	b := newBuilder()
	msg := Serialize(b, "X", []string{b.UNH("X")}, "\n")

	assert.Equal(t, 2, msg.SegmentCount)
	assert.Equal(t, "UNA:+.? '\nUNH+X+ORDERS:D:96A:UN'\nUNT+2+X'", msg.Text)
}
