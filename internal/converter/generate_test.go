package converter

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/ginjaninja78/edifact-orders/internal/config"
	"github.com/ginjaninja78/edifact-orders/internal/ediwriter"
	"github.com/ginjaninja78/edifact-orders/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioRaw() *types.RawOrder {
	return &types.RawOrder{
		MessageRef:  "456789",
		OrderNumber: "ORD2025001",
		OrderDate:   "20250322",
		Parties:     []types.RawParty{{Qualifier: "BY", ID: "123456789"}},
		Items: []types.RawItem{{
			ProductCode: "ABC123",
			Description: "Product A",
			Quantity:    "10",
			Price:       "25.50",
		}},
	}
}

func TestGenerate_Scenario(t *testing.T) {
	msg, err := Generate(scenarioRaw(), config.DefaultEdifactConfig())
	require.NoError(t, err)

	assert.Contains(t, msg.Segments, "MOA+79:255.00:'")
	assert.Contains(t, msg.Segments, "LIN+1++ABC123:EN'")
	assert.Equal(t, "UNT+10+456789'", msg.Segments[len(msg.Segments)-1])
}

func TestGenerate_ScenarioWithTax(t *testing.T) {
	raw := scenarioRaw()
	raw.TaxRate = "20.0"

	msg, err := Generate(raw, config.DefaultEdifactConfig())
	require.NoError(t, err)

	assert.Contains(t, msg.Text, "TAX+7+VAT+++:::20.0%'\nMOA+124:51.00:'\nMOA+79:306.00:'\nUNT+12+456789'")
}

func TestGenerate_TrailerCountForEveryOptionalCombination(t *testing.T) {
	type option func(r *types.RawOrder)
	options := []option{
		func(r *types.RawOrder) { r.DeliveryDate = "20250401" },
		func(r *types.RawOrder) { r.Currency = "EUR" },
		func(r *types.RawOrder) { r.DeliveryLocation = "5412345000020" },
		func(r *types.RawOrder) { r.PaymentTerms = "NET30" },
		func(r *types.RawOrder) { r.TaxRate = "20" },
		func(r *types.RawOrder) { r.SpecialInstructions = "Handle with care" },
		func(r *types.RawOrder) { r.Incoterms = "DAP" },
		func(r *types.RawOrder) {
			r.Parties = append(r.Parties, types.RawParty{Qualifier: "SU", ID: "9", Name: "n", Address: "a", Contact: "c"})
		},
		func(r *types.RawOrder) {
			r.Items = append(r.Items, types.RawItem{ProductCode: "X", Description: "x", Quantity: "1", Price: "1"})
		},
	}

	for mask := 0; mask < 1<<len(options); mask++ {
		raw := scenarioRaw()
		for i, apply := range options {
			if mask&(1<<i) != 0 {
				apply(raw)
			}
		}

		msg, err := Generate(raw, config.DefaultEdifactConfig())
		require.NoError(t, err, "mask %b", mask)

		counted := msg.CountedSegments()
		require.Equal(t, msg.SegmentCount, len(counted), "mask %b", mask)
		assert.Equal(t, "UNT+"+strconv.Itoa(len(counted))+"+456789'", counted[len(counted)-1], "mask %b", mask)
		assert.Equal(t, "MOA+79", strings.SplitN(counted[len(counted)-2], ":", 2)[0], "mask %b", mask)
	}
}

func TestGenerate_MissingOrderNumber(t *testing.T) {
	raw := scenarioRaw()
	raw.OrderNumber = ""

	msg, err := Generate(raw, config.DefaultEdifactConfig())
	assert.Nil(t, msg)

	var missing *types.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "order_number", missing.Field)
}

func TestGenerate_SkipsIncompleteEntities(t *testing.T) {
	raw := scenarioRaw()
	raw.Parties = append(raw.Parties, types.RawParty{Qualifier: "SU"})
	raw.Items = append([]types.RawItem{{ProductCode: "NOPRICE", Description: "d", Quantity: "1"}}, raw.Items...)

	var events []Event
	msg, err := Generate(raw, config.DefaultEdifactConfig(), WithHook(func(e Event) { events = append(events, e) }))
	require.NoError(t, err)

	assert.NotContains(t, msg.Text, "NAD+SU")
	assert.NotContains(t, msg.Text, "NOPRICE")
	assert.Contains(t, msg.Segments, "LIN+1++ABC123:EN'")
	assert.Equal(t, "UNT+10+456789'", msg.Segments[len(msg.Segments)-1])

	var kinds []types.EventKind
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []types.EventKind{
		types.EventPartySkipped,
		types.EventItemSkipped,
		types.EventValidated,
		types.EventGenerated,
	}, kinds)
	assert.Equal(t, 10, events[len(events)-1].Count)
}

func TestGenerate_InvalidConfig(t *testing.T) {
	cfg := config.DefaultEdifactConfig()
	cfg.ComponentSeparator = "+"

	msg, err := Generate(scenarioRaw(), cfg)
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestGenerate_Sink(t *testing.T) {
	var written *ediwriter.Message
	sink := SinkFunc(func(msg *ediwriter.Message) error {
		written = msg
		return nil
	})

	msg, err := Generate(scenarioRaw(), config.DefaultEdifactConfig(), WithSink(sink))
	require.NoError(t, err)
	assert.Same(t, msg, written)
}

func TestGenerate_SinkFailure(t *testing.T) {
	diskFull := errors.New("disk full")
	sink := SinkFunc(func(*ediwriter.Message) error { return diskFull })

	var failed []Event
	hook := func(e Event) {
		if e.Kind == types.EventWriteFailed {
			failed = append(failed, e)
		}
	}

	msg, err := Generate(scenarioRaw(), config.DefaultEdifactConfig(), WithSink(sink), WithHook(hook))
	require.NotNil(t, msg, "message is returned so the caller can retry the write")
	assert.Equal(t, "456789", msg.MessageRef)

	var ioErr *types.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.ErrorIs(t, err, diskFull)
	assert.ErrorIs(t, err, types.ErrIO)
	assert.Len(t, failed, 1)
}

func TestGenerate_SinkIOErrorPassedThrough(t *testing.T) {
	want := &types.IOError{Path: "/x/y.edi", Err: errors.New("permission denied")}
	sink := SinkFunc(func(*ediwriter.Message) error { return want })

	_, err := Generate(scenarioRaw(), config.DefaultEdifactConfig(), WithSink(sink))

	var ioErr *types.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "/x/y.edi", ioErr.Path)
}

func TestGenerate_ValidationFailureSkipsSink(t *testing.T) {
	called := false
	sink := SinkFunc(func(*ediwriter.Message) error {
		called = true
		return nil
	})
	raw := scenarioRaw()
	raw.Items = nil

	_, err := Generate(raw, config.DefaultEdifactConfig(), WithSink(sink))
	assert.ErrorIs(t, err, types.ErrEmptyItems)
	assert.False(t, called)
}
