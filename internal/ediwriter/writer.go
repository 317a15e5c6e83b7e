// =============================================================================
// EDIFACT ORDERS Generator - Message Writer
// =============================================================================
//
// This module assembles the segments of one ORDERS message in their required
// order, appends the UNT trailer and joins everything into the final text.
//
// MESSAGE LAYOUT:
//   UNA                      <- service string advice, not counted
//   UNH BGM DTM [DTM] [CUX]  <- header
//   (NAD [CTA] [COM] [COM])* <- one group per valid party
//   (LIN IMD QTY PRI)*       <- one group per valid item, lines 1..n
//   [LOC] [TOD] [PAI|DTM] [TAX MOA] [FTX]
//   MOA                      <- total order amount, always present
//   UNT                      <- count of segments UNH..UNT inclusive
//
// =============================================================================

package ediwriter

import (
	"strings"

	"github.com/ginjaninja78/edifact-orders/internal/config"
	"github.com/ginjaninja78/edifact-orders/internal/totals"
	"github.com/ginjaninja78/edifact-orders/internal/types"
)

// Message is a generated ORDERS message. It is never modified after
// Serialize returns it.
type Message struct {
	// MessageRef is the reference carried by UNH and UNT.
	MessageRef string

	// Segments holds every segment including UNA and UNT, each ending with
	// the segment terminator.
	Segments []string

	// SegmentCount is the value declared in UNT.
	SegmentCount int

	// Text is Segments joined by the configured line break.
	Text string

	// Totals are the amounts the message was built from.
	Totals totals.Totals
}

// Generate builds the complete message for a validated order.
func Generate(order *types.Order, cfg config.EdifactConfig) *Message {
	b := NewSegmentBuilder(cfg)

	body := b.Header(order)
	for _, p := range order.Parties {
		body = append(body, b.Party(p)...)
	}
	for i, it := range order.Items {
		body = append(body, b.Item(i+1, it)...)
	}

	t := totals.Calculate(order.Items, order.TaxRate, cfg.Rounding())
	body = append(body, b.Optional(order, t)...)
	body = append(body, b.Total(t))

	msg := Serialize(b, order.MessageRef, body, cfg.LineBreak)
	msg.Totals = t
	return msg
}

// Serialize appends the trailer to body (UNH through the last data segment),
// prefixes the service string advice and joins the result.
//
// The trailer count covers the header segment through the trailer itself.
// UNA is a service segment and is not counted.
func Serialize(b SegmentBuilder, messageRef string, body []string, lineBreak string) *Message {
	count := len(body) + 1

	segments := make([]string, 0, len(body)+2)
	segments = append(segments, b.UNA())
	segments = append(segments, body...)
	segments = append(segments, b.UNT(count, messageRef))

	return &Message{
		MessageRef:   messageRef,
		Segments:     segments,
		SegmentCount: count,
		Text:         strings.Join(segments, lineBreak),
	}
}

// CountedSegments returns the segments covered by the UNT count.
func (m *Message) CountedSegments() []string {
	if len(m.Segments) == 0 {
		return nil
	}
	return m.Segments[1:]
}
