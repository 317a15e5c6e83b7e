// =============================================================================
// EDIFACT ORDERS Generator - Segment Builder
// =============================================================================
//
// This module maps validated order entities to EDIFACT segment strings. Every
// function is pure: the same entity and dialect always produce the same text.
//
// SEGMENT SHAPES (default dialect):
//   UNH+<ref>+ORDERS:D:96A:UN'
//   BGM+220+<order number>+9'
//   DTM+<qualifier>:<date>:<format>'
//   CUX+2:<currency>:9'
//   NAD+<qualifier>+<id>::91'      CTA+IC+<name>'      COM+<value>:<AD|TE>'
//   LIN+<n>++<code>:EN'  IMD+F++:::<text>'  QTY+21:<qty>:EA'  PRI+AAA:<price>:EA'
//   LOC+11+<location>:92'          TOD+6++<incoterms>'  PAI+<terms>:3'
//   TAX+7+VAT+++:::<rate>%'        MOA+<qualifier>:<amount>:'
//   FTX+AAI+++<text>'              UNT+<count>+<ref>'
//
// All caller-supplied values pass through the Escaper before they are placed
// into a segment. Codes and amounts produced here are never escaped.
//
// =============================================================================

package ediwriter

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/edifact-orders/internal/config"
	"github.com/ginjaninja78/edifact-orders/internal/totals"
	"github.com/ginjaninja78/edifact-orders/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// QUALIFIERS AND CODES
// =============================================================================

const (
	// DTM 2005 qualifiers.
	DateQualifierDocument = "137"
	DateQualifierDelivery = "2"
	DateQualifierTermsDue = "13"

	// MOA 5025 qualifiers.
	AmountQualifierTotal = "79"
	AmountQualifierTax   = "124"

	// COM 3155 channel codes.
	ChannelAddress   = "AD"
	ChannelTelephone = "TE"

	documentOrder     = "220" // BGM 1001
	functionOriginal  = "9"   // BGM 1225
	partyAgencyEAN    = "91"  // NAD 3055
	contactInfo       = "IC"  // CTA 3139
	itemNumberEAN     = "EN"  // LIN 7143
	descriptionFree   = "F"   // IMD 7077
	quantityOrdered   = "21"  // QTY 6063
	unitEach          = "EA"  // 6411
	priceCalculation  = "AAA" // PRI 5125
	currencyOrder     = "2"   // CUX 6347
	currencyQualifier = "9"   // CUX 6343
	locationDelivery  = "11"  // LOC 3227
	locationAgency    = "92"  // LOC 3055
	deliveryTerms     = "6"   // TOD 4055
	paymentTermsCode  = "3"   // PAI 4439
	taxFunction       = "7"   // TAX 5283
	taxTypeVAT        = "VAT" // TAX 5153
	textInstructions  = "AAI" // FTX 4451
)

// =============================================================================
// SEGMENT BUILDER
// =============================================================================

// SegmentBuilder formats segments for one dialect. The zero value is not
// usable; construct it with NewSegmentBuilder.
type SegmentBuilder struct {
	cfg      config.EdifactConfig
	esc      Escaper
	rounding totals.Rounding
}

// NewSegmentBuilder returns a builder for cfg.
func NewSegmentBuilder(cfg config.EdifactConfig) SegmentBuilder {
	return SegmentBuilder{
		cfg:      cfg,
		esc:      NewEscaper(cfg),
		rounding: cfg.Rounding(),
	}
}

// Escape releases service characters in a user value.
func (b SegmentBuilder) Escape(s string) string {
	return b.esc.Escape(s)
}

// segment joins the tag and data elements and appends the terminator.
func (b SegmentBuilder) segment(tag string, elements ...string) string {
	var sb strings.Builder
	sb.WriteString(tag)
	for _, e := range elements {
		sb.WriteString(b.cfg.ElementSeparator)
		sb.WriteString(e)
	}
	sb.WriteString(b.cfg.SegmentTerminator)
	return sb.String()
}

// composite joins components of one composite data element.
func (b SegmentBuilder) composite(components ...string) string {
	return strings.Join(components, b.cfg.ComponentSeparator)
}

// Amount renders d rounded to the configured scale with the configured
// decimal mark.
func (b SegmentBuilder) Amount(d decimal.Decimal) string {
	return b.decimalMark(b.rounding.Format(d))
}

// Rate renders a percentage keeping the scale it was written with
// ("20.0" stays "20.0").
func (b SegmentBuilder) Rate(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return b.decimalMark(d.StringFixed(-exp))
	}
	return b.decimalMark(d.String())
}

func (b SegmentBuilder) decimalMark(s string) string {
	if b.cfg.DecimalMark == "." {
		return s
	}
	return strings.Replace(s, ".", b.cfg.DecimalMark, 1)
}

// =============================================================================
// HEADER SEGMENTS
// =============================================================================

// UNA returns the service string advice.
func (b SegmentBuilder) UNA() string {
	return b.cfg.ServiceStringAdvice()
}

// UNH returns the message header.
func (b SegmentBuilder) UNH(messageRef string) string {
	return b.segment("UNH",
		b.Escape(messageRef),
		b.composite(b.cfg.MessageType, b.cfg.Version, b.cfg.Release, b.cfg.ControllingAgency),
	)
}

// BGM returns the beginning of message for an original order.
func (b SegmentBuilder) BGM(orderNumber string) string {
	return b.segment("BGM", documentOrder, b.Escape(orderNumber), functionOriginal)
}

// DTM returns a date/time/period segment in the configured format.
func (b SegmentBuilder) DTM(qualifier, date string) string {
	return b.segment("DTM", b.composite(qualifier, b.Escape(date), b.cfg.DateFormat))
}

// CUX returns the order currency segment.
func (b SegmentBuilder) CUX(currency string) string {
	return b.segment("CUX", b.composite(currencyOrder, b.Escape(currency), currencyQualifier))
}

// Header returns UNH, BGM, the date segments and the optional currency.
func (b SegmentBuilder) Header(order *types.Order) []string {
	segments := []string{
		b.UNH(order.MessageRef),
		b.BGM(order.OrderNumber),
		b.DTM(DateQualifierDocument, order.OrderDate),
	}
	if order.DeliveryDate != "" {
		segments = append(segments, b.DTM(DateQualifierDelivery, order.DeliveryDate))
	}
	if order.Currency != "" {
		segments = append(segments, b.CUX(order.Currency))
	}
	return segments
}

// =============================================================================
// PARTY SEGMENTS
// =============================================================================

// NAD returns the name-and-address segment identifying a party.
func (b SegmentBuilder) NAD(qualifier, id string) string {
	return b.segment("NAD", b.Escape(qualifier), b.composite(b.Escape(id), "", partyAgencyEAN))
}

// CTA returns the contact segment for a party name.
func (b SegmentBuilder) CTA(name string) string {
	return b.segment("CTA", contactInfo, b.Escape(name))
}

// COM returns a communication contact on the given channel.
func (b SegmentBuilder) COM(value, channel string) string {
	return b.segment("COM", b.composite(b.Escape(value), channel))
}

// Party returns NAD followed by the optional CTA and COM segments.
func (b SegmentBuilder) Party(p types.Party) []string {
	segments := []string{b.NAD(p.Qualifier, p.ID)}
	if p.Name != "" {
		segments = append(segments, b.CTA(p.Name))
	}
	if p.Address != "" {
		segments = append(segments, b.COM(p.Address, ChannelAddress))
	}
	if p.Contact != "" {
		segments = append(segments, b.COM(p.Contact, ChannelTelephone))
	}
	return segments
}

// =============================================================================
// ITEM SEGMENTS
// =============================================================================

// Item returns LIN, IMD, QTY and PRI for the item on the given line.
func (b SegmentBuilder) Item(line int, it types.Item) []string {
	return []string{
		b.segment("LIN", strconv.Itoa(line), "", b.composite(b.Escape(it.ProductCode), itemNumberEAN)),
		b.segment("IMD", descriptionFree, "", b.composite("", "", "", b.Escape(it.Description))),
		b.segment("QTY", b.composite(quantityOrdered, strconv.FormatInt(it.Quantity, 10), unitEach)),
		b.segment("PRI", b.composite(priceCalculation, b.Amount(it.Price), unitEach)),
	}
}

// =============================================================================
// SUMMARY SEGMENTS
// =============================================================================

// LOC returns the place of delivery.
func (b SegmentBuilder) LOC(location string) string {
	return b.segment("LOC", locationDelivery, b.composite(b.Escape(location), locationAgency))
}

// TOD returns the terms of delivery carrying an Incoterms code.
func (b SegmentBuilder) TOD(incoterms string) string {
	return b.segment("TOD", deliveryTerms, "", b.Escape(incoterms))
}

// PAI returns the payment instructions segment.
func (b SegmentBuilder) PAI(terms string) string {
	return b.segment("PAI", b.composite(b.Escape(terms), paymentTermsCode))
}

// TAX returns the VAT declaration for rate (in percent).
func (b SegmentBuilder) TAX(rate decimal.Decimal) string {
	return b.segment("TAX", taxFunction, taxTypeVAT, "", "", b.composite("", "", "", b.Rate(rate)+"%"))
}

// MOA returns a monetary amount segment.
func (b SegmentBuilder) MOA(qualifier string, amount decimal.Decimal) string {
	return b.segment("MOA", b.composite(qualifier, b.Amount(amount), ""))
}

// FTX returns a free-text instruction segment.
func (b SegmentBuilder) FTX(text string) string {
	return b.segment("FTX", textInstructions, "", "", b.Escape(text))
}

// Optional returns the conditional segments that follow the items, in the
// order LOC, TOD, PAI or DTM+13, TAX + MOA+124, FTX.
func (b SegmentBuilder) Optional(order *types.Order, t totals.Totals) []string {
	var segments []string
	if order.DeliveryLocation != "" {
		segments = append(segments, b.LOC(order.DeliveryLocation))
	}
	if order.Incoterms != "" {
		segments = append(segments, b.TOD(order.Incoterms))
	}
	if order.PaymentTerms != "" {
		if order.PaymentTermsIsDate {
			segments = append(segments, b.DTM(DateQualifierTermsDue, order.PaymentTerms))
		} else {
			segments = append(segments, b.PAI(order.PaymentTerms))
		}
	}
	if t.HasTax {
		segments = append(segments, b.TAX(t.TaxRate), b.MOA(AmountQualifierTax, t.TaxAmount))
	}
	if order.SpecialInstructions != "" {
		segments = append(segments, b.FTX(order.SpecialInstructions))
	}
	return segments
}

// Total returns the total order amount segment.
func (b SegmentBuilder) Total(t totals.Totals) string {
	return b.MOA(AmountQualifierTotal, t.GrandTotal)
}

// UNT returns the message trailer.
func (b SegmentBuilder) UNT(count int, messageRef string) string {
	return b.segment("UNT", strconv.Itoa(count), b.Escape(messageRef))
}
