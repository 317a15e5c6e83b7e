package types

// EventKind identifies what a generation Event reports.
type EventKind string

const (
	// EventPartySkipped: a party lacked qualifier or id and was left out.
	EventPartySkipped EventKind = "party_skipped"
	// EventItemSkipped: an item lacked a required field and was left out.
	EventItemSkipped EventKind = "item_skipped"
	// EventDateUnchecked: the date-format code has no known layout, so dates
	// were passed through without validation.
	EventDateUnchecked EventKind = "date_unchecked"
	// EventValidated: the document passed validation.
	EventValidated EventKind = "validated"
	// EventGenerated: the message text was produced.
	EventGenerated EventKind = "generated"
	// EventWriteFailed: the sink could not persist the message.
	EventWriteFailed EventKind = "write_failed"
)

// Event is delivered to a Hook while an order is validated and generated.
type Event struct {
	Kind EventKind

	// MessageRef of the document being processed, when known.
	MessageRef string

	// Index is the 1-based position of the party or item concerned, or 0.
	Index int

	// Reason is a short human-readable explanation.
	Reason string

	// Count carries a segment or entity count where one applies.
	Count int
}

// Hook observes generation. It is called synchronously on the generating
// goroutine and must not retain the Event's referenced data.
type Hook func(Event)

// Emit calls h when it is non-nil.
func (h Hook) Emit(e Event) {
	if h != nil {
		h(e)
	}
}
