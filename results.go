package abacus

// CheckResult is what a handler reports back when the dry run of a
// transaction succeeds.
type CheckResult struct {
	// Data is the machine readable part of the response, for example
	// the id of a created entity.
	Data []byte

	// Log is free form text for humans.
	Log string

	// GasAllocated caps the work units this transaction may perform.
	GasAllocated int64

	// GasPayment is what the transaction offers to pay for the work.
	GasPayment int64

	// Events describe what the processing would observably do. They are
	// dropped by the engine, check is read-only.
	Events []Event
}

// NewCheckResult bundles a minimal CheckResult with the allowed work units.
func NewCheckResult(gasAllocated int64) *CheckResult {
	return &CheckResult{GasAllocated: gasAllocated}
}

// DeliverResult is what a handler reports back when the execution of a
// transaction succeeds.
type DeliverResult struct {
	// Data is the machine readable part of the response, for example
	// the id of a created entity.
	Data []byte

	// Log is free form text for humans.
	Log string

	// GasUsed is the work units the execution actually consumed.
	GasUsed int64

	// Events describe what the processing observably did, in emission
	// order. After a successful commit the engine feeds them to every
	// subscribed sink; the order and completeness of the stream is part of
	// the contract.
	Events []Event
}

// Event is a single observable fact about a processed transaction, described
// by a type and a flat list of attributes.
type Event struct {
	Type       string
	Attributes []Attribute
}

// Attribute is a single key/value descriptor of an Event.
type Attribute struct {
	Key   string
	Value string
}

// NewEvent constructs an event from a type and key/value pairs.
// Panics on an odd number of pair arguments, this is a programmer error.
func NewEvent(typ string, pairs ...string) Event {
	if len(pairs)%2 != 0 {
		panic("event attributes must come in key/value pairs")
	}
	attrs := make([]Attribute, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		attrs = append(attrs, Attribute{Key: pairs[i], Value: pairs[i+1]})
	}
	return Event{Type: typ, Attributes: attrs}
}

// AttributeValue returns the value of the first attribute registered under
// given key, or an empty string if the event carries no such attribute.
func (ev Event) AttributeValue(key string) string {
	for _, attr := range ev.Attributes {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}
