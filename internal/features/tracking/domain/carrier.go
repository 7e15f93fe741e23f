package domain

// CarrierOrder is the raw order detail returned by the carrier, before any
// timeline mapping. Code and Message come from the carrier's own envelope.
type CarrierOrder struct {
	// Code is the carrier's order-level status code (200 on success).
	Code int
	// Message is the carrier's order-level message.
	Message *string
	// Info is the order header, absent on some carrier errors.
	Info *OrderInfo
	// Events is the raw shipment event list, possibly containing duplicates
	// and codes outside the timeline table.
	Events []CarrierEvent
}

// CarrierEvent is a raw shipment event as reported by the carrier.
type CarrierEvent struct {
	// InternalCode is the carrier's proprietary numeric status code.
	InternalCode *int
	// Code is the carrier's public event code, unused by the timeline.
	Code *string
	// Info is the free-text event description.
	Info *string
	// Complement is additional free text (e.g., receiver name).
	Complement *string
	// Date is the event date in the carrier's local string format.
	Date *string
	// Final is the optional completion date.
	Final *string
	// Volume identifies the package volume the event belongs to.
	Volume *string
}
