package domain

// TrackingResponse is the normalized envelope returned to the frontend.
// Business outcomes (not found, awaiting dispatch) are expressed through
// Code/Message, never through transport-level errors.
type TrackingResponse struct {
	// Code is 200 for success and 404 when the identifier matched nothing.
	// For tracked orders it is passed through verbatim from the carrier envelope.
	Code int `json:"code"`
	// Message accompanies Code; also passed through verbatim for tracked orders.
	Message *string `json:"message"`
	// Info carries the carrier's order header, when available.
	Info *OrderInfo `json:"info"`
	// ShippingEvents is the deduplicated, mapped customer timeline.
	ShippingEvents []ShippingEvent `json:"shippingevents"`
}

// OrderInfo is the carrier's order header.
type OrderInfo struct {
	ID         string  `json:"id"`
	Number     string  `json:"number"`
	Date       string  `json:"date"`
	Prediction string  `json:"prediction"`
	IDERP      *string `json:"iderp"`
}

// ShippingEvent is a single customer-facing timeline entry.
type ShippingEvent struct {
	// Code is the timeline code from the mapping table.
	Code string `json:"code"`
	// DsCode is the short status title.
	DsCode string `json:"dscode"`
	// Message is the friendly status description.
	Message string `json:"message"`
	// Detail is the carrier's raw event text, passed through.
	Detail string `json:"detalhe"`
	// Complement is the carrier's raw complement text, when present.
	Complement *string `json:"complement"`
	// ShippingDate is the carrier-local event date string, passed through.
	ShippingDate string `json:"dtshipping"`
	// InternalCode is the carrier internal code the event was mapped from.
	InternalCode *int `json:"internalcode"`
}
