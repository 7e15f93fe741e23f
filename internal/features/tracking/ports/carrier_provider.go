package ports

import (
	"context"
	"errors"
	"fmt"

	"gift-tracker/internal/features/tracking/domain"
)

// CarrierProvider defines the interface for the upstream TPL carrier API.
// This is a Secondary Port (Driven Port).
type CarrierProvider interface {
	// GetOrderDetail fetches the raw order info and shipment events for a
	// tracking number, falling back to the internal order id when provided.
	// Failures are reported as *CarrierError; caller cancellation propagates
	// as the context error instead.
	GetOrderDetail(ctx context.Context, trackingNumber string, orderID *int) (*domain.CarrierOrder, error)
}

// CarrierError describes an upstream carrier failure, normalized to an
// HTTP-like status.
type CarrierError struct {
	// Op is the carrier operation that failed ("auth" or "orderdetail").
	Op string
	// Status is the HTTP-like status: 404 order unknown upstream, 401 carrier
	// auth problem, 400 bad request, 502 protocol/credential failure,
	// 504 timeout.
	Status int
	// Timeout marks network timeouts, distinguished from caller cancellation.
	Timeout bool
	// Detail is a diagnostic snippet (e.g., the start of a non-JSON body).
	// Never exposed to end users.
	Detail string
}

// Error implements the error interface.
func (e *CarrierError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("tpl %s failed (status %d): %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("tpl %s failed (status %d)", e.Op, e.Status)
}

// AsCarrierError unwraps err into a *CarrierError when possible.
func AsCarrierError(err error) (*CarrierError, bool) {
	var ce *CarrierError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
