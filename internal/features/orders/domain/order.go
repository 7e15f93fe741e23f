package domain

import (
	"strings"
	"time"
)

// Order represents a gift-redemption order together with its latest shipment record.
type Order struct {
	// RedemptionID is the internal id of the redemption (id_resgate).
	RedemptionID int `json:"redemption_id"`
	// CPF is the customer's tax id, digits only.
	CPF string `json:"cpf"`
	// Email is the customer's e-mail address.
	Email string `json:"email"`
	// TrackingCode is the carrier tracking code. Nil until the order is dispatched.
	TrackingCode *string `json:"tracking_code"`
	// PredictedDelivery is the delivery date promised at redemption time.
	PredictedDelivery *time.Time `json:"predicted_delivery"`
	// RegisteredAt is when the shipment record (or the redemption, if no
	// shipment exists yet) was created.
	RegisteredAt *time.Time `json:"registered_at"`
	// UpdatedAt is the last update timestamp of the record.
	UpdatedAt *time.Time `json:"updated_at"`
}

// HasTrackingCode reports whether the order has been dispatched.
func (o *Order) HasTrackingCode() bool {
	return o.TrackingCode != nil && strings.TrimSpace(*o.TrackingCode) != ""
}
