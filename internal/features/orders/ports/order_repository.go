package ports

import (
	"context"

	"gift-tracker/internal/features/orders/domain"
)

// OrderRepository defines read access to persisted redemption orders.
// This is a Secondary Port (Driven Port).
type OrderRepository interface {
	// FindByIdentifier resolves a raw CPF or e-mail to the most recently
	// updated matching order. Returns (nil, nil) when nothing matches.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Order, error)
}
