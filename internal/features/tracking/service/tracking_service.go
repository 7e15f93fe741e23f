package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gift-tracker/internal/core/cache"
	"gift-tracker/internal/core/logger"
	ordersdomain "gift-tracker/internal/features/orders/domain"
	ordersports "gift-tracker/internal/features/orders/ports"
	"gift-tracker/internal/features/tracking/domain"
	"gift-tracker/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// notFoundMessage is shown when neither CPF nor e-mail matches an order.
const notFoundMessage = "CPF ou e-mail não localizado."

// awaitingDispatchInternalCode is the synthetic internal code for orders that
// exist but have no tracking code yet.
const awaitingDispatchInternalCode = 5

// dispatchDateLayout formats the synthesized preparation event's date.
const dispatchDateLayout = "2006-01-02T15:04:05"

// TrackingService resolves a customer identifier to a normalized tracking
// timeline, combining the order repository with the carrier gateway.
type TrackingService struct {
	orders   ordersports.OrderRepository
	carrier  ports.CarrierProvider
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewTrackingService creates a new TrackingService. The cache is optional;
// passing nil disables response caching.
func NewTrackingService(orders ordersports.OrderRepository, carrier ports.CarrierProvider, responseCache cache.Cache, cacheTTL time.Duration) *TrackingService {
	return &TrackingService{
		orders:   orders,
		carrier:  carrier,
		cache:    responseCache,
		cacheTTL: cacheTTL,
		logger:   logger.Get(),
		now:      time.Now,
	}
}

// Resolve looks up the order behind a raw CPF or e-mail and returns its
// customer-facing tracking envelope. Missing orders and not-yet-dispatched
// orders are business outcomes expressed in the envelope, never errors;
// carrier failures propagate as errors.
func (s *TrackingService) Resolve(ctx context.Context, identifier string) (*domain.TrackingResponse, error) {
	order, err := s.orders.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}

	if order == nil {
		return notFoundResponse(), nil
	}

	if !order.HasTrackingCode() {
		return s.awaitingDispatchResponse(order), nil
	}

	trackingCode := strings.TrimSpace(*order.TrackingCode)

	if cached := s.cachedResponse(ctx, trackingCode); cached != nil {
		return cached, nil
	}

	carrierOrder, err := s.carrier.GetOrderDetail(ctx, trackingCode, &order.RedemptionID)
	if err != nil {
		return nil, err
	}

	response := s.buildTimeline(carrierOrder)
	s.storeResponse(ctx, trackingCode, response)

	return response, nil
}

// buildTimeline converts a carrier order into the customer envelope: unmapped
// events are dropped, repeats of the same internal code keep only their first
// occurrence in carrier order, and the envelope code/message pass through.
func (s *TrackingService) buildTimeline(order *domain.CarrierOrder) *domain.TrackingResponse {
	response := &domain.TrackingResponse{
		Code:           order.Code,
		Message:        order.Message,
		Info:           order.Info,
		ShippingEvents: []domain.ShippingEvent{},
	}

	seen := make(map[int]bool, len(order.Events))
	for _, event := range order.Events {
		status := domain.MapInternalCode(event.InternalCode)
		if status == nil {
			s.logger.Warn("Dropping unmapped shipping event",
				zap.Any("internal_code", event.InternalCode),
				zap.String("description", domain.InternalCodeDescription(event.InternalCode)),
			)
			continue
		}

		if seen[*event.InternalCode] {
			continue
		}
		seen[*event.InternalCode] = true

		response.ShippingEvents = append(response.ShippingEvents, domain.ShippingEvent{
			Code:         status.Code,
			DsCode:       status.Title,
			Message:      status.Message,
			Detail:       derefString(event.Info),
			Complement:   event.Complement,
			ShippingDate: derefString(event.Date),
			InternalCode: event.InternalCode,
		})
	}

	return response
}

// awaitingDispatchResponse synthesizes the single preparation event shown
// while the order has no tracking code. Its date is the registration
// timestamp when known, otherwise now.
func (s *TrackingService) awaitingDispatchResponse(order *ordersdomain.Order) *domain.TrackingResponse {
	registered := s.now()
	if order.RegisteredAt != nil {
		registered = *order.RegisteredAt
	}

	status := domain.PreparationStatus()
	internalCode := awaitingDispatchInternalCode
	message := "OK"

	return &domain.TrackingResponse{
		Code:    200,
		Message: &message,
		Info:    &domain.OrderInfo{},
		ShippingEvents: []domain.ShippingEvent{
			{
				Code:         status.Code,
				DsCode:       status.Title,
				Message:      status.Message,
				ShippingDate: registered.UTC().Format(dispatchDateLayout),
				InternalCode: &internalCode,
			},
		},
	}
}

// notFoundResponse is the envelope for identifiers matching no order.
func notFoundResponse() *domain.TrackingResponse {
	message := notFoundMessage
	return &domain.TrackingResponse{
		Code:           404,
		Message:        &message,
		Info:           &domain.OrderInfo{},
		ShippingEvents: []domain.ShippingEvent{{}},
	}
}

// cachedResponse returns a previously stored envelope for the tracking code,
// or nil on miss. Cache failures are logged and treated as misses.
func (s *TrackingService) cachedResponse(ctx context.Context, trackingCode string) *domain.TrackingResponse {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, cacheKey(trackingCode))
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.logger.Warn("Tracking cache read failed", zap.String("tracking_code", trackingCode), zap.Error(err))
		}
		return nil
	}

	var response domain.TrackingResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		s.logger.Warn("Tracking cache entry corrupted", zap.String("tracking_code", trackingCode), zap.Error(err))
		return nil
	}

	return &response
}

// storeResponse caches a successful envelope. Failures only log; the caller
// already has the response.
func (s *TrackingService) storeResponse(ctx context.Context, trackingCode string, response *domain.TrackingResponse) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(response)
	if err != nil {
		s.logger.Warn("Tracking cache encode failed", zap.String("tracking_code", trackingCode), zap.Error(err))
		return
	}

	if err := s.cache.Set(ctx, cacheKey(trackingCode), raw, s.cacheTTL); err != nil {
		s.logger.Warn("Tracking cache write failed", zap.String("tracking_code", trackingCode), zap.Error(err))
	}
}

func cacheKey(trackingCode string) string {
	return "tracking:" + trackingCode
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
