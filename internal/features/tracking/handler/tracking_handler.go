package handler

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"gift-tracker/internal/core/logger"
	"gift-tracker/internal/features/tracking/ports"
	"gift-tracker/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// carrierUnavailableMessage is shown whenever the TPL carrier cannot answer.
const carrierUnavailableMessage = "TPL indisponível."

// statusClientClosedRequest mirrors nginx's code for callers that hung up.
const statusClientClosedRequest = 499

// TrackingHandler handles HTTP requests for tracking operations.
type TrackingHandler struct {
	trackingService *service.TrackingService
	logger          *zap.Logger
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
		logger:          logger.Get(),
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// GetTracking godoc
// @Summary Get the shipment timeline for a redemption order
// @Description Resolves a CPF or e-mail to its latest gift-redemption order and returns the normalized shipment timeline. The envelope code is 404 when the identifier matches no order and 200 otherwise.
// @Tags tracking
// @Accept json
// @Produce json
// @Param identifier path string true "Customer CPF (digits, dots and dashes accepted) or e-mail"
// @Success 200 {object} domain.TrackingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} domain.TrackingResponse
// @Failure 502 {object} ErrorResponse
// @Router /tracking/{identifier} [get]
func (h *TrackingHandler) GetTracking(c *fiber.Ctx) error {
	identifier, err := url.PathUnescape(c.Params("identifier"))
	if err != nil {
		identifier = c.Params("identifier")
	}

	if strings.TrimSpace(identifier) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "identifier is required",
			RayID:   rayID(c),
		})
	}

	response, err := h.trackingService.Resolve(c.UserContext(), identifier)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			h.logger.Debug("Tracking request canceled by caller", zap.String("ray_id", rayID(c)))
			return c.SendStatus(statusClientClosedRequest)
		}

		if ce, ok := ports.AsCarrierError(err); ok {
			h.logger.Error("TPL carrier failure",
				zap.String("ray_id", rayID(c)),
				zap.String("op", ce.Op),
				zap.Int("carrier_status", ce.Status),
				zap.Bool("timeout", ce.Timeout),
			)
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
				Message: carrierUnavailableMessage,
				RayID:   rayID(c),
			})
		}

		h.logger.Error("Tracking resolution failed", zap.String("ray_id", rayID(c)), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}

	// Business outcomes reuse the envelope code as the HTTP status, so a
	// not-found identifier answers 404 with a regular envelope body.
	return c.Status(response.Code).JSON(response)
}

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
