package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"gift-tracker/internal/core/config"
	"gift-tracker/internal/core/httpclient"
	"gift-tracker/internal/core/logger"
	"gift-tracker/internal/features/tracking/domain"
	"gift-tracker/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// authTokenTTL is deliberately below the carrier's documented one hour so a
// cached token is never presented close to its real expiry.
const authTokenTTL = 59 * time.Minute

// maxDiagnosticBytes bounds the raw snippet kept on protocol errors.
const maxDiagnosticBytes = 200

// TPLClient implements ports.CarrierProvider against the TPL carrier API.
type TPLClient struct {
	baseURL string
	apiKey  string
	token   string
	email   string
	httpc   *http.Client
	logger  *zap.Logger

	auth tokenCache
	now  func() time.Time
}

// NewTPLClient creates a new TPLClient from the carrier configuration.
func NewTPLClient(cfg config.TPLConfig) *TPLClient {
	return &TPLClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		token:   cfg.Token,
		email:   cfg.Email,
		httpc:   httpclient.NewClient(time.Duration(cfg.TimeoutSeconds) * time.Second),
		logger:  logger.Get(),
		now:     time.Now,
	}
}

// tokenCache owns the shared bearer token. Concurrent cache misses may each
// fetch a token; the last writer wins and every stored token is complete, so
// readers never observe a partial or expired credential.
type tokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// get returns the cached token if it is still valid at the given instant.
func (c *tokenCache) get(now time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" || !now.Before(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

// set stores a freshly acquired token and its expiry.
func (c *tokenCache) set(token string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.expiresAt = expiresAt
}

// carrier wire shapes

type tplAuthRequest struct {
	APIKey string `json:"apikey"`
	Token  string `json:"token"`
	Email  string `json:"email"`
}

type tplAuthResponse struct {
	Token *string `json:"token"`
	ID    *int    `json:"id"`
	Code  *int    `json:"code"`
}

type tplOrderRef struct {
	Number *string `json:"number,omitempty"`
	ID     *string `json:"id,omitempty"`
}

type tplOrderDetailRequest struct {
	Auth  string      `json:"auth"`
	Order tplOrderRef `json:"order"`
}

type tplOrderDetailResponse struct {
	Code    int       `json:"code"`
	Message *string   `json:"message"`
	Order   *tplOrder `json:"order"`
}

type tplOrder struct {
	Code           *int               `json:"code"`
	Message        *string            `json:"message"`
	Info           *tplOrderInfo      `json:"info"`
	ShippingEvents []tplShippingEvent `json:"shippingevents"`
}

type tplOrderInfo struct {
	ID         *string `json:"id"`
	Number     *string `json:"number"`
	Date       *string `json:"date"`
	Prediction *string `json:"prediction"`
	IDERP      *string `json:"iderp"`
}

type tplShippingEvent struct {
	InternalCode *int    `json:"internalCode"`
	Code         *string `json:"code"`
	Info         *string `json:"info"`
	Complement   *string `json:"complement"`
	Date         *string `json:"date"`
	Final        *string `json:"final"`
	Volume       *string `json:"volume"`
}

// GetOrderDetail fetches order info and shipment events, trying the tracking
// number first and retrying once by internal order id when supplied. When both
// attempts fail, the first attempt's carrier code decides the surfaced status.
func (c *TPLClient) GetOrderDetail(ctx context.Context, trackingNumber string, orderID *int) (*domain.CarrierOrder, error) {
	auth, err := c.ensureAuth(ctx)
	if err != nil {
		return nil, err
	}

	order, numberFailCode, err := c.postOrderDetail(ctx, auth, tplOrderRef{Number: &trackingNumber})
	if err != nil {
		return nil, err
	}

	if order == nil && orderID != nil {
		id := strconv.Itoa(*orderID)
		var idOrder *tplOrder
		idOrder, _, err = c.postOrderDetail(ctx, auth, tplOrderRef{ID: &id})
		if err != nil {
			return nil, err
		}
		order = idOrder
	}

	if order == nil {
		c.logger.Warn("TPL order detail failed",
			zap.String("tracking_number", trackingNumber),
			zap.Int("carrier_code", numberFailCode),
		)
		return nil, &ports.CarrierError{Op: "orderdetail", Status: mapCarrierStatus(numberFailCode)}
	}

	return convertOrder(order), nil
}

// postOrderDetail performs a single /get/orderdetail attempt. A nil order with
// a nil error means a recoverable attempt failure; failCode then carries the
// carrier code of the failure (HTTP status, 502 for protocol errors, or the
// envelope's own code).
func (c *TPLClient) postOrderDetail(ctx context.Context, auth string, ref tplOrderRef) (*tplOrder, int, error) {
	body, resp, err := c.post(ctx, "/get/orderdetail", tplOrderDetailRequest{Auth: auth, Order: ref}, "orderdetail")
	if err != nil {
		return nil, 0, err
	}

	if resp.StatusCode/100 != 2 {
		return nil, resp.StatusCode, nil
	}

	if !looksLikeJSON(body) {
		return nil, http.StatusBadGateway, nil
	}

	var payload tplOrderDetailResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, http.StatusBadGateway, nil
	}

	if payload.Code != 200 || payload.Order == nil {
		return nil, payload.Code, nil
	}

	return payload.Order, 200, nil
}

// ensureAuth returns a valid bearer token, fetching one when the cache is
// empty or expired. The cache is only written after a fully successful auth
// call, so cancellation mid-flight never leaves partial state behind.
func (c *TPLClient) ensureAuth(ctx context.Context) (string, error) {
	if token, ok := c.auth.get(c.now()); ok {
		return token, nil
	}

	reqBody := tplAuthRequest{APIKey: c.apiKey, Token: c.token, Email: c.email}
	body, resp, err := c.post(ctx, "/get/auth", reqBody, "auth")
	if err != nil {
		return "", err
	}

	if resp.StatusCode/100 != 2 {
		return "", &ports.CarrierError{
			Op:     "auth",
			Status: resp.StatusCode,
			Detail: snippet(body),
		}
	}

	if !looksLikeJSON(body) {
		return "", &ports.CarrierError{
			Op:     "auth",
			Status: http.StatusBadGateway,
			Detail: snippet(body),
		}
	}

	var authResp tplAuthResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		return "", &ports.CarrierError{
			Op:     "auth",
			Status: http.StatusBadGateway,
			Detail: snippet(body),
		}
	}

	if authResp.Token == nil || *authResp.Token == "" {
		status := http.StatusBadGateway
		if authResp.Code != nil {
			status = mapCarrierStatus(*authResp.Code)
		}
		return "", &ports.CarrierError{Op: "auth", Status: status, Detail: "auth response carried no token"}
	}

	token := *authResp.Token
	c.auth.set(token, c.now().Add(authTokenTTL))
	c.logger.Debug("TPL auth token refreshed")

	return token, nil
}

// post sends a JSON body and fully reads the response, classifying transport
// failures: caller cancellation propagates untouched, timeouts become a 504
// CarrierError, anything else a 502.
func (c *TPLClient) post(ctx context.Context, path string, payload interface{}, op string) ([]byte, *http.Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, nil, c.classifyTransportError(ctx, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, c.classifyTransportError(ctx, op, err)
	}

	return body, resp, nil
}

// classifyTransportError separates caller cancellation from timeouts and
// other network failures.
func (c *TPLClient) classifyTransportError(ctx context.Context, op string, err error) error {
	if ctx.Err() == context.Canceled {
		return ctx.Err()
	}

	var netErr net.Error
	timedOut := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout())

	if timedOut {
		return &ports.CarrierError{
			Op:      op,
			Status:  http.StatusGatewayTimeout,
			Timeout: true,
			Detail:  err.Error(),
		}
	}

	return &ports.CarrierError{
		Op:     op,
		Status: http.StatusBadGateway,
		Detail: err.Error(),
	}
}

// mapCarrierStatus maps a carrier-reported code to the HTTP-like status the
// rest of the system reasons about. Carrier 500s are credential problems on
// their side, not real server errors.
func mapCarrierStatus(carrierCode int) int {
	switch carrierCode {
	case 404:
		return http.StatusNotFound
	case 500:
		return http.StatusUnauthorized
	case 400, 402:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// convertOrder maps the wire order into the domain shape, defaulting the
// envelope code to 200 when the carrier omits it.
func convertOrder(order *tplOrder) *domain.CarrierOrder {
	out := &domain.CarrierOrder{
		Code:    200,
		Message: order.Message,
	}
	if order.Code != nil {
		out.Code = *order.Code
	}

	if order.Info != nil {
		out.Info = &domain.OrderInfo{
			ID:         deref(order.Info.ID),
			Number:     deref(order.Info.Number),
			Date:       deref(order.Info.Date),
			Prediction: deref(order.Info.Prediction),
			IDERP:      order.Info.IDERP,
		}
	}

	for _, e := range order.ShippingEvents {
		out.Events = append(out.Events, domain.CarrierEvent{
			InternalCode: e.InternalCode,
			Code:         e.Code,
			Info:         e.Info,
			Complement:   e.Complement,
			Date:         e.Date,
			Final:        e.Final,
			Volume:       e.Volume,
		})
	}

	return out
}

// looksLikeJSON reports whether the first non-whitespace byte opens a JSON
// object or array. Empty bodies fail the check.
func looksLikeJSON(body []byte) bool {
	for _, b := range body {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '[':
			return true
		default:
			return false
		}
	}
	return false
}

// snippet truncates a raw body for diagnostics.
func snippet(body []byte) string {
	if len(body) > maxDiagnosticBytes {
		body = body[:maxDiagnosticBytes]
	}
	return string(body)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
