package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gift-tracker/internal/features/tracking/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *TPLClient {
	return &TPLClient{
		baseURL: baseURL,
		apiKey:  "apikey_test",
		token:   "secret_test",
		email:   "ops@test.com",
		httpc:   &http.Client{Timeout: 2 * time.Second},
		logger:  zap.NewNop(),
		now:     time.Now,
	}
}

func authOK(w http.ResponseWriter) {
	w.Write([]byte(`{"token":"bearer-123","id":1,"code":200}`))
}

// TestTPLClient_GetOrderDetail_Success verifies the happy path by tracking number.
func TestTPLClient_GetOrderDetail_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get/auth":
			authOK(w)
		case "/get/orderdetail":
			var req tplOrderDetailRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "bearer-123", req.Auth)
			require.NotNil(t, req.Order.Number)
			assert.Equal(t, "ENX8064892-1", *req.Order.Number)
			assert.Nil(t, req.Order.ID)

			w.Write([]byte(`{"code":200,"message":"OK","order":{
				"code":200,"message":"OK",
				"info":{"id":"8064892","number":"ENX8064892-1","date":"10/01/2026","prediction":"15/01/2026","iderp":"PED-2026-001"},
				"shippingevents":[
					{"internalCode":90,"code":"BDE","info":"Objeto entregue ao destinatário","complement":"Entregue para JOANNA","date":"15/01/2026 14:30","final":null,"volume":"1"}
				]}}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	order, err := client.GetOrderDetail(context.Background(), "ENX8064892-1", nil)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, 200, order.Code)
	require.NotNil(t, order.Message)
	assert.Equal(t, "OK", *order.Message)
	require.NotNil(t, order.Info)
	assert.Equal(t, "8064892", order.Info.ID)
	assert.Equal(t, "ENX8064892-1", order.Info.Number)
	require.NotNil(t, order.Info.IDERP)
	assert.Equal(t, "PED-2026-001", *order.Info.IDERP)
	require.Len(t, order.Events, 1)
	require.NotNil(t, order.Events[0].InternalCode)
	assert.Equal(t, 90, *order.Events[0].InternalCode)
}

// TestTPLClient_AuthTokenReused verifies that one auth call serves many lookups.
func TestTPLClient_AuthTokenReused(t *testing.T) {
	var authCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get/auth":
			atomic.AddInt32(&authCalls, 1)
			authOK(w)
		case "/get/orderdetail":
			w.Write([]byte(`{"code":200,"message":"OK","order":{"code":200,"shippingevents":[]}}`))
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	for i := 0; i < 3; i++ {
		_, err := client.GetOrderDetail(context.Background(), "TRACK-1", nil)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&authCalls))
}

// TestTPLClient_AuthTokenRefetchedAfterExpiry verifies exactly one re-fetch
// once the 59-minute window has passed.
func TestTPLClient_AuthTokenRefetchedAfterExpiry(t *testing.T) {
	var authCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get/auth":
			atomic.AddInt32(&authCalls, 1)
			authOK(w)
		case "/get/orderdetail":
			w.Write([]byte(`{"code":200,"message":"OK","order":{"code":200,"shippingevents":[]}}`))
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	current := time.Now()
	client.now = func() time.Time { return current }

	_, err := client.GetOrderDetail(context.Background(), "TRACK-1", nil)
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&authCalls))

	// Still inside the window: no re-fetch.
	current = current.Add(58 * time.Minute)
	_, err = client.GetOrderDetail(context.Background(), "TRACK-1", nil)
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&authCalls))

	// Past the window: exactly one re-fetch before the next carrier call.
	current = current.Add(2 * time.Minute)
	_, err = client.GetOrderDetail(context.Background(), "TRACK-1", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&authCalls))
}

// TestTPLClient_AuthRejected verifies the upstream HTTP status is propagated.
func TestTPLClient_AuthRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"code":403}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetOrderDetail(context.Background(), "TRACK-1", nil)

	ce, ok := ports.AsCarrierError(err)
	require.True(t, ok)
	assert.Equal(t, "auth", ce.Op)
	assert.Equal(t, http.StatusForbidden, ce.Status)
}

// TestTPLClient_AuthNonJSONBody verifies garbled payload detection.
func TestTPLClient_AuthNonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance window</html>"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetOrderDetail(context.Background(), "TRACK-1", nil)

	ce, ok := ports.AsCarrierError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, ce.Status)
	assert.Contains(t, ce.Detail, "maintenance")
}

// TestTPLClient_AuthEmptyBody verifies an empty auth body is a bad gateway.
func TestTPLClient_AuthEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetOrderDetail(context.Background(), "TRACK-1", nil)

	ce, ok := ports.AsCarrierError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, ce.Status)
}

// TestTPLClient_AuthMissingToken verifies a blank token maps the carrier's own
// code (500 is treated as an auth problem, not a server error).
func TestTPLClient_AuthMissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"","code":500}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetOrderDetail(context.Background(), "TRACK-1", nil)

	ce, ok := ports.AsCarrierError(err)
	require.True(t, ok)
	assert.Equal(t, "auth", ce.Op)
	assert.Equal(t, http.StatusUnauthorized, ce.Status)
}

// TestTPLClient_FallbackByOrderID verifies the by-number failure falls back to
// the by-id lookup when an order id is available.
func TestTPLClient_FallbackByOrderID(t *testing.T) {
	var detailCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get/auth":
			authOK(w)
		case "/get/orderdetail":
			atomic.AddInt32(&detailCalls, 1)
			var req tplOrderDetailRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			if req.Order.Number != nil {
				w.Write([]byte(`{"code":404,"message":"order not found"}`))
				return
			}
			require.NotNil(t, req.Order.ID)
			assert.Equal(t, "5511", *req.Order.ID)
			w.Write([]byte(`{"code":200,"message":"OK","order":{"code":200,"message":"OK","shippingevents":[{"internalCode":50,"date":"02/01/2026 09:00"}]}}`))
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	orderID := 5511
	order, err := client.GetOrderDetail(context.Background(), "TRACK-404", &orderID)

	require.NoError(t, err)
	require.NotNil(t, order)
	require.Len(t, order.Events, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&detailCalls))
}

// TestTPLClient_NoFallbackWithoutOrderID verifies the by-number 404 surfaces
// directly when no order id exists, mapped to a NotFound-like carrier error.
func TestTPLClient_NoFallbackWithoutOrderID(t *testing.T) {
	var detailCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get/auth":
			authOK(w)
		case "/get/orderdetail":
			atomic.AddInt32(&detailCalls, 1)
			w.Write([]byte(`{"code":404,"message":"order not found"}`))
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetOrderDetail(context.Background(), "TRACK-404", nil)

	ce, ok := ports.AsCarrierError(err)
	require.True(t, ok)
	assert.Equal(t, "orderdetail", ce.Op)
	assert.Equal(t, http.StatusNotFound, ce.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&detailCalls))
}

// TestTPLClient_BothAttemptsFail_FirstFailureWins verifies the surfaced status
// comes from the by-number attempt, not the by-id one.
func TestTPLClient_BothAttemptsFail_FirstFailureWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get/auth":
			authOK(w)
		case "/get/orderdetail":
			var req tplOrderDetailRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Order.Number != nil {
				w.Write([]byte(`{"code":500,"message":"expired auth"}`))
				return
			}
			w.Write([]byte(`{"code":404,"message":"order not found"}`))
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	orderID := 42
	_, err := client.GetOrderDetail(context.Background(), "TRACK-X", &orderID)

	ce, ok := ports.AsCarrierError(err)
	require.True(t, ok)
	// Carrier 500 is an auth problem per the mapping table.
	assert.Equal(t, http.StatusUnauthorized, ce.Status)
}

// TestTPLClient_OrderDetailNonJSON verifies a garbled order-detail body counts
// as an attempt failure mapped to bad gateway.
func TestTPLClient_OrderDetailNonJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get/auth":
			authOK(w)
		case "/get/orderdetail":
			w.Write([]byte("not json at all"))
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetOrderDetail(context.Background(), "TRACK-1", nil)

	ce, ok := ports.AsCarrierError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, ce.Status)
}

// TestTPLClient_EnvelopePassthrough verifies the order's own code/message
// survive even when they report a carrier-side problem.
func TestTPLClient_EnvelopePassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get/auth":
			authOK(w)
		case "/get/orderdetail":
			w.Write([]byte(`{"code":200,"message":"OK","order":{"code":207,"message":"partial events","shippingevents":[{"internalCode":70,"date":"03/01/2026 10:00"}]}}`))
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	order, err := client.GetOrderDetail(context.Background(), "TRACK-1", nil)

	require.NoError(t, err)
	assert.Equal(t, 207, order.Code)
	require.NotNil(t, order.Message)
	assert.Equal(t, "partial events", *order.Message)
}

// TestTPLClient_Timeout verifies timeouts become a gateway-timeout carrier error.
func TestTPLClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		authOK(w)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.httpc = &http.Client{Timeout: 50 * time.Millisecond}

	_, err := client.GetOrderDetail(context.Background(), "TRACK-1", nil)

	ce, ok := ports.AsCarrierError(err)
	require.True(t, ok)
	assert.True(t, ce.Timeout)
	assert.Equal(t, http.StatusGatewayTimeout, ce.Status)
}

// TestTPLClient_Cancellation verifies caller cancellation propagates as-is,
// never re-labeled as a carrier failure.
func TestTPLClient_Cancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(500 * time.Millisecond)
		authOK(w)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.GetOrderDetail(ctx, "TRACK-1", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	_, isCarrier := ports.AsCarrierError(err)
	assert.False(t, isCarrier)

	// The cache must not hold a token from the aborted call.
	_, ok := client.auth.get(time.Now())
	assert.False(t, ok)
}

// TestLooksLikeJSON covers the first-byte payload check.
func TestLooksLikeJSON(t *testing.T) {
	assert.True(t, looksLikeJSON([]byte(`{"a":1}`)))
	assert.True(t, looksLikeJSON([]byte("  \n\t[1,2]")))
	assert.False(t, looksLikeJSON([]byte("")))
	assert.False(t, looksLikeJSON([]byte("   ")))
	assert.False(t, looksLikeJSON([]byte("<html></html>")))
	assert.False(t, looksLikeJSON([]byte("null")))
}
