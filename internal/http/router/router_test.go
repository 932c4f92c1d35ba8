package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gargatun/aerodyne/internal/http/handlers"
	"github.com/gargatun/aerodyne/internal/http/middleware/ratelimit"
	"github.com/gargatun/aerodyne/internal/http/router"
	"github.com/gargatun/aerodyne/internal/logx"
)

func newTestRouter() http.Handler {
	logger := logx.Nop()
	return router.New(
		logger,
		handlers.New(logger),
		handlers.NewDeliveryHandler(logger, nil, nil, nil, nil),
		handlers.NewCatalogHandlers(logger, nil),
		handlers.NewProfileHandler(logger, nil, nil),
		ratelimit.New(logger, nil, nil),
	)
}

func TestRouter_Ping(t *testing.T) {
	t.Parallel()

	h := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message": "pong"}`, rr.Body.String())
}

func TestRouter_HealthcheckHead(t *testing.T) {
	t.Parallel()

	h := newTestRouter()

	req := httptest.NewRequest(http.MethodHead, "/healthcheck", nil)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	h := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	t.Parallel()

	h := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/no-such-route", nil)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error": "route not found"}`, rr.Body.String())
}

func TestRouter_ProtectedRoutesRequireIdentity(t *testing.T) {
	t.Parallel()

	h := newTestRouter()

	paths := []string{"/deliveries", "/profile", "/statuses", "/transport-models"}
	for _, p := range paths {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, p)
	}
}
