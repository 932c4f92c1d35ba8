package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gargatun/aerodyne/internal/domain"
)

func TestAuthenticate_PropagatesPrincipal(t *testing.T) {
	t.Parallel()

	var got domain.Courier
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = CourierFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "http://example/deliveries", nil)
	r.Header.Set("X-User-Id", "42")
	r.Header.Set("X-User-Name", "Ivan")
	w := httptest.NewRecorder()

	Authenticate(next).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, ok)
	assert.Equal(t, domain.Courier{ID: 42, Name: "Ivan"}, got)
}

func TestAuthenticate_RejectsBadIdentity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		id   string
	}{
		{name: "missing", id: ""},
		{name: "not a number", id: "abc"},
		{name: "zero", id: "0"},
		{name: "negative", id: "-5"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("next should not be called")
			})

			r := httptest.NewRequest(http.MethodGet, "http://example/deliveries", nil)
			if tc.id != "" {
				r.Header.Set("X-User-Id", tc.id)
			}
			w := httptest.NewRecorder()

			Authenticate(next).ServeHTTP(w, r)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
		})
	}
}

func TestCourierFromContext_Empty(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	_, ok := CourierFromContext(r.Context())
	assert.False(t, ok)
}
