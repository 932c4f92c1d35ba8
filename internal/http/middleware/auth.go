package middleware

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gargatun/aerodyne/internal/domain"
)

type principalKey struct{}

// Authenticate extracts the courier identity from request headers. The
// identity is issued upstream by the auth gateway, here we only trust and
// parse it: X-User-Id is required, X-User-Name is optional.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-Id")
		id, err := strconv.ParseInt(raw, 10, 64)
		if raw == "" || err != nil || id <= 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"unauthorized"}`)
			return
		}
		c := domain.Courier{ID: id, Name: r.Header.Get("X-User-Name")}
		ctx := context.WithValue(r.Context(), principalKey{}, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ContextWithCourier returns ctx carrying c as the authenticated principal.
func ContextWithCourier(ctx context.Context, c domain.Courier) context.Context {
	return context.WithValue(ctx, principalKey{}, c)
}

// CourierFromContext returns the authenticated courier, if any.
func CourierFromContext(ctx context.Context) (domain.Courier, bool) {
	c, ok := ctx.Value(principalKey{}).(domain.Courier)
	return c, ok
}
