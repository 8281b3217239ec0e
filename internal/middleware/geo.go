package middleware

import (
	"context"
	"net/http"

	"server/internal/infra/geoip"
)

type countryKey string

const requestCountryKey countryKey = "request_country"

// Geo tags each request with the caller's ISO country code, resolved from the
// client IP. Lookup is best effort; requests without a resolvable country pass
// through untagged.
func Geo(resolver geoip.CountryResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if code := geoip.Lookup(resolver, clientIP(r)); code != "" {
				ctx := context.WithValue(r.Context(), requestCountryKey, code)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CountryFromContext returns the country code tagged by Geo, or "".
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestCountryKey).(string); ok {
		return v
	}
	return ""
}
