package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAuthJWTAllowsValidBearer(t *testing.T) {
	secret := "test-secret"
	token, err := SignToken(secret, "user-1", time.Hour)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}

	var gotUser string
	handler := AuthJWT(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotUser != "user-1" {
		t.Fatalf("user id = %q, want %q", gotUser, "user-1")
	}
}

func TestAuthJWTRejects(t *testing.T) {
	secret := "test-secret"
	expired, err := SignToken(secret, "user-1", -time.Minute)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}
	wrongKey, err := SignToken("other-secret", "user-1", time.Hour)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-token"},
		{name: "expired token", header: "Bearer " + expired},
		{name: "wrong key", header: "Bearer " + wrongKey},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := AuthJWT(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if called {
				t.Fatal("handler was called for rejected request")
			}
		})
	}
}
