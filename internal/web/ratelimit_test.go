package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	for i, want := range []bool{true, true, false} {
		if got := rl.allow("a"); got != want {
			t.Errorf("request %d allowed = %v, want %v", i+1, got, want)
		}
	}
	if !rl.allow("b") {
		t.Error("separate client was limited")
	}

	clock = clock.Add(time.Minute + time.Second)
	if !rl.allow("a") {
		t.Error("client still limited after the window passed")
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	rl.stop()
	rl.stop()
}

func TestClientIP(t *testing.T) {
	tests := map[string]string{
		"192.0.2.1:5678":   "192.0.2.1",
		"[2001:db8::1]:80": "2001:db8::1",
		"203.0.113.9":      "203.0.113.9",
	}
	for addr, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		if got := clientIP(req); got != want {
			t.Errorf("clientIP(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	handler := rl.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
		req.RemoteAddr = addr
		handler.ServeHTTP(rec, req)
		return rec
	}

	// Same host on different ports shares a budget.
	assert.Equal(t, http.StatusOK, send("1.2.3.4:1000").Code)
	assert.Equal(t, http.StatusOK, send("1.2.3.4:2000").Code)

	rec := send("1.2.3.4:3000")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "RATE001", body.Code)
	assert.NotEmpty(t, body.Message)

	assert.Equal(t, http.StatusOK, send("5.6.7.8:1000").Code, "other clients are unaffected")
}
