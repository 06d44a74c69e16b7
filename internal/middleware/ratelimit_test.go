package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware_GeneralBudget(t *testing.T) {
	mw := NewRateLimitMiddleware(100, 1)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw.Handler(nextHandler)

	// Task traffic stays on the general limiter and is not throttled by the
	// tight auth budget.
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("GET", "/api/tasks", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("Request %d failed with status %d", i, rec.Code)
		}
	}
}

func TestRateLimitMiddleware_TightAuthBudget(t *testing.T) {
	mw := NewRateLimitMiddleware(100, 1)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw.Handler(nextHandler)

	// Burst of 1: the first login attempt consumes the only token, the
	// second is rejected immediately.
	req1 := httptest.NewRequest("POST", "/api/auth/login", nil)
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, req1)
	assert.Equal(t, http.StatusOK, rec1.Code)

	req2 := httptest.NewRequest("POST", "/api/auth/login", nil)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
}

func TestRateLimitMiddleware_UserListingIsNotAuthTraffic(t *testing.T) {
	assert.False(t, isAuthPath("/api/auth/users"))
	assert.True(t, isAuthPath("/api/auth/login"))
	assert.True(t, isAuthPath("/api/auth/refresh"))
	assert.True(t, isAuthPath("/api/auth/register"))
}

func TestRateLimitMiddleware_Defaults(t *testing.T) {
	mw := NewRateLimitMiddleware(-1, 0)
	assert.Equal(t, 100, mw.generalRPM)
	assert.Equal(t, 10, mw.authRPM)
}
