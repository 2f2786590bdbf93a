package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestAuthRateLimitBlocksAfterIPLimit(t *testing.T) {
	t.Parallel()

	store := &stubCounterStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, store, nil)(okHandler())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, loginRequest(""))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d should pass, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, loginRequest(""))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", w.Code)
	}
}

func TestAuthRateLimitBlocksAfterEmailLimit(t *testing.T) {
	t.Parallel()

	store := &stubCounterStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)
	handler := AuthRateLimit(policy, store, nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, loginRequest("asha@example.com"))
	if w.Code != http.StatusOK {
		t.Fatalf("first attempt should pass, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, loginRequest("ASHA@example.com"))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("case-variant email must hit the same counter, got %d", w.Code)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	t.Parallel()

	policy := NewAuthRateLimitPolicy("login", 0, 0, 0)
	handler := AuthRateLimit(policy, &stubCounterStore{}, nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, loginRequest("asha@example.com"))
	if w.Code != http.StatusOK {
		t.Fatalf("disabled policy must not block, got %d", w.Code)
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func loginRequest(email string) *http.Request {
	body := "{}"
	if email != "" {
		body = `{"email":"` + email + `","password":"pw"}`
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.RemoteAddr = "203.0.113.7:51234"
	return req
}

type stubCounterStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (s *stubCounterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[key]++
	return s.counts[key], nil
}
