package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestClientSessionIssuesIDWhenMissing(t *testing.T) {
	t.Parallel()

	var seen string
	handler := ClientSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClientSessionFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatalf("expected an issued client session id")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("issued id is not a uuid: %v", err)
	}
	if got := w.Header().Get("X-Client-Session"); got != seen {
		t.Fatalf("expected echoed header %q, got %q", seen, got)
	}
}

func TestClientSessionPreservesValidHeader(t *testing.T) {
	t.Parallel()

	id := uuid.NewString()
	var seen string
	handler := ClientSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClientSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Client-Session", id)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != id {
		t.Fatalf("expected %q to flow through, got %q", id, seen)
	}
}

func TestClientSessionReplacesMalformedHeader(t *testing.T) {
	t.Parallel()

	var seen string
	handler := ClientSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClientSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Client-Session", "not-a-uuid")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen == "not-a-uuid" {
		t.Fatalf("malformed id must be replaced")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("replacement id is not a uuid: %v", err)
	}
}
