package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("expected max limit, got %d", got)
	}
	if got := NormalizeLimit(15); got != 15 {
		t.Fatalf("expected passthrough, got %d", got)
	}
	if got := LimitWithBuffer(15); got != 16 {
		t.Fatalf("expected buffered limit 16, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	original := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 123456789, time.UTC),
		ID:        uuid.New(),
	}

	encoded := EncodeCursor(original)
	parsed, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if parsed == nil {
		t.Fatalf("expected cursor, got nil")
	}
	if !parsed.CreatedAt.Equal(original.CreatedAt) || parsed.ID != original.ID {
		t.Fatalf("cursor mismatch: %+v vs %+v", parsed, original)
	}
}

func TestParseCursorEdgeCases(t *testing.T) {
	t.Parallel()

	if cursor, err := ParseCursor("  "); err != nil || cursor != nil {
		t.Fatalf("expected nil cursor for blank input, got %+v err=%v", cursor, err)
	}
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
	if _, err := ParseCursor("aGVsbG8="); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
