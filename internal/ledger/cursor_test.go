package ledger

import (
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	encoded := encodeCursor(created, "3d1f3a1e-0a50-4e19-92a6-52f3f3f7a001")

	decoded, ok := decodeCursor(encoded)
	if !ok {
		t.Fatalf("round trip failed to decode")
	}
	if !decoded.CreatedAt.Equal(created) {
		t.Fatalf("timestamp mismatch: %v != %v", decoded.CreatedAt, created)
	}
	if decoded.ID != "3d1f3a1e-0a50-4e19-92a6-52f3f3f7a001" {
		t.Fatalf("id mismatch: %s", decoded.ID)
	}
}

func TestCursorMalformedIsIgnored(t *testing.T) {
	cases := []string{
		"",
		"not-base64!!",
		"bm90LWpzb24",         // base64("not-json")
		"e30",                 // base64("{}") lacks both fields
		"eyJpZCI6ImFiYyJ9",    // id only, zero timestamp
	}
	for _, c := range cases {
		if _, ok := decodeCursor(c); ok {
			t.Fatalf("cursor %q should be rejected", c)
		}
	}
}
