package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("42", 7); got != 42 {
		t.Fatalf("unexpected %d", got)
	}
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault("abc", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("What's EUR/USD doing?")
	want := []string{"what", "s", "eur", "usd", "doing"}
	if len(got) != len(want) {
		t.Fatalf("unexpected tokens %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestTruncateWithMarkerShort(t *testing.T) {
	if got := TruncateWithMarker("hello", 10, "..."); got != "hello" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestTruncateWithMarkerCut(t *testing.T) {
	got := TruncateWithMarker("hello world", 8, "...")
	if got != "hello..." {
		t.Fatalf("unexpected %q", got)
	}
	if len(got) > 8 {
		t.Fatalf("limit exceeded: %d", len(got))
	}
}

func TestTruncateWithMarkerTinyLimit(t *testing.T) {
	got := TruncateWithMarker("hello world", 2, "...")
	if len(got) > 2 {
		t.Fatalf("limit exceeded: %q", got)
	}
}
