package dderr

import "testing"

func TestError_MessageIncludesCode(t *testing.T) {
	err := New(IncompatibleTypeChange, "column %s changed", "x")
	want := "incompatible-type-change: column x changed"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCode_String_UnknownFallback(t *testing.T) {
	var c Code = 999
	if got := c.String(); got != "unknown-error" {
		t.Errorf("got %q, want unknown-error", got)
	}
}
