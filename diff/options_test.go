package diff

import "testing"

func TestDiffOptions_CanonicalForm(t *testing.T) {
	old := map[string]string{"a": "'1'", "b": "'2'"}
	new := map[string]string{"b": "'3'", "c": "'4'"}

	got := DiffOptions(old, new).CanonicalText()
	want := "a=NULL, b='3', c='4'"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDiffOptions_EmptyWhenNoChange(t *testing.T) {
	same := map[string]string{"a": "'1'"}
	d := DiffOptions(same, same)
	if !d.Empty() {
		t.Errorf("expected an empty diff, got %+v", d)
	}
	if d.CanonicalText() != "" {
		t.Errorf("expected empty canonical text, got %q", d.CanonicalText())
	}
}
