package diff

import "testing"

func TestDiff_ThreeWaySplit(t *testing.T) {
	left := map[string]string{"a": "1", "b": "2", "c": "3"}
	right := map[string]string{"b": "2", "c": "99", "d": "4"}
	d := Diff(left, right, func(v string) string { return v })

	if len(d.OnlyLeft) != 1 || d.OnlyLeft["a"] != "1" {
		t.Errorf("OnlyLeft = %v, want {a:1}", d.OnlyLeft)
	}
	if len(d.OnlyRight) != 1 || d.OnlyRight["d"] != "4" {
		t.Errorf("OnlyRight = %v, want {d:4}", d.OnlyRight)
	}
	if len(d.Differing) != 1 {
		t.Fatalf("Differing = %v, want 1 entry", d.Differing)
	}
	if d.Differing["c"].Left != "3" || d.Differing["c"].Right != "99" {
		t.Errorf("Differing[c] = %+v, want {3 99}", d.Differing["c"])
	}
	if _, ok := d.Differing["b"]; ok {
		t.Error("b is equal on both sides, should not appear in Differing")
	}
}

func TestDiff_Empty(t *testing.T) {
	d := Diff(map[string]string{"a": "1"}, map[string]string{"a": "1"}, func(v string) string { return v })
	if len(d.OnlyLeft) != 0 || len(d.OnlyRight) != 0 || len(d.Differing) != 0 {
		t.Errorf("expected an empty diff, got %+v", d)
	}
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"z": 1, "a": 2, "m": 3}
	got := SortedKeys(m)
	want := []string{"a", "m", "z"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
