package config

import "testing"

func TestFromText(t *testing.T) {
	p, err := FromText([]byte("allowRecreateIndexes: true\nallowDropStatements: true\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.AllowRecreateIndexes || !p.AllowDropStatements || p.AllowRecreateConstraints {
		t.Errorf("unexpected policy: %+v", p)
	}
}

func TestFromPath_EmptyPathReturnsDefault(t *testing.T) {
	p, err := FromPath("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.AllowRecreateIndexes || p.AllowRecreateConstraints || p.AllowDropStatements {
		t.Errorf("expected all-false default, got %+v", p)
	}
}
