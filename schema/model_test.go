package schema

import (
	"testing"

	"github.com/ElizaChat/spanner-schema-diff-tool/ddl"
)

func TestNew_InitializesAllMaps(t *testing.T) {
	s := New()
	if s.Tables == nil || s.Indexes == nil || s.Constraints == nil ||
		s.TTLs == nil || s.ChangeStreams == nil || s.DatabaseOptions == nil {
		t.Fatalf("New() left a nil map: %+v", s)
	}
}

func TestTablesInCreationOrder(t *testing.T) {
	s := New()
	s.TableOrder = []string{"B", "A"}
	s.Tables["A"] = &ddl.CreateTableStatement{TableName: "A"}
	s.Tables["B"] = &ddl.CreateTableStatement{TableName: "B"}

	got := s.TablesInCreationOrder()
	if len(got) != 2 || got[0].TableName != "B" || got[1].TableName != "A" {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestConstraint_CanonicalText(t *testing.T) {
	c := &Constraint{
		TableName: "T",
		Node: &ddl.ConstraintNode{
			Kind:      ddl.ConstraintCheck,
			Name:      "chk_id",
			CheckExpr: "id > 0",
		},
	}
	if c.Name() != "chk_id" {
		t.Errorf("Name() = %q, want chk_id", c.Name())
	}
	want := "CONSTRAINT chk_id CHECK (id > 0)"
	if got := c.CanonicalText(); got != want {
		t.Errorf("CanonicalText() = %q, want %q", got, want)
	}
}
