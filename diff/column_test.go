package diff

import (
	"testing"

	"github.com/ElizaChat/spanner-schema-diff-tool/ddl"
)

func strType(name, length string) *ddl.ColumnType {
	return &ddl.ColumnType{Name: name, Length: length}
}

func table(name string, pk []string, cols ...*ddl.ColumnDef) *ddl.CreateTableStatement {
	return &ddl.CreateTableStatement{TableName: name, PrimaryKey: pk, Columns: cols}
}

func TestColumnStatements_AddedColumn(t *testing.T) {
	original := table("T", []string{"id"}, &ddl.ColumnDef{Name: "id", Type: strType("INT64", "")})
	updated := table("T", []string{"id"},
		&ddl.ColumnDef{Name: "id", Type: strType("INT64", "")},
		&ddl.ColumnDef{Name: "name", Type: strType("STRING", "100")},
	)
	stmts, err := ColumnStatements(original, updated, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"ALTER TABLE T ADD COLUMN name STRING(100)"}
	assertStmts(t, stmts, want)
}

func TestColumnStatements_LengthChangeInPlace(t *testing.T) {
	original := table("T", []string{"id"},
		&ddl.ColumnDef{Name: "id", Type: strType("INT64", "")},
		&ddl.ColumnDef{Name: "name", Type: strType("STRING", "100")},
	)
	updated := table("T", []string{"id"},
		&ddl.ColumnDef{Name: "id", Type: strType("INT64", "")},
		&ddl.ColumnDef{Name: "name", Type: strType("STRING", "200")},
	)
	stmts, err := ColumnStatements(original, updated, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStmts(t, stmts, []string{"ALTER TABLE T ALTER COLUMN name STRING(200)"})
}

func TestColumnStatements_IncompatibleTypeChange(t *testing.T) {
	original := table("T", []string{"id"},
		&ddl.ColumnDef{Name: "id", Type: strType("INT64", "")},
		&ddl.ColumnDef{Name: "name", Type: strType("STRING", "100")},
	)
	updated := table("T", []string{"id"},
		&ddl.ColumnDef{Name: "id", Type: strType("INT64", "")},
		&ddl.ColumnDef{Name: "name", Type: strType("INT64", "")},
	)
	if _, err := ColumnStatements(original, updated, false); err == nil {
		t.Fatal("expected an incompatible-type-change error")
	}
}

func TestColumnStatements_DropColumnGatedByPolicy(t *testing.T) {
	original := table("T", []string{"id"},
		&ddl.ColumnDef{Name: "id", Type: strType("INT64", "")},
		&ddl.ColumnDef{Name: "gone", Type: strType("INT64", "")},
	)
	updated := table("T", []string{"id"}, &ddl.ColumnDef{Name: "id", Type: strType("INT64", "")})

	stmts, err := ColumnStatements(original, updated, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) != 0 {
		t.Errorf("expected DROP COLUMN to be suppressed, got %v", stmts)
	}

	stmts, err = ColumnStatements(original, updated, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStmts(t, stmts, []string{"ALTER TABLE T DROP COLUMN gone"})
}

func TestColumnStatements_PrimaryKeyMismatch(t *testing.T) {
	original := table("T", []string{"id"}, &ddl.ColumnDef{Name: "id", Type: strType("INT64", "")})
	updated := table("T", []string{"id", "other"},
		&ddl.ColumnDef{Name: "id", Type: strType("INT64", "")},
		&ddl.ColumnDef{Name: "other", Type: strType("INT64", "")},
	)
	if _, err := ColumnStatements(original, updated, false); err == nil {
		t.Fatal("expected an incompatible-primary-key-change error")
	}
}

func TestColumnStatements_InterleavePresenceMismatch(t *testing.T) {
	original := table("T", []string{"id"}, &ddl.ColumnDef{Name: "id", Type: strType("INT64", "")})
	updated := table("T", []string{"id"}, &ddl.ColumnDef{Name: "id", Type: strType("INT64", "")})
	updated.Interleave = &ddl.InterleaveClause{ParentTable: "P"}
	if _, err := ColumnStatements(original, updated, false); err == nil {
		t.Fatal("expected an incompatible-interleave-change error")
	}
}

func TestColumnStatements_OptionsAndDefaultChange(t *testing.T) {
	original := table("T", []string{"id"},
		&ddl.ColumnDef{Name: "id", Type: strType("INT64", "")},
		&ddl.ColumnDef{
			Name:    "n",
			Type:    strType("INT64", ""),
			Default: "0",
			Options: &ddl.OptionsClause{Pairs: []ddl.OptionPair{{Key: "a", Value: "'x'"}}},
		},
	)
	updated := table("T", []string{"id"},
		&ddl.ColumnDef{Name: "id", Type: strType("INT64", "")},
		&ddl.ColumnDef{
			Name:    "n",
			Type:    strType("INT64", ""),
			Default: "1",
			Options: &ddl.OptionsClause{Pairs: []ddl.OptionPair{{Key: "b", Value: "'y'"}}},
		},
	)
	stmts, err := ColumnStatements(original, updated, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStmts(t, stmts, []string{
		"ALTER TABLE T ALTER COLUMN n SET OPTIONS (a=NULL, b='y')",
		"ALTER TABLE T ALTER COLUMN n SET DEFAULT (1)",
	})
}

func assertStmts(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stmt[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
