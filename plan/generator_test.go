package plan

import (
	"strings"
	"testing"

	"github.com/ElizaChat/spanner-schema-diff-tool/ddlparser"
	"github.com/ElizaChat/spanner-schema-diff-tool/extractor"
	"github.com/ElizaChat/spanner-schema-diff-tool/schema"
)

func parseSchema(t *testing.T, text string) *schema.Schema {
	t.Helper()
	stmts, err := ddlparser.ParseDDL(text)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	s, err := extractor.Extract(stmts)
	if err != nil {
		t.Fatalf("extract %q: %v", text, err)
	}
	return s
}

func TestGenerate_Emptiness(t *testing.T) {
	s := parseSchema(t, `CREATE TABLE T (id INT64, name STRING(100)) PRIMARY KEY (id)`)
	stmts, err := Generate(s, s, Policy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) != 0 {
		t.Errorf("diff(S, S) should be empty, got %v", stmts)
	}
}

func TestGenerate_AddedColumn(t *testing.T) {
	original := parseSchema(t, `CREATE TABLE T (id INT64) PRIMARY KEY (id)`)
	updated := parseSchema(t, `CREATE TABLE T (id INT64, name STRING(100)) PRIMARY KEY (id)`)
	stmts, err := Generate(original, updated, Policy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"ALTER TABLE T ADD COLUMN name STRING(100)"}
	assertEqual(t, stmts, want)
}

func TestGenerate_IndexRecreateOrder(t *testing.T) {
	original := parseSchema(t, `CREATE INDEX I ON T(x)`)
	updated := parseSchema(t, `CREATE INDEX I ON T(y)`)
	stmts, err := Generate(original, updated, Policy{AllowRecreateIndexes: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertEqual(t, stmts, []string{"DROP INDEX I", "CREATE INDEX I ON T(y)"})
}

func TestGenerate_RecreateNotPermitted(t *testing.T) {
	original := parseSchema(t, `CREATE INDEX I ON T(x)`)
	updated := parseSchema(t, `CREATE INDEX I ON T(y)`)
	if _, err := Generate(original, updated, Policy{}); err == nil {
		t.Fatal("expected recreate-not-permitted error")
	}
}

func TestGenerate_NewAlterDatabaseOptions(t *testing.T) {
	original := parseSchema(t, ``)
	updated := parseSchema(t, `ALTER DATABASE D SET OPTIONS (version_retention_period='7d')`)
	stmts, err := Generate(original, updated, Policy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertEqual(t, stmts, []string{"ALTER DATABASE D SET OPTIONS (version_retention_period='7d')"})
}

func TestGenerate_ConflictingDatabaseName(t *testing.T) {
	original := parseSchema(t, `ALTER DATABASE A SET OPTIONS (x='1')`)
	updated := parseSchema(t, `ALTER DATABASE B SET OPTIONS (x='2')`)
	if _, err := Generate(original, updated, Policy{}); err == nil {
		t.Fatal("expected conflicting-database-name error")
	}
}

func TestGenerate_InterleaveDropOrder(t *testing.T) {
	original := parseSchema(t, `
		CREATE TABLE P (id INT64) PRIMARY KEY (id);
		CREATE TABLE C (id INT64, cid INT64) PRIMARY KEY (id, cid), INTERLEAVE IN PARENT P;
	`)
	updated := parseSchema(t, ``)
	stmts, err := Generate(original, updated, Policy{AllowDropStatements: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertEqual(t, stmts, []string{"DROP TABLE C", "DROP TABLE P"})
}

func TestGenerate_InterleaveCreateOrder(t *testing.T) {
	original := parseSchema(t, ``)
	updated := parseSchema(t, `
		CREATE TABLE P (id INT64) PRIMARY KEY (id);
		CREATE TABLE C (id INT64, cid INT64) PRIMARY KEY (id, cid), INTERLEAVE IN PARENT P;
	`)
	stmts, err := Generate(original, updated, Policy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected 2 CREATE TABLE statements, got %v", stmts)
	}
	if !strings.HasPrefix(stmts[0], "CREATE TABLE P") {
		t.Errorf("stmt[0] = %q, want CREATE TABLE P first", stmts[0])
	}
	if !strings.HasPrefix(stmts[1], "CREATE TABLE C") {
		t.Errorf("stmt[1] = %q, want CREATE TABLE C second", stmts[1])
	}
}

func TestGenerate_DropStatementsGatedByPolicy(t *testing.T) {
	original := parseSchema(t, `CREATE TABLE T (id INT64) PRIMARY KEY (id); CREATE INDEX I ON T(id);`)
	updated := parseSchema(t, ``)
	stmts, err := Generate(original, updated, Policy{AllowDropStatements: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) != 0 {
		t.Errorf("expected no DROP statements without allowDropStatements, got %v", stmts)
	}
}

func assertEqual(t *testing.T, got, want []string) {
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
