package diff

import (
	"fmt"

	"github.com/ElizaChat/spanner-schema-diff-tool/ddl"
	"github.com/ElizaChat/spanner-schema-diff-tool/dderr"
)

// ColumnStatements is the Column Diff Engine of spec.md §4.4: for a
// table present on both sides, it returns every ALTER TABLE statement
// needed to bring the original column set to the new one, honoring
// allowDropStatements for DROP COLUMN. It enforces the three
// table-level invariants (interleave presence/parent, primary key)
// before looking at columns at all.
func ColumnStatements(original, updated *ddl.CreateTableStatement, allowDropStatements bool) ([]string, error) {
	if err := checkTableInvariants(original, updated); err != nil {
		return nil, err
	}

	var stmts []string

	if original.Interleave != nil && updated.Interleave != nil &&
		original.Interleave.OnDeleteCascade != updated.Interleave.OnDeleteCascade {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s SET %s", updated.TableName, updated.Interleave.OnDeleteText()))
	}

	origCols := make(map[string]*ddl.ColumnDef, len(original.Columns))
	var origOrder []string
	for _, c := range original.Columns {
		origCols[c.Name] = c
		origOrder = append(origOrder, c.Name)
	}
	newCols := make(map[string]*ddl.ColumnDef, len(updated.Columns))
	for _, c := range updated.Columns {
		newCols[c.Name] = c
	}

	for _, name := range origOrder {
		if _, ok := newCols[name]; !ok && allowDropStatements {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", updated.TableName, name))
		}
	}
	for _, c := range updated.Columns {
		if _, ok := origCols[c.Name]; !ok {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", updated.TableName, c.CanonicalText()))
		}
	}
	for _, c := range updated.Columns {
		oldCol, ok := origCols[c.Name]
		if !ok {
			continue
		}
		colStmts, err := columnModificationStatements(updated.TableName, oldCol, c)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, colStmts...)
	}

	return stmts, nil
}

func checkTableInvariants(original, updated *ddl.CreateTableStatement) error {
	if (original.Interleave == nil) != (updated.Interleave == nil) {
		return dderr.New(dderr.IncompatibleInterleaveChange,
			"table %s: interleave presence differs between original and new schema", updated.TableName)
	}
	if original.Interleave != nil && original.Interleave.ParentTable != updated.Interleave.ParentTable {
		return dderr.New(dderr.IncompatibleInterleaveChange,
			"table %s: interleave parent changed from %s to %s",
			updated.TableName, original.Interleave.ParentTable, updated.Interleave.ParentTable)
	}
	if original.PrimaryKeyText() != updated.PrimaryKeyText() {
		return dderr.New(dderr.IncompatiblePrimaryKeyChange,
			"table %s: primary key changed from (%s) to (%s)",
			updated.TableName, original.PrimaryKeyText(), updated.PrimaryKeyText())
	}
	return nil
}

// columnModificationStatements applies spec.md §4.4.1 in order: a
// column difference that survives to this point is either unchanged
// (returns nil), fails rule 1 or 2 with an error, or produces the
// applicable rule-3/4/5 statements.
func columnModificationStatements(table string, oldCol, newCol *ddl.ColumnDef) ([]string, error) {
	if oldCol.CanonicalText() == newCol.CanonicalText() {
		return nil, nil
	}

	typeChanged := oldCol.Type.String() != newCol.Type.String()
	if typeChanged {
		if err := checkTypeCompatible(table, oldCol, newCol); err != nil {
			return nil, err
		}
	}

	if oldCol.Generated != newCol.Generated {
		return nil, dderr.New(dderr.IncompatibleGenerationChange,
			"table %s column %s: generation clause changed from %q to %q",
			table, newCol.Name, oldCol.Generated, newCol.Generated)
	}

	var stmts []string

	if oldCol.NotNull != newCol.NotNull || typeChanged {
		def := newCol.Type.String()
		if newCol.NotNull {
			def += " NOT NULL"
		}
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s", table, newCol.Name, def))
	}

	optDiff := DiffOptions(oldCol.Options.Map(), newCol.Options.Map())
	if !optDiff.Empty() {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET OPTIONS (%s)",
			table, newCol.Name, optDiff.CanonicalText()))
	}

	if oldCol.Default != newCol.Default {
		if newCol.Default == "" {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", table, newCol.Name))
		} else {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT (%s)", table, newCol.Name, newCol.Default))
		}
	}

	return stmts, nil
}

// checkTypeCompatible implements §4.4.1 rule 1: a type change is only
// in-place alterable when it is a length-only change within STRING or
// BYTES at matching array depth and root type.
func checkTypeCompatible(table string, oldCol, newCol *ddl.ColumnDef) error {
	oldRoot, oldDepth := oldCol.Type.RootAndDepth()
	newRoot, newDepth := newCol.Type.RootAndDepth()

	incompatible := func() error {
		return dderr.New(dderr.IncompatibleTypeChange,
			"table %s column %s: type changed from %s to %s",
			table, newCol.Name, oldCol.Type.String(), newCol.Type.String())
	}

	if oldDepth != newDepth {
		return incompatible()
	}
	if oldRoot == nil || newRoot == nil || oldRoot.Name != newRoot.Name {
		return incompatible()
	}
	if oldRoot.Name != "STRING" && oldRoot.Name != "BYTES" {
		return incompatible()
	}
	return nil
}
