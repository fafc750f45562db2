// Package plan implements the Plan Generator (spec.md §4.5): it turns
// a diff.SchemaDiff plus a Policy into the fixed-order, dependency-safe
// list of DDL statements that takes a database from the original
// schema to the new one.
package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ElizaChat/spanner-schema-diff-tool/ddl"
	"github.com/ElizaChat/spanner-schema-diff-tool/dderr"
	"github.com/ElizaChat/spanner-schema-diff-tool/diff"
	"github.com/ElizaChat/spanner-schema-diff-tool/extractor"
	"github.com/ElizaChat/spanner-schema-diff-tool/schema"
)

// Policy is the three-boolean configuration surface of spec.md §4.7.
type Policy struct {
	AllowRecreateIndexes     bool
	AllowRecreateConstraints bool
	AllowDropStatements      bool
}

// Generate is the single entry point described by spec.md §5: a pure
// function of (original schema, new schema, policy, database name)
// that either returns a complete ordered statement list or the first
// fatal error encountered.
func Generate(original, updated *schema.Schema, policy Policy) ([]string, error) {
	dbName, err := extractor.ResolveDatabaseName(original, updated)
	if err != nil {
		return nil, err
	}

	d := diff.Analyze(original, updated)

	if err := checkRecreateGate(d, policy); err != nil {
		return nil, err
	}

	var stmts []string

	// 1. ALTER DATABASE SET OPTIONS
	if optText := d.DatabaseOptions.CanonicalText(); optText != "" {
		if dbName == "" {
			return nil, dderr.New(dderr.MissingDatabaseName,
				"database options differ but no ALTER DATABASE statement supplied a database name")
		}
		stmts = append(stmts, fmt.Sprintf("ALTER DATABASE %s SET OPTIONS (%s)", dbName, optText))
	}

	// 2. DROP INDEX (removed)
	if policy.AllowDropStatements {
		for _, name := range diff.SortedKeys(d.Indexes.OnlyLeft) {
			stmts = append(stmts, fmt.Sprintf("DROP INDEX %s", name))
		}
	}

	// 3. DROP CHANGE STREAM (removed)
	if policy.AllowDropStatements {
		for _, name := range diff.SortedKeys(d.ChangeStreams.OnlyLeft) {
			stmts = append(stmts, fmt.Sprintf("DROP CHANGE STREAM %s", name))
		}
	}

	// 4. DROP INDEX (modified)
	for _, name := range sortedDifferingKeys(d.Indexes.Differing) {
		stmts = append(stmts, fmt.Sprintf("DROP INDEX %s", name))
	}

	// 5. DROP CONSTRAINT (removed)
	for _, name := range diff.SortedKeys(d.Constraints.OnlyLeft) {
		c := d.Constraints.OnlyLeft[name]
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", c.TableName, name))
	}

	// 6. DROP CONSTRAINT (modified), original-side owning table
	for _, name := range sortedDifferingKeys(d.Constraints.Differing) {
		c := d.Constraints.Differing[name].Left
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", c.TableName, name))
	}

	// 7. DROP ROW DELETION POLICY (removed)
	for _, table := range diff.SortedKeys(d.TTLs.OnlyLeft) {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP ROW DELETION POLICY", table))
	}

	// 8. DROP TABLE (removed), reverse of original creation order
	if policy.AllowDropStatements {
		removed := d.Tables.OnlyLeft
		for i := len(original.TableOrder) - 1; i >= 0; i-- {
			name := original.TableOrder[i]
			if _, ok := removed[name]; ok {
				stmts = append(stmts, fmt.Sprintf("DROP TABLE %s", name))
			}
		}
	}

	// 9. ALTER TABLE for modified tables, original-side iteration order
	for _, name := range original.TableOrder {
		oldTable, ok := original.Tables[name]
		if !ok {
			continue
		}
		newTable, ok := updated.Tables[name]
		if !ok {
			continue
		}
		colStmts, err := diff.ColumnStatements(oldTable, newTable, policy.AllowDropStatements)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, colStmts...)
	}

	// 10. CREATE TABLE (added), new-side creation order
	added := d.Tables.OnlyRight
	for _, name := range updated.TableOrder {
		if t, ok := added[name]; ok {
			stmts = append(stmts, t.CanonicalText())
		}
	}

	// 11. ADD ROW DELETION POLICY (added)
	for _, table := range diff.SortedKeys(d.TTLs.OnlyRight) {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD %s", table, d.TTLs.OnlyRight[table].CanonicalText()))
	}

	// 12. REPLACE ROW DELETION POLICY (modified)
	for _, table := range sortedDifferingKeys(d.TTLs.Differing) {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s REPLACE %s", table, d.TTLs.Differing[table].Right.CanonicalText()))
	}

	// 13. CREATE INDEX (added)
	for _, name := range diff.SortedKeys(d.Indexes.OnlyRight) {
		stmts = append(stmts, d.Indexes.OnlyRight[name].CanonicalText())
	}

	// 14. CREATE INDEX (modified), new-side statement
	for _, name := range sortedDifferingKeys(d.Indexes.Differing) {
		stmts = append(stmts, d.Indexes.Differing[name].Right.CanonicalText())
	}

	// 15. ADD CONSTRAINT (added), new-side owning table
	for _, name := range diff.SortedKeys(d.Constraints.OnlyRight) {
		c := d.Constraints.OnlyRight[name]
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD %s", c.TableName, c.Node.CanonicalText()))
	}

	// 16. ADD CONSTRAINT (modified), new-side form
	for _, name := range sortedDifferingKeys(d.Constraints.Differing) {
		c := d.Constraints.Differing[name].Right
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD %s", c.TableName, c.Node.CanonicalText()))
	}

	// 17. CREATE CHANGE STREAM (added)
	for _, name := range diff.SortedKeys(d.ChangeStreams.OnlyRight) {
		stmts = append(stmts, d.ChangeStreams.OnlyRight[name].CanonicalText())
	}

	// 18. ALTER CHANGE STREAM (modified): FOR before OPTIONS, per stream
	for _, name := range sortedDifferingKeys(d.ChangeStreams.Differing) {
		vd := d.ChangeStreams.Differing[name]
		stmts = append(stmts, changeStreamAlterStatements(name, vd.Left, vd.Right)...)
	}

	return stmts, nil
}

// checkRecreateGate implements §4.5-gate: the whole run fails up-front,
// before any statement is emitted, if a modified-index or
// modified-constraint set is non-empty without its allow-flag.
func checkRecreateGate(d *diff.SchemaDiff, policy Policy) error {
	if !policy.AllowRecreateIndexes && len(d.Indexes.Differing) > 0 {
		names := sortedDifferingKeys(d.Indexes.Differing)
		return dderr.New(dderr.RecreateNotPermitted,
			"allowRecreateIndexes is false but the following indexes require recreation: %s",
			strings.Join(names, ", "))
	}
	if !policy.AllowRecreateConstraints && len(d.Constraints.Differing) > 0 {
		names := sortedDifferingKeys(d.Constraints.Differing)
		return dderr.New(dderr.RecreateNotPermitted,
			"allowRecreateConstraints is false but the following constraints require recreation: %s",
			strings.Join(names, ", "))
	}
	return nil
}

func changeStreamAlterStatements(name string, left, right *ddl.CreateChangeStreamStatement) []string {
	var stmts []string
	if left.ForText != right.ForText {
		stmts = append(stmts, fmt.Sprintf("ALTER CHANGE STREAM %s SET FOR %s", name, right.ForText))
	}
	if left.OptionsText != right.OptionsText {
		stmts = append(stmts, fmt.Sprintf("ALTER CHANGE STREAM %s SET OPTIONS (%s)", name, right.OptionsText))
	}
	return stmts
}

func sortedDifferingKeys[V any](m map[string]diff.ValueDiff[V]) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
