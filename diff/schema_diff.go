package diff

import (
	"github.com/ElizaChat/spanner-schema-diff-tool/ddl"
	"github.com/ElizaChat/spanner-schema-diff-tool/schema"
)

// SchemaDiff holds the five category-level MapDifference values spec.md
// §4.3 requires, one per top-level schema.Schema collection, plus the
// options diff over database_options.
type SchemaDiff struct {
	Tables        MapDifference[*ddl.CreateTableStatement]
	Indexes       MapDifference[*ddl.CreateIndexStatement]
	Constraints   MapDifference[*schema.Constraint]
	TTLs          MapDifference[*ddl.RowDeletionPolicy]
	ChangeStreams MapDifference[*ddl.CreateChangeStreamStatement]

	DatabaseOptions OptionsDiff
}

// Analyze is the Difference Analyzer (spec.md §4.3): independent,
// policy-free structural comparison of every category.
func Analyze(original, updated *schema.Schema) *SchemaDiff {
	return &SchemaDiff{
		Tables: Diff(original.Tables, updated.Tables, func(t *ddl.CreateTableStatement) string {
			return t.CanonicalText()
		}),
		Indexes: Diff(original.Indexes, updated.Indexes, func(i *ddl.CreateIndexStatement) string {
			return i.CanonicalText()
		}),
		Constraints: Diff(original.Constraints, updated.Constraints, func(c *schema.Constraint) string {
			return c.CanonicalText()
		}),
		TTLs: Diff(original.TTLs, updated.TTLs, func(r *ddl.RowDeletionPolicy) string {
			return r.CanonicalText()
		}),
		ChangeStreams: Diff(original.ChangeStreams, updated.ChangeStreams, func(c *ddl.CreateChangeStreamStatement) string {
			return c.CanonicalText()
		}),
		DatabaseOptions: DiffOptions(original.DatabaseOptions, updated.DatabaseOptions),
	}
}
