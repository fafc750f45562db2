// Package schema holds the canonical, immutable in-memory representation
// of a Cloud Spanner database schema (spec.md §3). It is produced once by
// the extractor package and read only by the diff and plan packages
// downstream.
package schema

import "github.com/ElizaChat/spanner-schema-diff-tool/ddl"

// Constraint flattens an inline or ALTER-added check/foreign-key
// constraint together with the table it belongs to (spec.md §3: "Each
// constraint carries its owning table name").
type Constraint struct {
	TableName string
	Node      *ddl.ConstraintNode
}

func (c *Constraint) Name() string { return c.Node.Name }

// CanonicalText is the basis for equality under diff: the constraint's
// own body text, independent of which table owns it (a constraint never
// changes owning table without being dropped and re-added under a
// different name, which the diff engine would see as add+remove anyway).
func (c *Constraint) CanonicalText() string { return c.Node.CanonicalText() }

// Schema is the canonical form described in spec.md §3. Tables preserve
// creation order (relevant for interleaving); all other maps are keyed by
// globally-unique name.
type Schema struct {
	TableOrder []string
	Tables     map[string]*ddl.CreateTableStatement

	Indexes map[string]*ddl.CreateIndexStatement

	Constraints map[string]*Constraint

	TTLs map[string]*ddl.RowDeletionPolicy

	ChangeStreams map[string]*ddl.CreateChangeStreamStatement

	DatabaseOptions map[string]string

	// DatabaseName is the name this schema's ALTER DATABASE statements
	// (if any) referred to; empty if none were present.
	DatabaseName string
}

// New returns an empty Schema with all maps initialized, representing an
// empty DDL input (spec.md §6: "may be empty/null - treated as empty
// schemas").
func New() *Schema {
	return &Schema{
		Tables:          make(map[string]*ddl.CreateTableStatement),
		Indexes:         make(map[string]*ddl.CreateIndexStatement),
		Constraints:     make(map[string]*Constraint),
		TTLs:            make(map[string]*ddl.RowDeletionPolicy),
		ChangeStreams:   make(map[string]*ddl.CreateChangeStreamStatement),
		DatabaseOptions: make(map[string]string),
	}
}

// TablesInCreationOrder returns the table statements in the order they
// were created, mirroring the original Java `tablesInCreationOrder()`.
func (s *Schema) TablesInCreationOrder() []*ddl.CreateTableStatement {
	out := make([]*ddl.CreateTableStatement, 0, len(s.TableOrder))
	for _, name := range s.TableOrder {
		out = append(out, s.Tables[name])
	}
	return out
}
