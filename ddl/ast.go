// Package ddl defines the abstract statement shapes that the diff engine
// consumes. These are the "Statement" nodes of the parser interface: the
// engine never parses DDL text itself, it only reads these.
package ddl

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags the variant a Statement carries.
type Kind int

const (
	KindCreateTable Kind = iota
	KindCreateIndex
	KindAlterTable
	KindAlterDatabase
	KindCreateChangeStream
)

func (k Kind) String() string {
	switch k {
	case KindCreateTable:
		return "CREATE TABLE"
	case KindCreateIndex:
		return "CREATE INDEX"
	case KindAlterTable:
		return "ALTER TABLE"
	case KindAlterDatabase:
		return "ALTER DATABASE"
	case KindCreateChangeStream:
		return "CREATE CHANGE STREAM"
	default:
		return "UNKNOWN"
	}
}

// Statement is the common interface every parsed DDL fragment satisfies.
type Statement interface {
	Kind() Kind
	CanonicalText() string
}

// AnonymousConstraintName marks a constraint the parser could not assign
// an explicit name to. The extractor rejects these.
const AnonymousConstraintName = ""

// ColumnType is a recursive variant: scalar, ARRAY-of, or STRUCT, whose
// body the parser keeps as raw text. PG-prefixed types get no special
// handling.
type ColumnType struct {
	Name    string // e.g. STRING, BYTES, INT64, ARRAY, STRUCT
	Length  string // "" if unparameterized, "MAX", or a digit string
	Elem    *ColumnType
	RawBody string // body of STRUCT<...>, kept opaque
}

func (t *ColumnType) IsArray() bool { return t != nil && t.Name == "ARRAY" }

// RootAndDepth unwraps ARRAY<...> layers, returning the innermost type
// and the nesting depth, as used by the column-type compatibility rule.
func (t *ColumnType) RootAndDepth() (*ColumnType, int) {
	depth := 0
	cur := t
	for cur != nil && cur.IsArray() {
		cur = cur.Elem
		depth++
	}
	return cur, depth
}

func (t *ColumnType) String() string {
	if t == nil {
		return ""
	}
	if t.Name == "ARRAY" {
		return "ARRAY<" + t.Elem.String() + ">"
	}
	if t.Name == "STRUCT" {
		return "STRUCT<" + t.RawBody + ">"
	}
	if t.Length != "" {
		return fmt.Sprintf("%s(%s)", t.Name, t.Length)
	}
	return t.Name
}

// OptionsClause is an ordered key/value list, canonicalized per spec.md
// §4.6: ascending key order, commas, `key=value` pairs, values verbatim.
type OptionsClause struct {
	Pairs []OptionPair
}

type OptionPair struct {
	Key   string
	Value string
}

func (o *OptionsClause) Map() map[string]string {
	if o == nil {
		return nil
	}
	m := make(map[string]string, len(o.Pairs))
	for _, p := range o.Pairs {
		m[p.Key] = p.Value
	}
	return m
}

func (o *OptionsClause) CanonicalText() string {
	if o == nil || len(o.Pairs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(o.Pairs))
	m := o.Map()
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+m[k])
	}
	return strings.Join(parts, ",")
}

// ColumnDef describes a single column within a CREATE TABLE.
type ColumnDef struct {
	Name        string
	Type        *ColumnType
	NotNull     bool
	Default     string // canonical expression text, "" if absent
	Generated   string // canonical expression text, "" if absent
	Options     *OptionsClause
}

func (c *ColumnDef) CanonicalText() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString(" ")
	b.WriteString(c.Type.String())
	if c.Generated != "" {
		b.WriteString(" AS (")
		b.WriteString(c.Generated)
		b.WriteString(") STORED")
	}
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if c.Default != "" {
		b.WriteString(" DEFAULT (")
		b.WriteString(c.Default)
		b.WriteString(")")
	}
	if opts := c.Options.CanonicalText(); opts != "" {
		b.WriteString(" OPTIONS (")
		b.WriteString(opts)
		b.WriteString(")")
	}
	return b.String()
}

// ConstraintKind tags a check-constraint vs. a foreign-key.
type ConstraintKind int

const (
	ConstraintCheck ConstraintKind = iota
	ConstraintForeignKey
)

// ConstraintNode is the two-case tagged variant of spec.md §3/Design Note 9.
type ConstraintNode struct {
	Kind ConstraintKind
	Name string

	// CHECK
	CheckExpr string

	// FOREIGN KEY
	Columns       []string
	RefTable      string
	RefColumns    []string
	OnDeleteCasc  bool
}

// Body renders the part of the constraint that follows "ADD CONSTRAINT
// name" / "CONSTRAINT name" - used both as the canonical comparison text
// and as the ADD-constraint statement tail.
func (c *ConstraintNode) Body() string {
	switch c.Kind {
	case ConstraintCheck:
		return "CHECK (" + c.CheckExpr + ")"
	case ConstraintForeignKey:
		s := "FOREIGN KEY (" + strings.Join(c.Columns, ", ") + ") REFERENCES " +
			c.RefTable + " (" + strings.Join(c.RefColumns, ", ") + ")"
		if c.OnDeleteCasc {
			s += " ON DELETE CASCADE"
		}
		return s
	default:
		return ""
	}
}

func (c *ConstraintNode) CanonicalText() string {
	return "CONSTRAINT " + c.Name + " " + c.Body()
}

// InterleaveClause describes a child table's physical co-location.
type InterleaveClause struct {
	ParentTable string
	OnDeleteCascade bool
}

func (i *InterleaveClause) OnDeleteText() string {
	if i == nil {
		return ""
	}
	if i.OnDeleteCascade {
		return "ON DELETE CASCADE"
	}
	return "ON DELETE NO ACTION"
}

func (i *InterleaveClause) CanonicalText() string {
	if i == nil {
		return ""
	}
	return "INTERLEAVE IN PARENT " + i.ParentTable + " " + i.OnDeleteText()
}

// RowDeletionPolicy is a table's TTL declaration.
type RowDeletionPolicy struct {
	Column       string
	IntervalText string // e.g. "INTERVAL 7 DAY", canonical
}

func (r *RowDeletionPolicy) CanonicalText() string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("ROW DELETION POLICY (OLDER_THAN(%s, %s))", r.Column, r.IntervalText)
}

// CreateTableStatement is a parsed CREATE TABLE. Constraints and the row
// deletion policy are still attached inline here; the Extractor lifts
// them into the Schema's top-level maps and clears these fields.
type CreateTableStatement struct {
	TableName   string
	Columns     []*ColumnDef
	PrimaryKey  []string // canonical key parts, in order
	Interleave  *InterleaveClause
	Constraints []*ConstraintNode
	TTL         *RowDeletionPolicy
}

func (c *CreateTableStatement) Kind() Kind { return KindCreateTable }

// PrimaryKeyText renders the canonical PRIMARY KEY clause body.
func (c *CreateTableStatement) PrimaryKeyText() string {
	return strings.Join(c.PrimaryKey, ", ")
}

func (c *CreateTableStatement) CanonicalText() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(c.TableName)
	b.WriteString(" (\n")
	parts := make([]string, 0, len(c.Columns)+len(c.Constraints))
	for _, col := range c.Columns {
		parts = append(parts, "  "+col.CanonicalText())
	}
	for _, con := range c.Constraints {
		parts = append(parts, "  "+con.CanonicalText())
	}
	b.WriteString(strings.Join(parts, ",\n"))
	b.WriteString("\n) PRIMARY KEY (")
	b.WriteString(c.PrimaryKeyText())
	b.WriteString(")")
	if c.Interleave != nil {
		b.WriteString(", ")
		b.WriteString(c.Interleave.CanonicalText())
	}
	if c.TTL != nil {
		b.WriteString(", ")
		b.WriteString(c.TTL.CanonicalText())
	}
	return b.String()
}

// WithoutExtracted returns a copy of the statement with its inline
// constraints and TTL cleared, as the Extractor produces for the Schema's
// Table nodes (spec.md §4.2: "Inline constraints ... have been extracted
// and removed from the table node").
func (c *CreateTableStatement) WithoutExtracted() *CreateTableStatement {
	clone := *c
	clone.Constraints = nil
	clone.TTL = nil
	return &clone
}

// CreateIndexStatement is identity-and-emission text in one: spec.md §3
// says an Index's canonical full-statement text serves both roles.
type CreateIndexStatement struct {
	IndexName string
	FullText  string
}

func (c *CreateIndexStatement) Kind() Kind           { return KindCreateIndex }
func (c *CreateIndexStatement) CanonicalText() string { return c.FullText }

// AlterTableAction tags which single child an ALTER TABLE carries; this
// implementation only supports the three shapes spec.md §4.2 lists.
type AlterTableAction int

const (
	AlterAddConstraint AlterTableAction = iota
	AlterAddRowDeletionPolicy
)

type AlterTableStatement struct {
	TableName  string
	Action     AlterTableAction
	Constraint *ConstraintNode
	TTL        *RowDeletionPolicy
}

func (a *AlterTableStatement) Kind() Kind { return KindAlterTable }

func (a *AlterTableStatement) CanonicalText() string {
	switch a.Action {
	case AlterAddConstraint:
		return "ALTER TABLE " + a.TableName + " ADD " + a.Constraint.CanonicalText()
	case AlterAddRowDeletionPolicy:
		return "ALTER TABLE " + a.TableName + " ADD " + a.TTL.CanonicalText()
	default:
		return ""
	}
}

type AlterDatabaseStatement struct {
	DbName  string
	Options *OptionsClause
}

func (a *AlterDatabaseStatement) Kind() Kind { return KindAlterDatabase }

func (a *AlterDatabaseStatement) CanonicalText() string {
	return "ALTER DATABASE " + a.DbName + " SET OPTIONS (" + a.Options.CanonicalText() + ")"
}

type CreateChangeStreamStatement struct {
	Name        string
	ForText     string // canonical FOR-clause body, "" if not present
	OptionsText string // canonical OPTIONS-clause body (key=value,...), "" if not present
}

func (c *CreateChangeStreamStatement) Kind() Kind { return KindCreateChangeStream }

func (c *CreateChangeStreamStatement) CanonicalText() string {
	var b strings.Builder
	b.WriteString("CREATE CHANGE STREAM ")
	b.WriteString(c.Name)
	if c.ForText != "" {
		b.WriteString(" FOR ")
		b.WriteString(c.ForText)
	}
	if c.OptionsText != "" {
		b.WriteString(" OPTIONS (")
		b.WriteString(c.OptionsText)
		b.WriteString(")")
	}
	return b.String()
}
