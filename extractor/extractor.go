// Package extractor folds a flat list of parsed DDL statements into a
// schema.Schema (spec.md §4.2): inline constraints and row deletion
// policies are lifted out of their owning CREATE TABLE into the
// Schema's top-level maps, and the single ALTER DATABASE name (if any)
// is recorded.
package extractor

import (
	"github.com/ElizaChat/spanner-schema-diff-tool/ddl"
	"github.com/ElizaChat/spanner-schema-diff-tool/dderr"
	"github.com/ElizaChat/spanner-schema-diff-tool/schema"
)

// Extract builds a schema.Schema from one DDL file's worth of parsed
// statements. It rejects anonymous constraints and statement shapes it
// does not recognize, and fails if the statements disagree among
// themselves about the database name.
func Extract(statements []ddl.Statement) (*schema.Schema, error) {
	s := schema.New()
	seenTables := make(map[string]bool)

	for _, stmt := range statements {
		switch st := stmt.(type) {
		case *ddl.CreateTableStatement:
			if err := extractTable(s, st, seenTables); err != nil {
				return nil, err
			}

		case *ddl.CreateIndexStatement:
			s.Indexes[st.IndexName] = st

		case *ddl.AlterTableStatement:
			if err := extractAlterTable(s, st); err != nil {
				return nil, err
			}

		case *ddl.AlterDatabaseStatement:
			if err := extractAlterDatabase(s, st); err != nil {
				return nil, err
			}

		case *ddl.CreateChangeStreamStatement:
			s.ChangeStreams[st.Name] = st

		default:
			return nil, dderr.New(dderr.UnsupportedStatement,
				"statement of kind %v is not supported", stmt.Kind())
		}
	}

	return s, nil
}

func extractTable(s *schema.Schema, st *ddl.CreateTableStatement, seen map[string]bool) error {
	for _, c := range st.Constraints {
		if c.Name == ddl.AnonymousConstraintName {
			return dderr.New(dderr.AnonymousConstraint,
				"table %s declares an unnamed %v constraint; every constraint must be named to be diffed",
				st.TableName, c.Kind)
		}
		s.Constraints[c.Name] = &schema.Constraint{TableName: st.TableName, Node: c}
	}
	if st.TTL != nil {
		s.TTLs[st.TableName] = st.TTL
	}
	if !seen[st.TableName] {
		seen[st.TableName] = true
		s.TableOrder = append(s.TableOrder, st.TableName)
	}
	s.Tables[st.TableName] = st.WithoutExtracted()
	return nil
}

func extractAlterTable(s *schema.Schema, st *ddl.AlterTableStatement) error {
	switch st.Action {
	case ddl.AlterAddConstraint:
		if st.Constraint.Name == ddl.AnonymousConstraintName {
			return dderr.New(dderr.AnonymousConstraint,
				"ALTER TABLE %s ADD CONSTRAINT declares an unnamed %v constraint; every constraint must be named to be diffed",
				st.TableName, st.Constraint.Kind)
		}
		s.Constraints[st.Constraint.Name] = &schema.Constraint{TableName: st.TableName, Node: st.Constraint}

	case ddl.AlterAddRowDeletionPolicy:
		s.TTLs[st.TableName] = st.TTL

	default:
		return dderr.New(dderr.UnsupportedStatement,
			"ALTER TABLE %s carries an unsupported action", st.TableName)
	}
	return nil
}

// extractAlterDatabase merges this statement's options into the schema
// and records its database name, rejecting a second ALTER DATABASE
// statement in the same file that names a different database (mirrors
// DdlDiff.getDatabaseNameFromAlterDatabase, which requires every ALTER
// DATABASE statement in one file to agree).
func extractAlterDatabase(s *schema.Schema, st *ddl.AlterDatabaseStatement) error {
	if s.DatabaseName == "" {
		s.DatabaseName = st.DbName
	} else if s.DatabaseName != st.DbName {
		return dderr.New(dderr.ConflictingDatabaseName,
			"ALTER DATABASE statements disagree on database name: %q vs %q", s.DatabaseName, st.DbName)
	}
	for k, v := range st.Options.Map() {
		s.DatabaseOptions[k] = v
	}
	return nil
}

// ResolveDatabaseName reconciles the original and new schemas' database
// names into the single name the output migration's ALTER DATABASE
// statements, if any, should use (spec.md §4.2; DdlDiff.build does the
// same two original+new lists before diffing).
func ResolveDatabaseName(original, updated *schema.Schema) (string, error) {
	switch {
	case original.DatabaseName == "" && updated.DatabaseName == "":
		return "", nil
	case original.DatabaseName == "":
		return updated.DatabaseName, nil
	case updated.DatabaseName == "":
		return original.DatabaseName, nil
	case original.DatabaseName != updated.DatabaseName:
		return "", dderr.New(dderr.ConflictingDatabaseName,
			"original DDL names database %q but new DDL names database %q", original.DatabaseName, updated.DatabaseName)
	default:
		return original.DatabaseName, nil
	}
}
