package ddlparser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ElizaChat/spanner-schema-diff-tool/ddl"
)

// ParseError is raised for a single malformed fragment; it carries enough
// to be actionable per spec.md §7 (parse-error: fragment + parser message).
type ParseError struct {
	Fragment string
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse statement:\n%s\nfailure: %s", e.Fragment, e.Message)
}

var commentRE = regexp.MustCompile(`--.*`)

// ParseDDL implements the parse_ddl(text) -> []Statement contract of
// spec.md §6: strip `--` comments, split on `;`, parse each non-empty
// trimmed fragment independently.
func ParseDDL(text string) ([]ddl.Statement, error) {
	stripped := commentRE.ReplaceAllString(text, "")
	fragments := strings.Split(stripped, ";")

	statements := make([]ddl.Statement, 0, len(fragments))
	for _, frag := range fragments {
		trimmed := strings.TrimSpace(frag)
		if trimmed == "" {
			continue
		}
		stmt, err := parseStatement(trimmed)
		if err != nil {
			return nil, &ParseError{Fragment: trimmed, Message: err.Error()}
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

func parseStatement(text string) (ddl.Statement, error) {
	s := newScanner(text)
	if !s.matchKeyword("CREATE") {
		if s.matchKeyword("ALTER") {
			return parseAlter(s)
		}
		return nil, fmt.Errorf("expected CREATE or ALTER, got %q", s.remainder(20))
	}

	switch {
	case s.matchKeyword("TABLE"):
		return parseCreateTable(s)
	case peekIsKeyword(s, "UNIQUE"), peekIsKeyword(s, "NULL_FILTERED"), peekIsKeyword(s, "INDEX"):
		return parseCreateIndex(s, text)
	case s.matchKeyword("CHANGE"):
		return parseCreateChangeStream(s)
	default:
		return nil, fmt.Errorf("unsupported CREATE statement: %q", s.remainder(20))
	}
}

func parseAlter(s *scanner) (ddl.Statement, error) {
	switch {
	case s.matchKeyword("TABLE"):
		return parseAlterTable(s)
	case s.matchKeyword("DATABASE"):
		return parseAlterDatabase(s)
	default:
		return nil, fmt.Errorf("unsupported ALTER statement: %q", s.remainder(20))
	}
}

// ---------------------------------------------------------------------
// CREATE TABLE
// ---------------------------------------------------------------------

func parseCreateTable(s *scanner) (*ddl.CreateTableStatement, error) {
	tableName := s.consumeWord()
	if tableName == "" {
		return nil, fmt.Errorf("missing table name")
	}

	stmt := &ddl.CreateTableStatement{TableName: tableName}

	body, err := s.consumeBalanced('(', ')')
	if err != nil {
		return nil, err
	}
	if err := parseTableBody(stmt, body); err != nil {
		return nil, err
	}

	if err := s.expectKeyword("PRIMARY"); err != nil {
		return nil, err
	}
	if err := s.expectKeyword("KEY"); err != nil {
		return nil, err
	}
	pkBody, err := s.consumeBalanced('(', ')')
	if err != nil {
		return nil, err
	}
	stmt.PrimaryKey = splitTopLevelList(pkBody)

	for s.matchByte(',') {
		switch {
		case s.matchKeyword("INTERLEAVE"):
			if err := s.expectKeyword("IN"); err != nil {
				return nil, err
			}
			if err := s.expectKeyword("PARENT"); err != nil {
				return nil, err
			}
			parent := s.consumeWord()
			onDeleteCascade := false
			if s.matchKeyword("ON") {
				if err := s.expectKeyword("DELETE"); err != nil {
					return nil, err
				}
				switch {
				case s.matchKeyword("CASCADE"):
					onDeleteCascade = true
				case s.matchKeyword("NO"):
					if err := s.expectKeyword("ACTION"); err != nil {
						return nil, err
					}
				default:
					return nil, fmt.Errorf("expected CASCADE or NO ACTION, got %q", s.remainder(20))
				}
			}
			stmt.Interleave = &ddl.InterleaveClause{ParentTable: parent, OnDeleteCascade: onDeleteCascade}
		case s.matchKeyword("ROW"):
			if err := s.expectKeyword("DELETION"); err != nil {
				return nil, err
			}
			if err := s.expectKeyword("POLICY"); err != nil {
				return nil, err
			}
			ttl, err := parseRowDeletionPolicyBody(s)
			if err != nil {
				return nil, err
			}
			stmt.TTL = ttl
		default:
			return nil, fmt.Errorf("unexpected clause after PRIMARY KEY: %q", s.remainder(20))
		}
	}

	return stmt, nil
}

func parseRowDeletionPolicyBody(s *scanner) (*ddl.RowDeletionPolicy, error) {
	body, err := s.consumeBalanced('(', ')')
	if err != nil {
		return nil, err
	}
	return parseRowDeletionPolicyInner(body)
}

func parseRowDeletionPolicyInner(body string) (*ddl.RowDeletionPolicy, error) {
	inner := newScanner(body)
	if err := inner.expectKeyword("OLDER_THAN"); err != nil {
		return nil, err
	}
	args, err := inner.consumeBalanced('(', ')')
	if err != nil {
		return nil, err
	}
	parts := splitTopLevelList(args)
	if len(parts) != 2 {
		return nil, fmt.Errorf("OLDER_THAN expects 2 arguments, got %d", len(parts))
	}
	return &ddl.RowDeletionPolicy{
		Column:       strings.TrimSpace(parts[0]),
		IntervalText: canonicalizeExpr(parts[1]),
	}, nil
}

// parseTableBody splits the CREATE TABLE column-list body sequentially
// into column defs and inline table constraints.
func parseTableBody(stmt *ddl.CreateTableStatement, body string) error {
	s := newScanner(body)
	for !s.eof() {
		switch {
		case s.matchKeyword("CONSTRAINT"):
			name := s.consumeWord()
			c, err := parseConstraintTail(s, name)
			if err != nil {
				return err
			}
			stmt.Constraints = append(stmt.Constraints, c)
		case peekIsKeyword(s, "CHECK"):
			c, err := parseConstraintTail(s, ddl.AnonymousConstraintName)
			if err != nil {
				return err
			}
			stmt.Constraints = append(stmt.Constraints, c)
		case peekIsKeyword(s, "FOREIGN"):
			s.matchKeyword("FOREIGN")
			c, err := parseForeignKeyTail(s, ddl.AnonymousConstraintName)
			if err != nil {
				return err
			}
			stmt.Constraints = append(stmt.Constraints, c)
		default:
			col, err := parseColumnDef(s)
			if err != nil {
				return err
			}
			stmt.Columns = append(stmt.Columns, col)
		}
		if !s.matchByte(',') {
			break
		}
	}
	return nil
}

func peekIsKeyword(s *scanner, kw string) bool {
	save := s.pos
	ok := s.matchKeyword(kw)
	s.pos = save
	return ok
}

// parseConstraintTail parses a CHECK(...) or FOREIGN KEY constraint
// starting at its CHECK/FOREIGN keyword, given that "CONSTRAINT name"
// (if present) has already been consumed.
func parseConstraintTail(s *scanner, name string) (*ddl.ConstraintNode, error) {
	switch {
	case s.matchKeyword("CHECK"):
		body, err := s.consumeBalanced('(', ')')
		if err != nil {
			return nil, err
		}
		return &ddl.ConstraintNode{Kind: ddl.ConstraintCheck, Name: name, CheckExpr: canonicalizeExpr(body)}, nil
	case s.matchKeyword("FOREIGN"):
		return parseForeignKeyTail(s, name)
	default:
		return nil, fmt.Errorf("unsupported constraint kind: %q", s.remainder(20))
	}
}

func parseForeignKeyTail(s *scanner, name string) (*ddl.ConstraintNode, error) {
	if err := s.expectKeyword("KEY"); err != nil {
		return nil, err
	}
	colsBody, err := s.consumeBalanced('(', ')')
	if err != nil {
		return nil, err
	}
	if err := s.expectKeyword("REFERENCES"); err != nil {
		return nil, err
	}
	refTable := s.consumeWord()
	refColsBody, err := s.consumeBalanced('(', ')')
	if err != nil {
		return nil, err
	}
	onDeleteCasc := false
	if s.matchKeyword("ON") {
		if err := s.expectKeyword("DELETE"); err != nil {
			return nil, err
		}
		switch {
		case s.matchKeyword("CASCADE"):
			onDeleteCasc = true
		case s.matchKeyword("NO"):
			if err := s.expectKeyword("ACTION"); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("expected CASCADE or NO ACTION after ON DELETE")
		}
	}
	return &ddl.ConstraintNode{
		Kind:         ddl.ConstraintForeignKey,
		Name:         name,
		Columns:      splitTopLevelList(colsBody),
		RefTable:     refTable,
		RefColumns:   splitTopLevelList(refColsBody),
		OnDeleteCasc: onDeleteCasc,
	}, nil
}

func parseColumnDef(s *scanner) (*ddl.ColumnDef, error) {
	name := s.consumeWord()
	if name == "" {
		return nil, fmt.Errorf("expected column name, got %q", s.remainder(20))
	}
	typ, err := parseColumnType(s)
	if err != nil {
		return nil, err
	}
	col := &ddl.ColumnDef{Name: name, Type: typ}

	if s.matchKeyword("AS") {
		genBody, err := s.consumeBalanced('(', ')')
		if err != nil {
			return nil, err
		}
		if err := s.expectKeyword("STORED"); err != nil {
			return nil, err
		}
		col.Generated = canonicalizeExpr(genBody)
	}

	if s.matchKeyword("NOT") {
		if err := s.expectKeyword("NULL"); err != nil {
			return nil, err
		}
		col.NotNull = true
	}

	if s.matchKeyword("DEFAULT") {
		defBody, err := s.consumeBalanced('(', ')')
		if err != nil {
			return nil, err
		}
		col.Default = canonicalizeExpr(defBody)
	}

	if s.matchKeyword("OPTIONS") {
		opts, err := parseOptionsBody(s)
		if err != nil {
			return nil, err
		}
		col.Options = opts
	}

	return col, nil
}

var scalarTypesWithLength = map[string]bool{"STRING": true, "BYTES": true}

func parseColumnType(s *scanner) (*ddl.ColumnType, error) {
	name := strings.ToUpper(s.consumeWord())
	if name == "" {
		return nil, fmt.Errorf("expected type name, got %q", s.remainder(20))
	}

	if name == "ARRAY" {
		if err := s.expectByte('<'); err != nil {
			return nil, err
		}
		elem, err := parseColumnType(s)
		if err != nil {
			return nil, err
		}
		if err := s.expectByte('>'); err != nil {
			return nil, err
		}
		return &ddl.ColumnType{Name: "ARRAY", Elem: elem}, nil
	}

	if name == "STRUCT" {
		if s.matchByte('<') {
			raw := s.consumeRawUntilAngleClose()
			return &ddl.ColumnType{Name: "STRUCT", RawBody: canonicalizeExpr(raw)}, nil
		}
		return &ddl.ColumnType{Name: "STRUCT"}, nil
	}

	t := &ddl.ColumnType{Name: name}
	if scalarTypesWithLength[name] && s.peekByte() == '(' {
		inner, err := s.consumeBalanced('(', ')')
		if err != nil {
			return nil, err
		}
		t.Length = strings.ToUpper(strings.TrimSpace(inner))
	}
	return t, nil
}

// consumeRawUntilAngleClose reads a STRUCT<...> body, respecting nested
// angle brackets from nested STRUCT/ARRAY members.
func (s *scanner) consumeRawUntilAngleClose() string {
	start := s.pos
	depth := 1
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				inner := s.src[start:s.pos]
				s.pos++
				return inner
			}
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

func parseOptionsBody(s *scanner) (*ddl.OptionsClause, error) {
	body, err := s.consumeBalanced('(', ')')
	if err != nil {
		return nil, err
	}
	return parseOptionsInner(body)
}

// parseOptionsInner parses an OPTIONS(...) payload that has already
// been stripped of its surrounding parens.
func parseOptionsInner(body string) (*ddl.OptionsClause, error) {
	entries := splitTopLevelList(body)
	clause := &ddl.OptionsClause{}
	for _, e := range entries {
		k, v, err := splitOption(e)
		if err != nil {
			return nil, err
		}
		clause.Pairs = append(clause.Pairs, ddl.OptionPair{Key: k, Value: v})
	}
	return clause, nil
}

func splitOption(entry string) (string, string, error) {
	idx := strings.IndexByte(entry, '=')
	if idx < 0 {
		return "", "", fmt.Errorf("invalid option entry %q, expected key=value", entry)
	}
	key := strings.TrimSpace(entry[:idx])
	value := strings.TrimSpace(entry[idx+1:])
	return key, value, nil
}

// splitTopLevelList splits a comma list respecting nested parens and
// quoted strings - used for column lists, key-part lists and options.
func splitTopLevelList(body string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '\'':
			i++
			for i < len(body) && body[i] != '\'' {
				i++
			}
		case ',':
			if depth == 0 {
				part := strings.TrimSpace(body[start:i])
				if part != "" {
					out = append(out, part)
				}
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(body[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// ---------------------------------------------------------------------
// CREATE INDEX
// ---------------------------------------------------------------------

func parseCreateIndex(s *scanner, fullStatementText string) (*ddl.CreateIndexStatement, error) {
	// s has consumed "CREATE"; zero or more of UNIQUE/NULL_FILTERED may
	// precede the INDEX keyword.
	for s.matchKeyword("UNIQUE") || s.matchKeyword("NULL_FILTERED") {
	}
	if err := s.expectKeyword("INDEX"); err != nil {
		return nil, err
	}
	name := s.consumeWord()
	if name == "" {
		return nil, fmt.Errorf("missing index name")
	}
	return &ddl.CreateIndexStatement{
		IndexName: name,
		FullText:  canonicalizeExpr(fullStatementText),
	}, nil
}

// ---------------------------------------------------------------------
// ALTER TABLE
// ---------------------------------------------------------------------

func parseAlterTable(s *scanner) (*ddl.AlterTableStatement, error) {
	tableName := s.consumeWord()
	if tableName == "" {
		return nil, fmt.Errorf("missing table name")
	}
	if err := s.expectKeyword("ADD"); err != nil {
		return nil, err
	}

	switch {
	case s.matchKeyword("CONSTRAINT"):
		name := s.consumeWord()
		c, err := parseConstraintTail(s, name)
		if err != nil {
			return nil, err
		}
		return &ddl.AlterTableStatement{TableName: tableName, Action: ddl.AlterAddConstraint, Constraint: c}, nil
	case peekIsKeyword(s, "CHECK"):
		c, err := parseConstraintTail(s, ddl.AnonymousConstraintName)
		if err != nil {
			return nil, err
		}
		return &ddl.AlterTableStatement{TableName: tableName, Action: ddl.AlterAddConstraint, Constraint: c}, nil
	case peekIsKeyword(s, "FOREIGN"):
		s.matchKeyword("FOREIGN")
		c, err := parseForeignKeyTail(s, ddl.AnonymousConstraintName)
		if err != nil {
			return nil, err
		}
		return &ddl.AlterTableStatement{TableName: tableName, Action: ddl.AlterAddConstraint, Constraint: c}, nil
	case s.matchKeyword("ROW"):
		if err := s.expectKeyword("DELETION"); err != nil {
			return nil, err
		}
		if err := s.expectKeyword("POLICY"); err != nil {
			return nil, err
		}
		ttl, err := parseRowDeletionPolicyBody(s)
		if err != nil {
			return nil, err
		}
		return &ddl.AlterTableStatement{TableName: tableName, Action: ddl.AlterAddRowDeletionPolicy, TTL: ttl}, nil
	default:
		return nil, fmt.Errorf(
			"unsupported ALTER TABLE statement; only ADD CONSTRAINT/CHECK/FOREIGN KEY/ROW DELETION POLICY are supported, got %q",
			s.remainder(30))
	}
}

// ---------------------------------------------------------------------
// ALTER DATABASE
// ---------------------------------------------------------------------

func parseAlterDatabase(s *scanner) (*ddl.AlterDatabaseStatement, error) {
	dbName := s.consumeWord()
	if dbName == "" {
		return nil, fmt.Errorf("missing database name")
	}
	if err := s.expectKeyword("SET"); err != nil {
		return nil, err
	}
	if err := s.expectKeyword("OPTIONS"); err != nil {
		return nil, err
	}
	opts, err := parseOptionsBody(s)
	if err != nil {
		return nil, err
	}
	return &ddl.AlterDatabaseStatement{DbName: dbName, Options: opts}, nil
}

// ---------------------------------------------------------------------
// CREATE CHANGE STREAM
// ---------------------------------------------------------------------

func parseCreateChangeStream(s *scanner) (*ddl.CreateChangeStreamStatement, error) {
	if err := s.expectKeyword("STREAM"); err != nil {
		return nil, err
	}
	name := s.consumeWord()
	if name == "" {
		return nil, fmt.Errorf("missing change stream name")
	}
	stmt := &ddl.CreateChangeStreamStatement{Name: name}

	if s.matchKeyword("FOR") {
		forBody := s.consumeRawUntilTopLevel("") // consumes the rest of the statement
		// consumeRawUntilTopLevel with an empty stop set reads to end of
		// input; re-scan looking specifically for a top-level OPTIONS.
		forText, optionsText, err := splitForAndOptions(forBody)
		if err != nil {
			return nil, err
		}
		stmt.ForText = canonicalizeExpr(forText)
		if optionsText != "" {
			opts, err := parseOptionsInner(optionsText)
			if err != nil {
				return nil, err
			}
			stmt.OptionsText = opts.CanonicalText()
		}
		return stmt, nil
	}

	if s.matchKeyword("OPTIONS") {
		opts, err := parseOptionsBody(s)
		if err != nil {
			return nil, err
		}
		stmt.OptionsText = opts.CanonicalText()
	}
	return stmt, nil
}

// splitForAndOptions splits the remainder of a CREATE CHANGE STREAM
// statement (after "FOR ") into the FOR-clause text and a trailing
// "OPTIONS (...)" clause, if present.
func splitForAndOptions(rest string) (forText, optionsClauseBody string, err error) {
	idx := findTopLevelKeyword(rest, "OPTIONS")
	if idx < 0 {
		return strings.TrimSpace(rest), "", nil
	}
	forText = strings.TrimSpace(rest[:idx])
	s := newScanner(rest[idx:])
	if err := s.expectKeyword("OPTIONS"); err != nil {
		return "", "", err
	}
	body, err := s.consumeBalanced('(', ')')
	if err != nil {
		return "", "", err
	}
	return forText, body, nil
}

func findTopLevelKeyword(s string, kw string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && i+len(kw) <= len(s) && strings.EqualFold(s[i:i+len(kw)], kw) {
			// ensure word boundary
			before := byte(' ')
			if i > 0 {
				before = s[i-1]
			}
			after := byte(' ')
			if i+len(kw) < len(s) {
				after = s[i+len(kw)]
			}
			if !isIdentByte(before) && !isIdentByte(after) {
				return i
			}
		}
	}
	return -1
}
