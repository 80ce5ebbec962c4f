package store

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Dialect renders the SQL that differs between databases
type Dialect interface {
	// Name returns the dialect name used in configuration
	Name() string
	// Quote quotes an identifier
	Quote(ident string) string
	// Placeholder returns the n-th (1-based) bind placeholder
	Placeholder(n int) string
	// In renders "column IN values" with placeholders starting at next
	In(column string, values []any, next int) (string, []any)
}

// Postgres matches a set with "= ANY($n)" and a single array argument
type Postgres struct{}

// Name implements Dialect
func (Postgres) Name() string { return "postgres" }

// Quote implements Dialect
func (Postgres) Quote(ident string) string { return pq.QuoteIdentifier(ident) }

// Placeholder implements Dialect
func (Postgres) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

// In implements Dialect
func (d Postgres) In(column string, values []any, next int) (string, []any) {
	return fmt.Sprintf("%s = ANY(%s)", d.Quote(column), d.Placeholder(next)), []any{pq.Array(values)}
}

// SQLite expands a set into "IN (?, ?, ...)"
type SQLite struct{}

// Name implements Dialect
func (SQLite) Name() string { return "sqlite3" }

// Quote implements Dialect
func (SQLite) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// Placeholder implements Dialect
func (SQLite) Placeholder(int) string { return "?" }

// In implements Dialect
func (d SQLite) In(column string, values []any, _ int) (string, []any) {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	return fmt.Sprintf("%s IN (%s)", d.Quote(column), marks), values
}

// DialectFor returns the dialect for a database/sql driver name
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return Postgres{}, nil
	case "sqlite3", "sqlite":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// selectQuery accumulates a SELECT statement and its arguments
type selectQuery struct {
	dialect Dialect
	table   string
	where   []string
	args    []any
	order   string
	limit   int
	offset  int
}

func newSelect(dialect Dialect, schema *Schema) *selectQuery {
	q := &selectQuery{dialect: dialect, table: schema.Table}
	quoted := make([]string, len(schema.PrimaryKey))
	for i, column := range schema.PrimaryKey {
		quoted[i] = dialect.Quote(column)
	}
	q.order = strings.Join(quoted, ", ")
	return q
}

func (q *selectQuery) eq(column string, value any) {
	q.args = append(q.args, value)
	q.where = append(q.where, fmt.Sprintf("%s = %s", q.dialect.Quote(column), q.dialect.Placeholder(len(q.args))))
}

func (q *selectQuery) in(column string, values []any) {
	clause, args := q.dialect.In(column, values, len(q.args)+1)
	q.where = append(q.where, clause)
	q.args = append(q.args, args...)
}

// orderBy replaces the default primary key order. Each comma separated
// term is "column" or "column ASC|DESC".
func (q *selectQuery) orderBy(clause string) {
	if strings.TrimSpace(clause) == "" {
		return
	}
	terms := strings.Split(clause, ",")
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		fields := strings.Fields(term)
		if len(fields) == 0 {
			continue
		}
		part := q.dialect.Quote(fields[0])
		if len(fields) > 1 {
			if dir := strings.ToUpper(fields[1]); dir == "ASC" || dir == "DESC" {
				part += " " + dir
			}
		}
		quoted = append(quoted, part)
	}
	if len(quoted) > 0 {
		q.order = strings.Join(quoted, ", ")
	}
}

func (q *selectQuery) build(columns string) (string, []any) {
	var sb strings.Builder
	args := append([]any(nil), q.args...)

	fmt.Fprintf(&sb, "SELECT %s FROM %s", columns, q.dialect.Quote(q.table))
	if len(q.where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(q.where, " AND "))
	}
	if columns == "COUNT(*)" {
		return sb.String(), args
	}
	if q.order != "" {
		sb.WriteString(" ORDER BY " + q.order)
	}
	if q.limit > 0 {
		args = append(args, q.limit)
		fmt.Fprintf(&sb, " LIMIT %s", q.dialect.Placeholder(len(args)))
		args = append(args, q.offset)
		fmt.Fprintf(&sb, " OFFSET %s", q.dialect.Placeholder(len(args)))
	}
	return sb.String(), args
}
