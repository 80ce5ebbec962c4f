package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/conduit-lang/jsonres/pkg/resource"
	"go.uber.org/zap"
)

// DefaultMaxDepth bounds how deeply include paths may nest
const DefaultMaxDepth = 10

// Querier is an interface for executing SQL queries, allowing for testing and instrumentation
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Loader reads records from a SQL database and eager-loads their
// relations with one batched query per relation and level, which keeps
// included documents free of N+1 queries.
type Loader struct {
	db       Querier
	dialect  Dialect
	schemas  map[string]*Schema
	logger   *zap.Logger
	maxDepth int
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithLogger sets the loader's logger
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMaxDepth overrides DefaultMaxDepth
func WithMaxDepth(depth int) LoaderOption {
	return func(l *Loader) {
		if depth > 0 {
			l.maxDepth = depth
		}
	}
}

// NewLoader creates a loader over schemas, indexed by type
func NewLoader(db Querier, dialect Dialect, schemas []*Schema, opts ...LoaderOption) *Loader {
	l := &Loader{
		db:       db,
		dialect:  dialect,
		schemas:  make(map[string]*Schema, len(schemas)),
		logger:   zap.NewNop(),
		maxDepth: DefaultMaxDepth,
	}
	for _, s := range schemas {
		l.schemas[s.Type] = s
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) schema(typeName string) (*Schema, error) {
	s, ok := l.schemas[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
	}
	return s, nil
}

// Find loads one record by its formatted key. Composite keys are split
// on "-" from the right, so only the first key column may contain "-".
func (l *Loader) Find(ctx context.Context, typeName, id string, includes []string) (*Record, error) {
	s, err := l.schema(typeName)
	if err != nil {
		return nil, err
	}

	parts := []string{id}
	if len(s.PrimaryKey) > 1 {
		parts = splitKey(id, len(s.PrimaryKey))
		if parts == nil {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, typeName, id)
		}
	}

	q := newSelect(l.dialect, s)
	for i, column := range s.PrimaryKey {
		q.eq(column, parts[i])
	}

	records, err := l.run(ctx, q, s)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, typeName, id)
	}

	if err := l.EagerLoad(ctx, records[:1], s, includes); err != nil {
		return nil, err
	}
	return records[0], nil
}

// splitKey splits a formatted composite key into n parts, taking the
// trailing parts first. It returns nil when the key has fewer parts.
func splitKey(id string, n int) []string {
	parts := make([]string, n)
	for i := n - 1; i > 0; i-- {
		at := strings.LastIndex(id, "-")
		if at < 0 {
			return nil
		}
		parts[i] = id[at+1:]
		id = id[:at]
	}
	parts[0] = id
	return parts
}

// List loads a window of records ordered by primary key
func (l *Loader) List(ctx context.Context, typeName string, query Query) ([]*Record, error) {
	s, err := l.schema(typeName)
	if err != nil {
		return nil, err
	}

	q := newSelect(l.dialect, s)
	for _, cond := range query.Where {
		q.eq(cond.Column, cond.Value)
	}
	q.limit = query.Limit
	q.offset = query.Offset

	records, err := l.run(ctx, q, s)
	if err != nil {
		return nil, err
	}

	if err := l.EagerLoad(ctx, records, s, query.Includes); err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the number of records matching the conditions
func (l *Loader) Count(ctx context.Context, typeName string, where ...Condition) (int, error) {
	s, err := l.schema(typeName)
	if err != nil {
		return 0, err
	}

	q := newSelect(l.dialect, s)
	for _, cond := range where {
		q.eq(cond.Column, cond.Value)
	}
	sqlText, args := q.build("COUNT(*)")

	rows, err := l.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", typeName, err)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, fmt.Errorf("failed to scan count of %s: %w", typeName, err)
		}
	}
	return count, rows.Err()
}

// EagerLoad loads every relation of the records, then follows the include
// paths into the related records and repeats. Records on every included
// level therefore carry complete relationship linkage. Include segments
// without a relation are skipped.
func (l *Loader) EagerLoad(ctx context.Context, records []*Record, s *Schema, includes []string) error {
	tree := parseIncludes(includes)
	if depth := tree.depth(); depth > l.maxDepth {
		return fmt.Errorf("%w: %d levels, limit %d", ErrMaxDepthExceeded, depth, l.maxDepth)
	}
	return l.load(ctx, records, s, tree)
}

func (l *Loader) load(ctx context.Context, records []*Record, s *Schema, tree includeTree) error {
	if len(records) == 0 {
		return nil
	}

	for _, name := range tree.names() {
		if _, ok := s.Relationship(name); !ok {
			l.logger.Debug("skipping include without relationship",
				zap.String("type", s.Type),
				zap.String("relationship", name),
			)
		}
	}

	for _, rel := range s.Relationships() {
		related, err := l.loadRelationship(ctx, records, s, rel)
		if err != nil {
			return fmt.Errorf("failed to load relationship %s.%s: %w", s.Type, rel.Name, err)
		}

		nested, ok := tree[rel.Name]
		if !ok || len(related) == 0 {
			continue
		}
		target, err := l.schema(rel.Target)
		if err != nil {
			return err
		}
		if err := l.load(ctx, related, target, nested); err != nil {
			return err
		}
	}

	return nil
}

// loadRelationship loads one relation for all records and returns the
// distinct related records
func (l *Loader) loadRelationship(ctx context.Context, records []*Record, owner *Schema, rel *Relationship) ([]*Record, error) {
	target, err := l.schema(rel.Target)
	if err != nil {
		return nil, err
	}

	switch rel.Type {
	case BelongsTo:
		return l.loadBelongsTo(ctx, records, rel, target)
	case HasOne, HasMany:
		return l.loadChildren(ctx, records, owner, rel, target)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidRelationType, rel.Type)
	}
}

// loadBelongsTo loads belongs-to relations using a batched IN query
// Example: Post belongs_to User
//   - Collect all unique author_ids from posts
//   - Single query: SELECT * FROM users WHERE id IN (...)
//   - Map users back to posts
func (l *Loader) loadBelongsTo(ctx context.Context, records []*Record, rel *Relationship, target *Schema) ([]*Record, error) {
	key, err := target.keyColumn()
	if err != nil {
		return nil, err
	}

	var ids []any
	seen := make(map[string]bool)
	for _, r := range records {
		if id, ok := r.fields[rel.ForeignKey]; ok && id != nil {
			formatted := resource.FormatKey(id)
			if !seen[formatted] {
				seen[formatted] = true
				ids = append(ids, id)
			}
		}
	}

	if len(ids) == 0 {
		for _, r := range records {
			r.SetRelation(rel.Name, resource.NoRelation)
		}
		return nil, nil
	}

	q := newSelect(l.dialect, target)
	q.in(key, ids)
	related, err := l.run(ctx, q, target)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*Record, len(related))
	for _, r := range related {
		byKey[resource.FormatKey(r.Key())] = r
	}

	for _, r := range records {
		parent, ok := byKey[resource.FormatKey(r.fields[rel.ForeignKey])]
		if !ok {
			r.SetRelation(rel.Name, resource.NoRelation)
			continue
		}
		r.SetRelation(rel.Name, resource.One(parent))
	}

	return related, nil
}

// loadChildren loads has-one and has-many relations using a batched IN query
// Example: Post has_many Comment
//   - Collect all post IDs
//   - Single query: SELECT * FROM comments WHERE post_id IN (...)
//   - Group comments by post_id and attach them to posts
//
// A has-one relation takes the first child in order.
func (l *Loader) loadChildren(ctx context.Context, records []*Record, owner *Schema, rel *Relationship, target *Schema) ([]*Record, error) {
	key, err := owner.keyColumn()
	if err != nil {
		return nil, err
	}

	var ids []any
	seen := make(map[string]bool)
	for _, r := range records {
		if id := r.fields[key]; id != nil {
			formatted := resource.FormatKey(id)
			if !seen[formatted] {
				seen[formatted] = true
				ids = append(ids, id)
			}
		}
	}

	if len(ids) == 0 {
		return nil, nil
	}

	q := newSelect(l.dialect, target)
	q.in(rel.ForeignKey, ids)
	q.orderBy(rel.OrderBy)
	children, err := l.run(ctx, q, target)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*Record)
	for _, child := range children {
		parent := resource.FormatKey(child.fields[rel.ForeignKey])
		grouped[parent] = append(grouped[parent], child)
	}

	var attached []*Record
	for _, r := range records {
		group := grouped[resource.FormatKey(r.fields[key])]
		if rel.Type == HasMany {
			r.SetRelation(rel.Name, resource.Many(Entities(group)...))
			continue
		}
		if len(group) == 0 {
			r.SetRelation(rel.Name, resource.NoRelation)
			continue
		}
		r.SetRelation(rel.Name, resource.One(group[0]))
		attached = append(attached, group[0])
	}

	if rel.Type == HasMany {
		return children, nil
	}
	return attached, nil
}

func (l *Loader) run(ctx context.Context, q *selectQuery, s *Schema) ([]*Record, error) {
	sqlText, args := q.build("*")
	l.logger.Debug("query", zap.String("sql", sqlText), zap.Int("args", len(args)))

	rows, err := l.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.Table, err)
	}
	defer rows.Close()

	records, err := scanRows(rows, s)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s records: %w", s.Table, err)
	}
	return records, nil
}

// scanRows scans multiple SQL rows into records
func scanRows(rows *sql.Rows, s *Schema) ([]*Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []*Record
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		fields := make(map[string]any, len(columns))
		for i, col := range columns {
			// Handle []byte conversion to string for text fields
			if b, ok := values[i].([]byte); ok {
				fields[col] = string(b)
			} else {
				fields[col] = values[i]
			}
		}

		results = append(results, NewRecord(s, fields))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// includeTree is the set of dotted include paths as nested relation names
type includeTree map[string]includeTree

// parseIncludes merges paths like "comments" and "comments.author" into
// one tree so shared prefixes load once
func parseIncludes(paths []string) includeTree {
	tree := includeTree{}
	for _, path := range paths {
		node := tree
		for _, segment := range strings.Split(path, ".") {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				break
			}
			child, ok := node[segment]
			if !ok {
				child = includeTree{}
				node[segment] = child
			}
			node = child
		}
	}
	return tree
}

func (t includeTree) depth() int {
	deepest := 0
	for _, child := range t {
		if d := child.depth() + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

func (t includeTree) names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
