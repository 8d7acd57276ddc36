package builder

// Query is a statement that a QueryCompiler can compile.
type Query interface {
	Kind() QueryKind
}

// OrderDirection is the direction of an order by term.
type OrderDirection string

// Order directions.
const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

type orderTerm struct {
	col string
	dir OrderDirection
}

// SelectQuery is a SELECT statement.
type SelectQuery struct {
	columns  []string
	table    string
	where    []Predicate
	order    []orderTerm
	limit    *int
	offset   *int
	distinct bool
}

// Select starts a SELECT statement. No columns selects `*`.
func Select(columns ...string) *SelectQuery {
	return &SelectQuery{columns: columns}
}

// From sets the table to select from.
func (q *SelectQuery) From(table string) *SelectQuery {
	q.table = table
	return q
}

// Distinct makes the statement return distinct rows.
func (q *SelectQuery) Distinct() *SelectQuery {
	q.distinct = true
	return q
}

// Where appends predicates joined with AND.
func (q *SelectQuery) Where(preds ...Predicate) *SelectQuery {
	q.where = append(q.where, preds...)
	return q
}

// OrderBy appends an order by term.
func (q *SelectQuery) OrderBy(col string, dir OrderDirection) *SelectQuery {
	q.order = append(q.order, orderTerm{col: col, dir: dir})
	return q
}

// Limit limits the number of returned rows.
func (q *SelectQuery) Limit(n int) *SelectQuery {
	q.limit = &n
	return q
}

// Offset skips the first n rows.
func (q *SelectQuery) Offset(n int) *SelectQuery {
	q.offset = &n
	return q
}

// Kind implements Query.
func (*SelectQuery) Kind() QueryKind { return KindSelect }

// InsertQuery is an INSERT statement.
type InsertQuery struct {
	table     string
	columns   []string
	rows      [][]any
	returning []string
}

// Insert starts an INSERT statement.
func Insert(table string) *InsertQuery {
	return &InsertQuery{table: table}
}

// Columns sets the inserted columns.
func (q *InsertQuery) Columns(cols ...string) *InsertQuery {
	q.columns = cols
	return q
}

// Values appends a row of values. Each call adds one row.
func (q *InsertQuery) Values(vals ...any) *InsertQuery {
	q.rows = append(q.rows, vals)
	return q
}

// Returning sets the columns returned for each inserted row.
func (q *InsertQuery) Returning(cols ...string) *InsertQuery {
	q.returning = cols
	return q
}

// Kind implements Query.
func (*InsertQuery) Kind() QueryKind { return KindInsert }

type assignment struct {
	col string
	val any
}

// UpdateQuery is an UPDATE statement.
type UpdateQuery struct {
	table     string
	set       []assignment
	where     []Predicate
	returning []string
}

// Update starts an UPDATE statement.
func Update(table string) *UpdateQuery {
	return &UpdateQuery{table: table}
}

// Set appends a column assignment.
func (q *UpdateQuery) Set(col string, v any) *UpdateQuery {
	q.set = append(q.set, assignment{col: col, val: v})
	return q
}

// Where appends predicates joined with AND.
func (q *UpdateQuery) Where(preds ...Predicate) *UpdateQuery {
	q.where = append(q.where, preds...)
	return q
}

// Returning sets the columns returned for each updated row.
func (q *UpdateQuery) Returning(cols ...string) *UpdateQuery {
	q.returning = cols
	return q
}

// Kind implements Query.
func (*UpdateQuery) Kind() QueryKind { return KindUpdate }

// DeleteQuery is a DELETE statement.
type DeleteQuery struct {
	table     string
	where     []Predicate
	returning []string
}

// Delete starts a DELETE statement.
func Delete(table string) *DeleteQuery {
	return &DeleteQuery{table: table}
}

// Where appends predicates joined with AND.
func (q *DeleteQuery) Where(preds ...Predicate) *DeleteQuery {
	q.where = append(q.where, preds...)
	return q
}

// Returning sets the columns returned for each deleted row.
func (q *DeleteQuery) Returning(cols ...string) *DeleteQuery {
	q.returning = cols
	return q
}

// Kind implements Query.
func (*DeleteQuery) Kind() QueryKind { return KindDelete }

// RawQuery is a statement written by hand. Its SQL is passed through as is,
// so placeholders must already be in the target dialect.
type RawQuery struct {
	sql    string
	params []any
}

// Raw returns a hand written statement.
func Raw(sql string, params ...any) *RawQuery {
	return &RawQuery{sql: sql, params: params}
}

// Kind implements Query.
func (*RawQuery) Kind() QueryKind { return KindRaw }
