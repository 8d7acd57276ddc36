package builder

import (
	"errors"
	"fmt"
)

// ErrReturningUnsupported is returned when a statement asks for returned
// rows on a database that cannot produce them.
var ErrReturningUnsupported = errors.New("returning is not supported")

// compiler is a QueryCompiler for one syntax. Keywords are lower case.
type compiler struct {
	syn *syntax
}

// Compile implements QueryCompiler.
func (c compiler) Compile(q Query) (CompiledQuery, error) {
	b := newBuilder(c.syn)
	switch q := q.(type) {
	case *SelectQuery:
		c.selectQuery(b, q)
	case *InsertQuery:
		c.insertQuery(b, q)
	case *UpdateQuery:
		c.updateQuery(b, q)
	case *DeleteQuery:
		c.deleteQuery(b, q)
	case *RawQuery:
		params := q.params
		if params == nil {
			params = []any{}
		}
		return CompiledQuery{SQL: q.sql, Parameters: params, Kind: KindRaw}, nil
	case nil:
		return CompiledQuery{}, errors.New("builder: compile: nil query")
	default:
		return CompiledQuery{}, fmt.Errorf("builder: compile: unsupported query type %T", q)
	}
	query, args, err := b.Query()
	if err != nil {
		return CompiledQuery{}, fmt.Errorf("builder: compile %s: %w", q.Kind(), err)
	}
	if args == nil {
		args = []any{}
	}
	return CompiledQuery{SQL: query, Parameters: args, Kind: q.Kind()}, nil
}

func (c compiler) selectQuery(b *Builder, q *SelectQuery) {
	if q.table == "" {
		b.AddError(errors.New("missing table"))
	}
	b.WriteString("select ")
	if q.distinct {
		b.WriteString("distinct ")
	}
	useTop := c.syn.top && q.limit != nil && q.offset == nil
	if useTop {
		b.WriteString("top").Nested(func(b *Builder) { b.Arg(*q.limit) }).Pad()
	}
	if len(q.columns) == 0 {
		b.WriteString("*")
	} else {
		b.IdentComma(q.columns...)
	}
	b.WriteString(" from ").Ident(q.table)
	c.where(b, q.where)
	if len(q.order) > 0 {
		b.WriteString(" order by ")
		for i, o := range q.order {
			if i > 0 {
				b.WriteString(", ")
			}
			dir := o.dir
			if dir == "" {
				dir = OrderAsc
			}
			b.Ident(o.col).Pad().WriteString(string(dir))
		}
	}
	switch {
	case useTop:
	case c.syn.top:
		if q.offset != nil {
			b.WriteString(" offset ").Arg(*q.offset).WriteString(" rows")
			if q.limit != nil {
				b.WriteString(" fetch next ").Arg(*q.limit).WriteString(" rows only")
			}
		}
	default:
		if q.limit != nil {
			b.WriteString(" limit ").Arg(*q.limit)
		}
		if q.offset != nil {
			b.WriteString(" offset ").Arg(*q.offset)
		}
	}
}

func (c compiler) insertQuery(b *Builder, q *InsertQuery) {
	switch {
	case q.table == "":
		b.AddError(errors.New("missing table"))
	case len(q.columns) == 0 && len(q.rows) > 0:
		b.AddError(errors.New("values without columns"))
	case len(q.columns) > 0 && len(q.rows) == 0:
		b.AddError(errors.New("columns without values"))
	}
	b.WriteString("insert into ").Ident(q.table)
	if len(q.columns) == 0 {
		c.output(b, "inserted", q.returning)
		b.Pad().WriteString(c.syn.defaultValues)
		c.returning(b, q.returning)
		return
	}
	b.Pad().Nested(func(b *Builder) { b.IdentComma(q.columns...) })
	c.output(b, "inserted", q.returning)
	b.WriteString(" values ")
	for i, row := range q.rows {
		if len(row) != len(q.columns) {
			b.AddError(fmt.Errorf("row %d has %d values for %d columns", i+1, len(row), len(q.columns)))
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.Nested(func(b *Builder) { b.Args(row...) })
	}
	c.returning(b, q.returning)
}

func (c compiler) updateQuery(b *Builder, q *UpdateQuery) {
	if q.table == "" {
		b.AddError(errors.New("missing table"))
	}
	if len(q.set) == 0 {
		b.AddError(errors.New("no columns to set"))
	}
	b.WriteString("update ").Ident(q.table).WriteString(" set ")
	for i, a := range q.set {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Ident(a.col).WriteString(" = ").Arg(a.val)
	}
	c.output(b, "inserted", q.returning)
	c.where(b, q.where)
	c.returning(b, q.returning)
}

func (c compiler) deleteQuery(b *Builder, q *DeleteQuery) {
	if q.table == "" {
		b.AddError(errors.New("missing table"))
	}
	b.WriteString("delete from ").Ident(q.table)
	c.output(b, "deleted", q.returning)
	c.where(b, q.where)
	c.returning(b, q.returning)
}

func (compiler) where(b *Builder, preds []Predicate) {
	if len(preds) == 0 {
		return
	}
	b.WriteString(" where ")
	for i, p := range preds {
		if i > 0 {
			b.WriteString(" and ")
		}
		p(b)
	}
}

// output writes an MSSQL output clause reading from the given pseudo table.
func (c compiler) output(b *Builder, table string, cols []string) {
	if len(cols) == 0 || c.syn.ret != returningOutput {
		return
	}
	b.WriteString(" output ")
	for i, col := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(table).WriteString(".").Ident(col)
	}
}

func (c compiler) returning(b *Builder, cols []string) {
	if len(cols) == 0 {
		return
	}
	switch c.syn.ret {
	case returningClause:
		b.WriteString(" returning ").IdentComma(cols...)
	case returningNone:
		b.AddError(fmt.Errorf("%w by %s", ErrReturningUnsupported, c.syn.name))
	}
}
