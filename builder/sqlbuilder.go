package builder

import (
	"errors"
	"strconv"
	"strings"
)

// returning is how a dialect hands back rows from a write statement.
type returning uint8

const (
	returningNone returning = iota
	returningClause
	returningOutput
)

// syntax holds the lexical rules of one dialect.
type syntax struct {
	name string
	// open and close quote identifiers; close is doubled to escape it.
	open, close byte
	// numbered placeholders ($1, @1) instead of `?`.
	prefix   byte
	numbered bool
	ret      returning
	// top renders limits as `top(n)` and offsets as `offset n rows`.
	top bool
	// defaultValues is the tail of an insert without columns.
	defaultValues string
}

var (
	mysqlSyntax = &syntax{
		name: "mysql", open: '`', close: '`', prefix: '?',
		ret: returningNone, defaultValues: "() values ()",
	}
	postgresSyntax = &syntax{
		name: "postgres", open: '"', close: '"', prefix: '$', numbered: true,
		ret: returningClause, defaultValues: "default values",
	}
	sqliteSyntax = &syntax{
		name: "sqlite", open: '"', close: '"', prefix: '?',
		ret: returningClause, defaultValues: "default values",
	}
	mssqlSyntax = &syntax{
		name: "mssql", open: '[', close: ']', prefix: '@', numbered: true,
		ret: returningOutput, top: true, defaultValues: "default values",
	}
)

// Builder is a low-level SQL string builder with identifier quoting and
// parameter placeholders of a given dialect. Predicates write themselves
// into a Builder.
type Builder struct {
	sb   strings.Builder
	args []any
	syn  *syntax
	errs []error
}

func newBuilder(s *syntax) *Builder {
	return &Builder{syn: s}
}

// WriteString appends s verbatim.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// WriteByte appends c verbatim.
func (b *Builder) WriteByte(c byte) error {
	return b.sb.WriteByte(c)
}

// Pad appends a space.
func (b *Builder) Pad() *Builder {
	b.sb.WriteByte(' ')
	return b
}

// Ident appends a quoted identifier. Dotted names are quoted per part and
// `*` is left as is.
func (b *Builder) Ident(name string) *Builder {
	for i, part := range strings.Split(name, ".") {
		if i > 0 {
			b.sb.WriteByte('.')
		}
		if part == "*" {
			b.sb.WriteByte('*')
			continue
		}
		b.sb.WriteByte(b.syn.open)
		b.sb.WriteString(strings.ReplaceAll(part, string(b.syn.close), string([]byte{b.syn.close, b.syn.close})))
		b.sb.WriteByte(b.syn.close)
	}
	return b
}

// IdentComma appends a comma separated list of quoted identifiers.
func (b *Builder) IdentComma(names ...string) *Builder {
	for i, n := range names {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.Ident(n)
	}
	return b
}

// Arg appends a placeholder and records v as its parameter.
func (b *Builder) Arg(v any) *Builder {
	b.args = append(b.args, v)
	b.sb.WriteByte(b.syn.prefix)
	if b.syn.numbered {
		b.sb.WriteString(strconv.Itoa(len(b.args)))
	}
	return b
}

// Args appends a comma separated list of placeholders.
func (b *Builder) Args(vs ...any) *Builder {
	for i, v := range vs {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.Arg(v)
	}
	return b
}

// Nested wraps the output of f in parentheses.
func (b *Builder) Nested(f func(*Builder)) *Builder {
	b.sb.WriteByte('(')
	f(b)
	b.sb.WriteByte(')')
	return b
}

// AddError records an error reported by Query.
func (b *Builder) AddError(err error) *Builder {
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Query returns the SQL text, its parameters and any recorded error.
func (b *Builder) Query() (string, []any, error) {
	return b.sb.String(), b.args, errors.Join(b.errs...)
}

// Dialect returns the name of the builder's dialect.
func (b *Builder) Dialect() string {
	return b.syn.name
}
