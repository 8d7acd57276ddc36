package builder

// Predicate is a boolean expression written into a where clause.
type Predicate func(*Builder)

func compare(col, op string, v any) Predicate {
	return func(b *Builder) {
		b.Ident(col).Pad().WriteString(op).Pad().Arg(v)
	}
}

// EQ returns a predicate that checks if the column equals v.
func EQ(col string, v any) Predicate { return compare(col, "=", v) }

// NEQ returns a predicate that checks if the column does not equal v.
func NEQ(col string, v any) Predicate { return compare(col, "<>", v) }

// GT returns a predicate that checks if the column is greater than v.
func GT(col string, v any) Predicate { return compare(col, ">", v) }

// GTE returns a predicate that checks if the column is greater than or equal to v.
func GTE(col string, v any) Predicate { return compare(col, ">=", v) }

// LT returns a predicate that checks if the column is less than v.
func LT(col string, v any) Predicate { return compare(col, "<", v) }

// LTE returns a predicate that checks if the column is less than or equal to v.
func LTE(col string, v any) Predicate { return compare(col, "<=", v) }

// Like returns a predicate that matches the column against a LIKE pattern.
func Like(col, pattern string) Predicate { return compare(col, "like", pattern) }

// IsNull returns a predicate that checks if the column is NULL.
func IsNull(col string) Predicate {
	return func(b *Builder) {
		b.Ident(col).WriteString(" is null")
	}
}

// NotNull returns a predicate that checks if the column is not NULL.
func NotNull(col string) Predicate {
	return func(b *Builder) {
		b.Ident(col).WriteString(" is not null")
	}
}

// In returns a predicate that checks if the column value is in vs.
// An empty list matches nothing.
func In(col string, vs ...any) Predicate {
	return func(b *Builder) {
		if len(vs) == 0 {
			b.WriteString("1 = 0")
			return
		}
		b.Ident(col).WriteString(" in ").Nested(func(b *Builder) {
			b.Args(vs...)
		})
	}
}

// NotIn returns a predicate that checks if the column value is not in vs.
// An empty list matches everything.
func NotIn(col string, vs ...any) Predicate {
	return func(b *Builder) {
		if len(vs) == 0 {
			b.WriteString("1 = 1")
			return
		}
		b.Ident(col).WriteString(" not in ").Nested(func(b *Builder) {
			b.Args(vs...)
		})
	}
}

// And joins predicates with AND.
func And(preds ...Predicate) Predicate { return join("and", preds) }

// Or joins predicates with OR.
func Or(preds ...Predicate) Predicate { return join("or", preds) }

// Not negates a predicate.
func Not(p Predicate) Predicate {
	return func(b *Builder) {
		b.WriteString("not ").Nested(p)
	}
}

func join(op string, preds []Predicate) Predicate {
	return func(b *Builder) {
		switch len(preds) {
		case 0:
			if op == "and" {
				b.WriteString("1 = 1")
			} else {
				b.WriteString("1 = 0")
			}
		case 1:
			preds[0](b)
		default:
			b.Nested(func(b *Builder) {
				for i, p := range preds {
					if i > 0 {
						b.Pad().WriteString(op).Pad()
					}
					p(b)
				}
			})
		}
	}
}

// Column is a typed column name that builds predicates over values of T.
//
// Usage:
//
//	var Gender = builder.Column[string]("gender")
//	builder.Select("id").From("person").Where(Gender.EQ("female"))
type Column[T any] string

// Name returns the column name.
func (c Column[T]) Name() string { return string(c) }

// EQ returns a predicate that checks if the column equals v.
func (c Column[T]) EQ(v T) Predicate { return EQ(string(c), v) }

// NEQ returns a predicate that checks if the column does not equal v.
func (c Column[T]) NEQ(v T) Predicate { return NEQ(string(c), v) }

// GT returns a predicate that checks if the column is greater than v.
func (c Column[T]) GT(v T) Predicate { return GT(string(c), v) }

// GTE returns a predicate that checks if the column is greater than or equal to v.
func (c Column[T]) GTE(v T) Predicate { return GTE(string(c), v) }

// LT returns a predicate that checks if the column is less than v.
func (c Column[T]) LT(v T) Predicate { return LT(string(c), v) }

// LTE returns a predicate that checks if the column is less than or equal to v.
func (c Column[T]) LTE(v T) Predicate { return LTE(string(c), v) }

// In returns a predicate that checks if the column value is in vs.
func (c Column[T]) In(vs ...T) Predicate { return In(string(c), anys(vs)...) }

// NotIn returns a predicate that checks if the column value is not in vs.
func (c Column[T]) NotIn(vs ...T) Predicate { return NotIn(string(c), anys(vs)...) }

// IsNull returns a predicate that checks if the column is NULL.
func (c Column[T]) IsNull() Predicate { return IsNull(string(c)) }

// NotNull returns a predicate that checks if the column is not NULL.
func (c Column[T]) NotNull() Predicate { return NotNull(string(c)) }

func anys[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
