package veloxqb

import (
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxqb/builder"
	"github.com/syssam/veloxqb/dialect"
)

type otherConn struct{}

func (otherConn) ExecuteQuery(context.Context, builder.CompiledQuery) (*builder.QueryResult, error) {
	return &builder.QueryResult{}, nil
}

func (otherConn) StreamQuery(context.Context, builder.CompiledQuery, int) iter.Seq2[*builder.QueryResult, error] {
	return func(func(*builder.QueryResult, error) bool) {}
}

func TestDriver(t *testing.T) {
	ctx := context.Background()
	orm := newFakeORM("postgres")
	drv := &Driver{orm: orm, logger: discard}

	require.NoError(t, drv.Init(ctx))
	conn, err := drv.AcquireConnection(ctx)
	require.NoError(t, err)
	c, ok := conn.(*Connection)
	require.True(t, ok)
	assert.Equal(t, StateIdle, c.State())

	require.NoError(t, drv.BeginTransaction(ctx, conn, builder.TransactionSettings{IsolationLevel: builder.RepeatableRead}))
	assert.Equal(t, StateInTransaction, c.State())
	require.NoError(t, drv.CommitTransaction(ctx, conn))
	require.NoError(t, drv.BeginTransaction(ctx, conn, builder.TransactionSettings{}))
	require.NoError(t, drv.RollbackTransaction(ctx, conn))
	require.NoError(t, drv.ReleaseConnection(ctx, conn))
	require.NoError(t, drv.Destroy(ctx))
	assert.True(t, orm.closed)
	assert.Equal(t, []string{
		`begin "REPEATABLE READ" autocommit=false`,
		"commit",
		`begin "" autocommit=false`,
		"rollback",
		"close",
	}, orm.calls)
}

func TestDriver_ForeignConnection(t *testing.T) {
	ctx := context.Background()
	drv := &Driver{orm: newFakeORM("postgres"), logger: discard}
	other := &Driver{orm: newFakeORM("postgres"), logger: discard}
	theirs, err := other.AcquireConnection(ctx)
	require.NoError(t, err)

	for _, conn := range []builder.DatabaseConnection{otherConn{}, theirs, (*Connection)(nil)} {
		assert.ErrorIs(t, drv.BeginTransaction(ctx, conn, builder.TransactionSettings{}), ErrForeignConnection)
		assert.ErrorIs(t, drv.CommitTransaction(ctx, conn), ErrForeignConnection)
		assert.ErrorIs(t, drv.RollbackTransaction(ctx, conn), ErrForeignConnection)
		assert.ErrorIs(t, drv.ReleaseConnection(ctx, conn), ErrForeignConnection)
	}
}

func TestNewDialect(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		for _, name := range dialect.Supported() {
			d, err := NewDialect(Config{Driver: newFakeORM(string(name)), SubDialect: builder.SQLite()})
			require.NoError(t, err, name)
			assert.NotNil(t, d.logger)
		}
	})

	tests := []struct {
		name string
		cfg  Config
		msg  string
	}{
		{"no driver", Config{SubDialect: builder.MySQL()}, "veloxqb: invalid config: driver is required"},
		{"no sub-dialect", Config{Driver: newFakeORM("mysql")}, "veloxqb: invalid config: sub-dialect is required"},
		{"unsupported", Config{Driver: newFakeORM("oracle"), SubDialect: builder.MySQL()}, "veloxqb: invalid config: unsupported dialect: `oracle`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDialect(tt.cfg)
			assert.Nil(t, d)
			require.EqualError(t, err, tt.msg)
			assert.True(t, IsConfigError(err))
		})
	}

	t.Run("unsupported wraps", func(t *testing.T) {
		_, err := New(Config{Driver: newFakeORM("db2"), SubDialect: builder.MySQL()})
		assert.ErrorIs(t, err, dialect.ErrUnsupported)
	})
}

func TestDialect_Delegates(t *testing.T) {
	sub := builder.Postgres()
	d, err := NewDialect(Config{Driver: newFakeORM("postgres"), SubDialect: sub, Logger: discard})
	require.NoError(t, err)

	assert.Equal(t, sub.CreateAdapter(), d.CreateAdapter())
	assert.True(t, d.CreateAdapter().SupportsReturning())

	q, err := d.CreateQueryCompiler().Compile(builder.Select("id").From("person").Where(builder.EQ("id", 1)))
	require.NoError(t, err)
	assert.Equal(t, `select "id" from "person" where "id" = $1`, q.SQL)
	assert.Equal(t, []any{1}, q.Parameters)

	drv, ok := d.CreateDriver().(*Driver)
	require.True(t, ok)
	assert.Same(t, d.orm, drv.orm)
}
