package veloxqb_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/veloxqb"
	"github.com/syssam/veloxqb/builder"
	"github.com/syssam/veloxqb/dialect"
	"github.com/syssam/veloxqb/dialect/sql"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// openSQLite returns a DB over a temporary SQLite database seeded with
// three persons.
func openSQLite(t *testing.T) *builder.DB {
	t.Helper()
	ctx := context.Background()
	orm, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "person.db"), sql.WithLogger(discard))
	require.NoError(t, err)
	db, err := veloxqb.New(veloxqb.Config{Driver: orm, SubDialect: builder.SQLite(), Logger: discard})
	require.NoError(t, err)
	t.Cleanup(func() { db.Destroy(ctx) })

	_, err = db.Execute(ctx, builder.Raw(`create table person (
		id integer primary key autoincrement,
		first_name text,
		gender text not null
	)`))
	require.NoError(t, err)
	_, err = builder.Insert("person").
		Columns("first_name", "gender").
		Values("Jennifer", "female").
		Values("Arnold", "male").
		Values("Sylvester", "male").
		Exec(ctx, db)
	require.NoError(t, err)
	return db
}

func countPersons(t *testing.T, db *builder.DB) int64 {
	t.Helper()
	res, err := db.Execute(context.Background(), builder.Raw("select count(*) as n from person"))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	n, ok := res.Rows[0]["n"].(int64)
	require.True(t, ok, "%T", res.Rows[0]["n"])
	return n
}

func TestSQLite_Insert(t *testing.T) {
	db := openSQLite(t)
	res, err := builder.Insert("person").Columns("gender").Values("female").Exec(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(4), res.InsertID)
	assert.Equal(t, big.NewInt(1), res.NumInsertedOrUpdatedRows)
	assert.Equal(t, int64(4), countPersons(t, db))
}

func TestSQLite_Queries(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	rows, err := builder.Select("id", "first_name").
		From("person").
		Where(builder.EQ("gender", "male")).
		OrderBy("id", builder.OrderDesc).
		All(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []builder.Row{
		{"id": int64(3), "first_name": "Sylvester"},
		{"id": int64(2), "first_name": "Arnold"},
	}, rows)

	_, err = builder.Select("id").From("person").Where(builder.EQ("first_name", "Nobody")).First(ctx, db)
	require.ErrorIs(t, err, builder.ErrNoRows)

	up, err := builder.Update("person").Set("first_name", "Arnie").Where(builder.EQ("id", 2)).Exec(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), up.NumUpdatedRows)
	assert.Nil(t, up.NumChangedRows)

	ret, err := db.Execute(ctx, builder.Insert("person").Columns("first_name", "gender").Values("O'Hara", "female").Returning("id", "first_name"))
	require.NoError(t, err)
	assert.Equal(t, []builder.Row{{"id": int64(4), "first_name": "O'Hara"}}, ret.Rows)

	del, err := builder.Delete("person").Where(builder.In("id", 1, 4)).Exec(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), del.NumDeletedRows)
	assert.Equal(t, int64(2), countPersons(t, db))

	tables, err := db.Introspection().Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []builder.TableMetadata{{Schema: "main", Name: "person"}}, tables)
}

func TestSQLite_OutputColumn(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	_, err := db.Execute(ctx, builder.Raw("create table job (id integer primary key, output text, note text)"))
	require.NoError(t, err)
	_, err = db.Execute(ctx, builder.Raw("insert into job (output) values ('a'), ('b')"))
	require.NoError(t, err)

	res, err := db.Execute(ctx, builder.Raw("update job set output = 'z'"))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), res.NumAffectedRows)
	assert.Empty(t, res.Rows)

	res, err = db.Execute(ctx, builder.Raw("update job set note = output where output is not null"))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), res.NumAffectedRows)

	res, err = db.Execute(ctx, builder.Raw("update job set output = 'y' where id = 1 returning id, output"))
	require.NoError(t, err)
	assert.Equal(t, []builder.Row{{"id": int64(1), "output": "y"}}, res.Rows)
}

func TestSQLite_Transaction(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	insert := builder.Insert("person").Columns("gender").Values("female")

	err := db.Transaction(ctx, builder.TransactionSettings{IsolationLevel: builder.Serializable}, func(c *builder.Conn) error {
		_, err := insert.Exec(ctx, c)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), countPersons(t, db))

	rollback := errors.New("rollback")
	err = db.Transaction(ctx, builder.TransactionSettings{}, func(c *builder.Conn) error {
		if _, err := insert.Exec(ctx, c); err != nil {
			return err
		}
		return rollback
	})
	require.ErrorIs(t, err, rollback)
	assert.Equal(t, int64(4), countPersons(t, db))

	err = db.Transaction(ctx, builder.TransactionSettings{IsolationLevel: builder.Snapshot}, func(*builder.Conn) error {
		t.Fatal("callback must not run")
		return nil
	})
	require.ErrorIs(t, err, veloxqb.ErrUnsupportedIsolationLevel)
}

func TestSQLite_Connection(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	err := db.Connection(ctx, func(c *builder.Conn) error {
		if _, err := c.Execute(ctx, builder.Raw("create temp table scratch (v integer)")); err != nil {
			return err
		}
		if _, err := c.Execute(ctx, builder.Insert("scratch").Columns("v").Values(7)); err != nil {
			return err
		}
		// Temp tables are per connection, so this only succeeds on the
		// connection borrowed by the first statement.
		rows, err := builder.Select("v").From("scratch").All(ctx, c)
		if err != nil {
			return err
		}
		assert.Equal(t, []builder.Row{{"v": int64(7)}}, rows)
		return nil
	})
	require.NoError(t, err)
}

func TestSQLite_Stream(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	err := db.Connection(ctx, func(c *builder.Conn) error {
		for _, err := range c.Stream(ctx, builder.Select().From("person"), 2) {
			return err
		}
		return nil
	})
	require.ErrorIs(t, err, veloxqb.ErrStreamingUnsupported)
	assert.True(t, veloxqb.IsUnsupported(err))
}

func TestSQLite_Concurrent(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	g, ctx := errgroup.WithContext(ctx)
	for i := range 8 {
		g.Go(func() error {
			row, err := builder.Select("first_name").From("person").Where(builder.EQ("id", i%3+1)).First(ctx, db)
			if err != nil {
				return err
			}
			if row["first_name"] == "" {
				return errors.New("empty name")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestSQLite_Destroy(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	require.NoError(t, db.Destroy(ctx))
	_, err := db.Execute(ctx, builder.Raw("select 1"))
	require.ErrorIs(t, err, builder.ErrDestroyed)
}

func newMockDB(t *testing.T, name dialect.Name, sub builder.SubDialect, opts ...sql.Option) (*builder.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	db, err := veloxqb.New(veloxqb.Config{
		Driver:     sql.OpenDB(string(name), conn, append([]sql.Option{sql.WithLogger(discard)}, opts...)...),
		SubDialect: sub,
		Logger:     discard,
	})
	require.NoError(t, err)
	return db, mock
}

func TestNew_LookalikeDialect(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	for _, name := range []string{"postgresql", "mysqlx", "sqlite3"} {
		_, err := veloxqb.New(veloxqb.Config{Driver: sql.OpenDB(name, conn), SubDialect: builder.Postgres()})
		require.Error(t, err, name)
		assert.True(t, veloxqb.IsConfigError(err), name)
		assert.ErrorIs(t, err, dialect.ErrUnsupported, name)
	}
}

func TestMock_Insert(t *testing.T) {
	ctx := context.Background()
	insert := builder.Insert("person").Columns("gender").Values("female")

	t.Run("mysql", func(t *testing.T) {
		db, mock := newMockDB(t, dialect.MySQL, builder.MySQL())
		mock.ExpectExec("insert into `person` (`gender`) values ('female')").
			WillReturnResult(sqlmock.NewResult(4, 1))
		res, err := insert.Exec(ctx, db)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(4), res.InsertID)
		assert.Equal(t, big.NewInt(1), res.NumInsertedOrUpdatedRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("postgres", func(t *testing.T) {
		db, mock := newMockDB(t, dialect.Postgres, builder.Postgres())
		mock.ExpectExec(`insert into "person" ("gender") values ($1)`).
			WithArgs("female").
			WillReturnResult(sqlmock.NewResult(0, 1))
		res, err := insert.Exec(ctx, db)
		require.NoError(t, err)
		assert.Nil(t, res.InsertID)
		assert.Equal(t, big.NewInt(1), res.NumInsertedOrUpdatedRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mssql", func(t *testing.T) {
		db, mock := newMockDB(t, dialect.MSSQL, builder.MSSQL())
		mock.ExpectExec(`insert into [person] ([gender]) values (N'female')`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		res, err := insert.Exec(ctx, db)
		require.NoError(t, err)
		assert.Nil(t, res.InsertID)
		assert.Equal(t, big.NewInt(1), res.NumInsertedOrUpdatedRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMock_Update(t *testing.T) {
	ctx := context.Background()
	update := builder.Update("person").Set("gender", "male").Where(builder.GT("id", 1))
	const stmt = "update `person` set `gender` = 'male' where `id` > 1"

	t.Run("found rows", func(t *testing.T) {
		db, mock := newMockDB(t, dialect.MariaDB, builder.MySQL(), sql.WithClientFoundRows(true))
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 2))
		res, err := update.Exec(ctx, db)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(2), res.NumUpdatedRows)
		assert.Nil(t, res.NumChangedRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("unchanged rows are still matched", func(t *testing.T) {
		db, mock := newMockDB(t, dialect.MySQL, builder.MySQL(), sql.WithClientFoundRows(true))
		// Both rows already hold the new value.
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 2))
		res, err := update.Exec(ctx, db)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(2), res.NumUpdatedRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("changed rows only", func(t *testing.T) {
		db, mock := newMockDB(t, dialect.MariaDB, builder.MySQL())
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 0))
		res, err := update.Exec(ctx, db)
		require.NoError(t, err)
		assert.Nil(t, res.NumUpdatedRows, "matched rows are not reported")
		assert.Equal(t, big.NewInt(0), res.NumChangedRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMock_Transaction(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t, dialect.Postgres, builder.Postgres())
	mock.ExpectBegin()
	mock.ExpectExec(`delete from "person" where "id" = $1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`delete from "person" where "id" = $1`).
		WithArgs(4).
		WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	del := func(id int) func(*builder.Conn) error {
		return func(c *builder.Conn) error {
			_, err := builder.Delete("person").Where(builder.EQ("id", id)).Exec(ctx, c)
			return err
		}
	}
	require.NoError(t, db.Transaction(ctx, builder.TransactionSettings{}, del(3)))
	err := db.Transaction(ctx, builder.TransactionSettings{}, del(4))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMock_QueryError(t *testing.T) {
	db, mock := newMockDB(t, dialect.Postgres, builder.Postgres())
	mock.ExpectQuery(`select "id" from "missing"`).WillReturnError(errors.New(`relation "missing" does not exist`))
	_, err := builder.Select("id").From("missing").All(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `relation "missing" does not exist`)
	require.NoError(t, mock.ExpectationsWereMet())
}
