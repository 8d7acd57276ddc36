package builder

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math/big"
	"sync"
	"sync/atomic"
)

// ErrDestroyed is returned by a DB used after Destroy.
var ErrDestroyed = errors.New("builder: database destroyed")

// ErrNoRows is returned by SelectQuery.First when nothing matched.
var ErrNoRows = errors.New("builder: no rows in result set")

// Executor runs statements. It is implemented by *DB and *Conn.
type Executor interface {
	Execute(ctx context.Context, q Query) (*QueryResult, error)
	ExecuteQuery(ctx context.Context, q CompiledQuery) (*QueryResult, error)
}

// DB runs statements of one Dialect. Every statement executed on a DB runs
// on its own connection acquired from the driver; use Connection or
// Transaction to run several statements on the same connection.
// A DB is safe for concurrent use if its driver is.
type DB struct {
	dialect   Dialect
	driver    Driver
	compiler  QueryCompiler
	adapter   DialectAdapter
	initOnce  sync.Once
	initErr   error
	destroyed atomic.Bool
}

// New returns a DB for the given dialect. The driver is initialized on first use.
func New(d Dialect) *DB {
	return &DB{
		dialect:  d,
		driver:   d.CreateDriver(),
		compiler: d.CreateQueryCompiler(),
		adapter:  d.CreateAdapter(),
	}
}

// Adapter returns the capabilities of the database.
func (db *DB) Adapter() DialectAdapter { return db.adapter }

// Introspection returns an Introspector reading the database schema.
func (db *DB) Introspection() Introspector { return db.dialect.CreateIntrospector(db) }

// Compile compiles q without executing it.
func (db *DB) Compile(q Query) (CompiledQuery, error) { return db.compiler.Compile(q) }

func (db *DB) init(ctx context.Context) error {
	if db.destroyed.Load() {
		return ErrDestroyed
	}
	db.initOnce.Do(func() {
		db.initErr = db.driver.Init(ctx)
	})
	return db.initErr
}

// Execute compiles and executes q on a fresh connection.
func (db *DB) Execute(ctx context.Context, q Query) (*QueryResult, error) {
	cq, err := db.compiler.Compile(q)
	if err != nil {
		return nil, err
	}
	return db.ExecuteQuery(ctx, cq)
}

// ExecuteQuery executes a compiled statement on a fresh connection.
func (db *DB) ExecuteQuery(ctx context.Context, q CompiledQuery) (res *QueryResult, err error) {
	err = db.Connection(ctx, func(c *Conn) error {
		res, err = c.ExecuteQuery(ctx, q)
		return err
	})
	return res, err
}

// Connection runs fn on a single connection, released when fn returns.
func (db *DB) Connection(ctx context.Context, fn func(*Conn) error) (err error) {
	if err := db.init(ctx); err != nil {
		return err
	}
	conn, err := db.driver.AcquireConnection(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := db.driver.ReleaseConnection(ctx, conn); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()
	return fn(&Conn{conn: conn, compiler: db.compiler})
}

// Transaction runs fn in a transaction on a single connection. The
// transaction is committed if fn returns nil and rolled back if it returns
// an error or panics.
func (db *DB) Transaction(ctx context.Context, settings TransactionSettings, fn func(*Conn) error) error {
	return db.Connection(ctx, func(c *Conn) (err error) {
		if err := db.driver.BeginTransaction(ctx, c.conn, settings); err != nil {
			return err
		}
		defer func() {
			if v := recover(); v != nil {
				_ = db.driver.RollbackTransaction(ctx, c.conn)
				panic(v)
			}
		}()
		if err := fn(c); err != nil {
			if rerr := db.driver.RollbackTransaction(ctx, c.conn); rerr != nil {
				err = errors.Join(err, fmt.Errorf("builder: rolling back transaction: %w", rerr))
			}
			return err
		}
		return db.driver.CommitTransaction(ctx, c.conn)
	})
}

// Destroy tears down the driver. Later calls return ErrDestroyed.
func (db *DB) Destroy(ctx context.Context) error {
	if !db.destroyed.CompareAndSwap(false, true) {
		return ErrDestroyed
	}
	return db.driver.Destroy(ctx)
}

// Conn is a single connection scope handed to Connection and Transaction
// callbacks. It must not be used after the callback returns.
type Conn struct {
	conn     DatabaseConnection
	compiler QueryCompiler
}

// Execute compiles and executes q on the connection.
func (c *Conn) Execute(ctx context.Context, q Query) (*QueryResult, error) {
	cq, err := c.compiler.Compile(q)
	if err != nil {
		return nil, err
	}
	return c.ExecuteQuery(ctx, cq)
}

// ExecuteQuery executes a compiled statement on the connection.
func (c *Conn) ExecuteQuery(ctx context.Context, q CompiledQuery) (*QueryResult, error) {
	return c.conn.ExecuteQuery(ctx, q)
}

// Stream compiles q and streams its results in chunks of chunkSize rows.
func (c *Conn) Stream(ctx context.Context, q Query, chunkSize int) iter.Seq2[*QueryResult, error] {
	cq, err := c.compiler.Compile(q)
	if err != nil {
		return func(yield func(*QueryResult, error) bool) { yield(nil, err) }
	}
	return c.conn.StreamQuery(ctx, cq, chunkSize)
}

var (
	_ Executor = (*DB)(nil)
	_ Executor = (*Conn)(nil)
)

// InsertResult is the result of an insert.
type InsertResult struct {
	// InsertID is the id of the last inserted row, when the database reports it.
	InsertID *big.Int
	// NumInsertedOrUpdatedRows is nil when the database did not report it.
	NumInsertedOrUpdatedRows *big.Int
}

// UpdateResult is the result of an update.
type UpdateResult struct {
	// NumUpdatedRows counts rows matched by the update. It is nil when the
	// database reports only changed rows.
	NumUpdatedRows *big.Int
	// NumChangedRows counts rows whose values actually changed, when the
	// database reports it.
	NumChangedRows *big.Int
}

// DeleteResult is the result of a delete.
type DeleteResult struct {
	NumDeletedRows *big.Int
}

// Exec executes the insert.
func (q *InsertQuery) Exec(ctx context.Context, e Executor) (*InsertResult, error) {
	res, err := e.Execute(ctx, q)
	if err != nil {
		return nil, err
	}
	return &InsertResult{InsertID: res.InsertID, NumInsertedOrUpdatedRows: res.NumAffectedRows}, nil
}

// Exec executes the update.
func (q *UpdateQuery) Exec(ctx context.Context, e Executor) (*UpdateResult, error) {
	res, err := e.Execute(ctx, q)
	if err != nil {
		return nil, err
	}
	upd := &UpdateResult{NumUpdatedRows: res.NumAffectedRows, NumChangedRows: res.NumChangedRows}
	if upd.NumUpdatedRows == nil && upd.NumChangedRows == nil {
		upd.NumUpdatedRows = new(big.Int)
	}
	return upd, nil
}

// Exec executes the delete.
func (q *DeleteQuery) Exec(ctx context.Context, e Executor) (*DeleteResult, error) {
	res, err := e.Execute(ctx, q)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{NumDeletedRows: orZero(res.NumAffectedRows)}, nil
}

// All executes the select and returns every row.
func (q *SelectQuery) All(ctx context.Context, e Executor) ([]Row, error) {
	res, err := e.Execute(ctx, q)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// First executes the select and returns the first row, or ErrNoRows.
func (q *SelectQuery) First(ctx context.Context, e Executor) (Row, error) {
	rows, err := q.All(ctx, e)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}

func orZero(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return n
}
