package dialect

import (
	"context"
	"database/sql"
)

// ExecQuerier wraps the standard Exec and Query methods. It is implemented
// by *sql.DB, *sql.Conn and *sql.Tx.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Session is the scope a statement executes in: a borrowed connection or an
// open transaction.
type Session interface {
	ExecQuerier
	// ID identifies the session in logs.
	ID() string
}

// Conn is a physical connection borrowed from the driver's pool.
type Conn interface {
	Session
}

// Tx is an open transaction.
type Tx interface {
	Session
	Commit() error
	Rollback() error
}

// ConnType selects the pool a connection is borrowed from.
type ConnType uint8

// Connection types.
const (
	ConnWrite ConnType = iota
	ConnRead
)

// String implements fmt.Stringer.
func (t ConnType) String() string {
	if t == ConnRead {
		return "read"
	}
	return "write"
}

// ConnOptions configures GetConnection.
type ConnOptions struct {
	Type ConnType
}

// ConnectionManager hands out and takes back pooled connections.
type ConnectionManager interface {
	GetConnection(ctx context.Context, opts ConnOptions) (Conn, error)
	ReleaseConnection(conn Conn) error
}

// IsolationLevel is the driver-native transaction isolation level.
// The zero value selects the database default.
type IsolationLevel string

// Isolation levels.
const (
	ReadUncommitted IsolationLevel = "READ UNCOMMITTED"
	ReadCommitted   IsolationLevel = "READ COMMITTED"
	RepeatableRead  IsolationLevel = "REPEATABLE READ"
	Serializable    IsolationLevel = "SERIALIZABLE"
)

// TxOptions holds the options used to start a transaction.
type TxOptions struct {
	Isolation IsolationLevel
	ReadOnly  bool
	// Autocommit requests statements to be committed one by one.
	// Drivers may reject it.
	Autocommit bool
}

// QueryType hints how a statement should be executed and how its result
// should be shaped.
type QueryType uint8

// Query types.
const (
	QueryRaw QueryType = iota
	QuerySelect
	QueryInsert
	QueryUpdate
	QueryDelete
)

// String implements fmt.Stringer.
func (t QueryType) String() string {
	switch t {
	case QuerySelect:
		return "select"
	case QueryInsert:
		return "insert"
	case QueryUpdate:
		return "update"
	case QueryDelete:
		return "delete"
	default:
		return "raw"
	}
}

// QueryOptions configures Driver.Query.
type QueryOptions struct {
	Type QueryType
	// Replacements are substituted into `?` markers on the client before
	// the statement is sent.
	Replacements []any
	// Bind values are sent to the server separately from the statement.
	Bind []any
	// Session scopes the statement. If nil, the driver's pool is used.
	Session Session
}

// Driver is the interface implemented by the ORM execution layer.
//
// Query returns a rows value and a metadata value whose shapes depend on
// the dialect; callers must not assume concrete types.
type Driver interface {
	Dialect() string
	Query(ctx context.Context, query string, opts QueryOptions) (rows, metadata any, err error)
	Transaction(ctx context.Context, opts TxOptions) (Tx, error)
	ConnectionManager() ConnectionManager
	Close() error
}
