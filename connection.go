package veloxqb

import (
	"context"
	"iter"
	"log/slog"

	"github.com/syssam/veloxqb/builder"
	"github.com/syssam/veloxqb/dialect"
)

// State is the lifecycle state of a Connection.
type State uint8

// Connection states.
const (
	// StateIdle holds neither a connection nor a transaction.
	StateIdle State = iota
	// StateHoldingConnection holds a borrowed connection and no transaction.
	StateHoldingConnection
	// StateInTransaction holds an open transaction.
	StateInTransaction
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateHoldingConnection:
		return "holding connection"
	case StateInTransaction:
		return "in transaction"
	default:
		return "idle"
	}
}

// Connection is a builder.DatabaseConnection that executes statements
// through an ORM driver. It borrows at most one write connection, lazily on
// the first statement executed outside a transaction, and holds at most one
// transaction.
//
// A Connection is not safe for concurrent use.
type Connection struct {
	orm    dialect.Driver
	logger *slog.Logger
	conn   dialect.Conn
	tx     dialect.Tx
}

func newConnection(orm dialect.Driver, logger *slog.Logger) *Connection {
	return &Connection{orm: orm, logger: logger}
}

// State returns the current state. A transaction takes precedence over a
// borrowed connection.
func (c *Connection) State() State {
	switch {
	case c.tx != nil:
		return StateInTransaction
	case c.conn != nil:
		return StateHoldingConnection
	default:
		return StateIdle
	}
}

// BeginTransaction starts a transaction. It fails with ErrTxStarted if one
// is already open, and with ErrUnsupportedIsolationLevel, before reaching
// the database, for levels the ORM cannot express.
func (c *Connection) BeginTransaction(ctx context.Context, settings builder.TransactionSettings) error {
	if c.tx != nil {
		return ErrTxStarted
	}
	level, err := translateIsolationLevel(settings.IsolationLevel)
	if err != nil {
		return err
	}
	tx, err := c.orm.Transaction(ctx, dialect.TxOptions{Isolation: level, Autocommit: false})
	if err != nil {
		return err
	}
	c.tx = tx
	c.logger.DebugContext(ctx, "transaction begun",
		"tx_id", tx.ID(), "dialect", c.orm.Dialect(), "isolation", string(settings.IsolationLevel))
	return nil
}

// CommitTransaction commits the open transaction. The transaction is
// forgotten even if the commit fails.
func (c *Connection) CommitTransaction(ctx context.Context) error {
	if c.tx == nil {
		return ErrNoTx
	}
	tx := c.tx
	c.tx = nil
	if err := tx.Commit(); err != nil {
		return err
	}
	c.logger.DebugContext(ctx, "transaction committed", "tx_id", tx.ID())
	return nil
}

// RollbackTransaction rolls back the open transaction. The transaction is
// forgotten even if the rollback fails.
func (c *Connection) RollbackTransaction(ctx context.Context) error {
	if c.tx == nil {
		return ErrNoTx
	}
	tx := c.tx
	c.tx = nil
	if err := tx.Rollback(); err != nil {
		return err
	}
	c.logger.DebugContext(ctx, "transaction rolled back", "tx_id", tx.ID())
	return nil
}

// Release returns the borrowed connection to the ORM pool. It is a no-op
// when no connection is held and may be called any number of times.
// An open transaction is left untouched.
func (c *Connection) Release(ctx context.Context) error {
	if c.tx != nil {
		c.logger.WarnContext(ctx, "connection released with an open transaction", "tx_id", c.tx.ID())
	}
	if c.conn == nil {
		return nil
	}
	conn := c.conn
	c.conn = nil
	c.logger.DebugContext(ctx, "connection released", "conn_id", conn.ID())
	return c.orm.ConnectionManager().ReleaseConnection(conn)
}

// ExecuteQuery executes q inside the open transaction or, without one, on
// the connection borrowed for this Connection. ORM errors are returned
// unmodified.
func (c *Connection) ExecuteQuery(ctx context.Context, q builder.CompiledQuery) (*builder.QueryResult, error) {
	name, err := dialect.Parse(c.orm.Dialect())
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	family := name.Family()
	query := q.SQL
	opts := dialect.QueryOptions{Type: queryType(q.Kind)}
	switch family {
	case dialect.FamilyMSSQL:
		if query, err = inlineParameters(q.SQL, q.Parameters); err != nil {
			return nil, err
		}
	case dialect.FamilyMySQL, dialect.FamilySQLite:
		opts.Replacements = q.Parameters
	case dialect.FamilyPostgres:
		opts.Bind = q.Parameters
	}
	if opts.Session, err = c.session(ctx); err != nil {
		return nil, err
	}
	rows, metadata, err := c.orm.Query(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	res := normalizeResult(family, rows, metadata)
	res.Rows = resultRows(rows)
	return &res, nil
}

// StreamQuery always yields ErrStreamingUnsupported. The ORM has no server
// side cursors, and results are never buffered in its place.
func (c *Connection) StreamQuery(context.Context, builder.CompiledQuery, int) iter.Seq2[*builder.QueryResult, error] {
	return func(yield func(*builder.QueryResult, error) bool) {
		yield(nil, ErrStreamingUnsupported)
	}
}

// session returns the open transaction, or else the borrowed connection,
// borrowing a write connection on first use. Write connections are always
// requested because later statements of the session may write.
func (c *Connection) session(ctx context.Context) (dialect.Session, error) {
	if c.tx != nil {
		return c.tx, nil
	}
	if c.conn == nil {
		conn, err := c.orm.ConnectionManager().GetConnection(ctx, dialect.ConnOptions{Type: dialect.ConnWrite})
		if err != nil {
			return nil, err
		}
		c.conn = conn
		c.logger.DebugContext(ctx, "connection acquired", "conn_id", conn.ID(), "dialect", c.orm.Dialect())
	}
	return c.conn, nil
}

func queryType(k builder.QueryKind) dialect.QueryType {
	switch k {
	case builder.KindSelect:
		return dialect.QuerySelect
	case builder.KindInsert:
		return dialect.QueryInsert
	case builder.KindUpdate:
		return dialect.QueryUpdate
	case builder.KindDelete:
		return dialect.QueryDelete
	default:
		return dialect.QueryRaw
	}
}

var _ builder.DatabaseConnection = (*Connection)(nil)
