package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/syssam/veloxqb/dialect"
	"github.com/syssam/veloxqb/internal/sqltext"
)

// ErrAutocommit is returned by Transaction when autocommit is requested.
// Transactions opened through database/sql never auto-commit.
var ErrAutocommit = errors.New("dialect/sql: autocommit transactions are not supported")

// Driver is a dialect.Driver implementation for SQL based databases.
// It is safe for concurrent use.
type Driver struct {
	db        *sql.DB
	replica   *sql.DB
	dialect   string
	foundRows bool
	logger    *slog.Logger
	conns     *ConnectionManager
}

// Option configures a Driver.
type Option func(*Driver)

// WithReplica routes read connections to db.
func WithReplica(db *sql.DB) Option {
	return func(d *Driver) {
		d.replica = db
	}
}

// WithLogger sets the logger used for connection and transaction events.
// Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithClientFoundRows declares that the MySQL connection reports matched
// rows instead of changed rows as the affected row count. Open and
// OpenConfig enable the flag unless the DSN sets it. Without it, updates
// report only changed rows.
func WithClientFoundRows(b bool) Option {
	return func(d *Driver) {
		d.foundRows = b
	}
}

// NewDriver creates a new Driver with the given database and dialect.
func NewDriver(dialect string, db *sql.DB, opts ...Option) *Driver {
	d := &Driver{
		db:      db,
		dialect: dialect,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	read := d.db
	if d.replica != nil {
		read = d.replica
	}
	d.conns = &ConnectionManager{write: d.db, read: read, logger: d.logger}
	return d
}

// Open opens a database for the given dialect and returns a Driver on top of it.
func Open(name, source string, opts ...Option) (*Driver, error) {
	n, err := dialect.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: %w", err)
	}
	if n.Family() == dialect.FamilyMySQL {
		var found bool
		source, found = foundRowsDSN(source)
		opts = append([]Option{WithClientFoundRows(found)}, opts...)
	}
	db, err := sql.Open(driverName(n), source)
	if err != nil {
		return nil, err
	}
	return NewDriver(name, db, opts...), nil
}

// OpenDB wraps the given database/sql.DB with a Driver.
func OpenDB(dialect string, db *sql.DB, opts ...Option) *Driver {
	return NewDriver(dialect, db, opts...)
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB {
	return d.db
}

// Dialect implements the dialect.Driver interface.
func (d *Driver) Dialect() string {
	// A telemetry wrapper registers its driver as "<dialect>-<suffix>".
	if name, _, ok := strings.Cut(d.dialect, "-"); ok && dialect.IsSupported(name) {
		return name
	}
	return d.dialect
}

// ConnectionManager implements the dialect.Driver interface.
func (d *Driver) ConnectionManager() dialect.ConnectionManager {
	return d.conns
}

// Query executes a statement and returns its raw rows and metadata, shaped
// the way the dialect's native client reports them.
//
// Replacements are formatted into the statement before it is sent; Bind
// values are passed to the database/sql driver. Setting both is an error.
func (d *Driver) Query(ctx context.Context, query string, opts dialect.QueryOptions) (any, any, error) {
	name, err := dialect.Parse(d.Dialect())
	if err != nil {
		return nil, nil, fmt.Errorf("dialect/sql: %w", err)
	}
	family := name.Family()
	args := opts.Bind
	if len(opts.Replacements) > 0 {
		if len(opts.Bind) > 0 {
			return nil, nil, errors.New("dialect/sql: replacements and bind are mutually exclusive")
		}
		if query, err = formatReplacements(family, query, opts.Replacements); err != nil {
			return nil, nil, err
		}
		args = nil
	}
	var ex dialect.ExecQuerier = d.db
	if opts.Session != nil {
		ex = opts.Session
	}
	if opts.Type == dialect.QuerySelect || sqltext.ReturnsRows(query) {
		rows, err := ex.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, nil, fmt.Errorf("dialect/sql: query: %w", err)
		}
		records, columns, err := scanRows(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("dialect/sql: query: %w", err)
		}
		r, m := shapeRows(family, query, records, columns)
		return r, m, nil
	}
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("dialect/sql: exec: %w", err)
	}
	r, m := shapeExec(family, query, res, d.foundRows)
	return r, m, nil
}

// Transaction starts a transaction on a connection from the write pool.
func (d *Driver) Transaction(ctx context.Context, opts dialect.TxOptions) (dialect.Tx, error) {
	if opts.Autocommit {
		return nil, ErrAutocommit
	}
	name, err := dialect.Parse(d.Dialect())
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: %w", err)
	}
	level, err := isolationLevel(name.Family(), opts.Isolation)
	if err != nil {
		return nil, err
	}
	tx, err := d.db.BeginTx(ctx, &sql.TxOptions{Isolation: level, ReadOnly: opts.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: begin: %w", err)
	}
	t := &Tx{Tx: tx, id: uuid.NewString()}
	d.logger.DebugContext(ctx, "transaction started",
		"tx_id", t.id, "dialect", d.dialect, "isolation", string(opts.Isolation))
	return t, nil
}

// isolationLevel maps a driver-native isolation level to database/sql.
// SQLite transactions are always serializable, so the level is ignored.
func isolationLevel(f dialect.Family, level dialect.IsolationLevel) (sql.IsolationLevel, error) {
	if f == dialect.FamilySQLite {
		return sql.LevelDefault, nil
	}
	switch level {
	case "":
		return sql.LevelDefault, nil
	case dialect.ReadUncommitted:
		return sql.LevelReadUncommitted, nil
	case dialect.ReadCommitted:
		return sql.LevelReadCommitted, nil
	case dialect.RepeatableRead:
		return sql.LevelRepeatableRead, nil
	case dialect.Serializable:
		return sql.LevelSerializable, nil
	default:
		return sql.LevelDefault, fmt.Errorf("dialect/sql: unknown isolation level %q", string(level))
	}
}

// Close closes the underlying databases.
func (d *Driver) Close() error {
	err := d.db.Close()
	if d.replica != nil {
		err = errors.Join(err, d.replica.Close())
	}
	return err
}

// Tx implements dialect.Tx interface.
type Tx struct {
	*sql.Tx
	id string
}

// ID implements the dialect.Session interface.
func (t *Tx) ID() string { return t.id }

// Conn implements dialect.Conn given a borrowed *sql.Conn.
type Conn struct {
	*sql.Conn
	id       string
	typ      dialect.ConnType
	released bool
}

// ID implements the dialect.Session interface.
func (c *Conn) ID() string { return c.id }

// Type returns the pool the connection was borrowed from.
func (c *Conn) Type() dialect.ConnType { return c.typ }

var (
	_ dialect.Driver = (*Driver)(nil)
	_ dialect.Tx     = (*Tx)(nil)
	_ dialect.Conn   = (*Conn)(nil)
)

// Row is a single result row keyed by column name.
type Row = map[string]any
