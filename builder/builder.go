package builder

import (
	"context"
	"iter"
	"math/big"
)

// QueryKind identifies the statement a CompiledQuery was compiled from.
type QueryKind uint8

// Query kinds.
const (
	KindRaw QueryKind = iota
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
)

// String implements fmt.Stringer.
func (k QueryKind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindInsert:
		return "insert"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "raw"
	}
}

// CompiledQuery is a statement ready to be executed: SQL text in the target
// dialect, its ordered parameters and the kind of statement it came from.
type CompiledQuery struct {
	SQL        string
	Parameters []any
	Kind       QueryKind
}

// Row is a single result row keyed by column name.
type Row = map[string]any

// QueryResult is the uniform result of executing a CompiledQuery.
// A nil counter means the database did not report it.
type QueryResult struct {
	Rows []Row
	// InsertID is the auto-generated id of the last inserted row.
	InsertID *big.Int
	// NumAffectedRows is the number of rows matched by an insert, update or delete.
	NumAffectedRows *big.Int
	// NumChangedRows is the number of rows whose values actually changed.
	NumChangedRows *big.Int
}

// IsolationLevel is a transaction isolation level.
type IsolationLevel string

// Isolation levels.
const (
	ReadUncommitted IsolationLevel = "read uncommitted"
	ReadCommitted   IsolationLevel = "read committed"
	RepeatableRead  IsolationLevel = "repeatable read"
	Serializable    IsolationLevel = "serializable"
	Snapshot        IsolationLevel = "snapshot"
)

// TransactionSettings configures a transaction. The zero value uses the
// database default isolation level.
type TransactionSettings struct {
	IsolationLevel IsolationLevel
}

// DatabaseConnection is a single logical connection to the database.
// Implementations are not required to be safe for concurrent use.
type DatabaseConnection interface {
	ExecuteQuery(ctx context.Context, q CompiledQuery) (*QueryResult, error)
	// StreamQuery yields results in chunks of at most chunkSize rows.
	StreamQuery(ctx context.Context, q CompiledQuery, chunkSize int) iter.Seq2[*QueryResult, error]
}

// Driver manages connections and transactions for a DB.
type Driver interface {
	// Init is called once before the first connection is acquired.
	Init(ctx context.Context) error
	AcquireConnection(ctx context.Context) (DatabaseConnection, error)
	BeginTransaction(ctx context.Context, conn DatabaseConnection, settings TransactionSettings) error
	CommitTransaction(ctx context.Context, conn DatabaseConnection) error
	RollbackTransaction(ctx context.Context, conn DatabaseConnection) error
	ReleaseConnection(ctx context.Context, conn DatabaseConnection) error
	// Destroy releases all resources. The driver is unusable afterwards.
	Destroy(ctx context.Context) error
}

// DialectAdapter reports the capabilities of a database.
type DialectAdapter interface {
	SupportsReturning() bool
	SupportsOutput() bool
	SupportsTransactionalDDL() bool
	SupportsCreateIfNotExists() bool
}

// QueryCompiler compiles statements into the SQL of one database.
type QueryCompiler interface {
	Compile(q Query) (CompiledQuery, error)
}

// Introspector reads the database schema.
type Introspector interface {
	Tables(ctx context.Context) ([]TableMetadata, error)
}

// TableMetadata describes a base table.
type TableMetadata struct {
	Schema string
	Name   string
}

// SubDialect is the SQL generation strategy of one database, without
// a way to connect to it.
type SubDialect interface {
	CreateAdapter() DialectAdapter
	CreateIntrospector(db *DB) Introspector
	CreateQueryCompiler() QueryCompiler
}

// Dialect is a SubDialect plus the driver that executes its statements.
type Dialect interface {
	SubDialect
	CreateDriver() Driver
}
