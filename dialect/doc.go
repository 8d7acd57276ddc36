// Package dialect defines the supported database backends and the contract
// of the ORM execution layer that statements are routed through.
//
// # Supported Dialects
//
// The set of dialects is closed:
//
//	dialect.MySQL    = "mysql"
//	dialect.MariaDB  = "mariadb"
//	dialect.Postgres = "postgres"
//	dialect.MSSQL    = "mssql"
//	dialect.SQLite   = "sqlite"
//
// Configuration against any other name fails with ErrUnsupported:
//
//	if err := dialect.AssertSupported(drv.Dialect()); err != nil {
//	    return err
//	}
//
// Dialects sharing wire behavior are grouped in a Family. MySQL and MariaDB
// form FamilyMySQL; every other dialect is a family of its own.
//
// # Driver Interface
//
//	type Driver interface {
//	    Dialect() string
//	    Query(ctx context.Context, query string, opts QueryOptions) (rows, metadata any, err error)
//	    Transaction(ctx context.Context, opts TxOptions) (Tx, error)
//	    ConnectionManager() ConnectionManager
//	    Close() error
//	}
//
// QueryOptions carries either Replacements (formatted into the statement
// on the client) or Bind values (sent as protocol parameters), and the
// Session the statement runs in: a Conn borrowed from the
// ConnectionManager, or a Tx.
//
// # Sub-packages
//
//   - dialect/sql: the database/sql backed implementation of Driver
package dialect
