// Package veloxqb runs statements built with package builder through an ORM
// driver, so an application can mix typed query building with the ORM's
// pooling, transactions and logging.
//
// The ORM side is any dialect.Driver, typically *sql.Driver from package
// dialect/sql:
//
//	orm, err := sql.Open("postgres", dsn)
//	if err != nil {
//		return err
//	}
//	db, err := veloxqb.New(veloxqb.Config{
//		Driver:     orm,
//		SubDialect: builder.Postgres(),
//	})
//	if err != nil {
//		return err
//	}
//	defer db.Destroy(ctx)
//
//	res, err := builder.Insert("person").
//		Columns("gender").
//		Values("female").
//		Exec(ctx, db)
//
// Every builder connection maps to a Connection, which borrows one ORM
// connection on its first statement and gives it back on release. Builder
// transactions map to ORM transactions. Raw ORM results are normalized
// into builder.QueryResult: insert ids and row counts are reported when the
// database driver reports them and left nil otherwise.
//
// Streaming and the snapshot isolation level are not available through the
// ORM; requesting them fails with an *UnsupportedError before any I/O.
package veloxqb
