// Package sql is the ORM execution layer on top of database/sql.
//
// A Driver owns a write pool and an optional read replica, hands out
// dedicated connections through its ConnectionManager, starts transactions
// and runs raw statements. Results are returned in the raw shape each
// dialect's native client uses:
//
//	postgres  rows: []Row                 metadata: {"command", "rowCount"}
//	mysql     rows: []Row                 metadata: columns or {"affectedRows", "insertId"}
//	          rows: insert id             metadata: affected rows (inserts)
//
// Open enables CLIENT_FOUND_ROWS on MySQL DSNs that do not set it, so
// affectedRows of an update counts matched rows. A MySQL driver without the
// flag reports an update as {"changedRows", "insertId"} instead.
//	mssql     rows: []Row                 metadata: row count
//	sqlite    rows: []Row                 metadata: nil or {"changes", "lastID"}
//
// # Opening a driver
//
//	drv, err := sql.Open("postgres", "postgres://localhost:5432/app?sslmode=disable")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//
// or from a YAML file:
//
//	cfg, err := sql.LoadConfig("database.yaml")
//	if err != nil {
//	    return err
//	}
//	drv, err := sql.OpenConfig(cfg, sql.WithLogger(logger))
//
// # Running statements
//
//	rows, meta, err := drv.Query(ctx, "SELECT * FROM person WHERE id = $1", dialect.QueryOptions{
//	    Type: dialect.QuerySelect,
//	    Bind: []any{1},
//	})
//
// Replacements are formatted into `?` markers before the statement is sent,
// Bind values travel separately to the server:
//
//	drv.Query(ctx, "UPDATE person SET name = ? WHERE id = ?", dialect.QueryOptions{
//	    Replacements: []any{"O'Hara", 1},
//	})
//	// UPDATE person SET name = 'O''Hara' WHERE id = 1
//
// # Sessions
//
// Statements run in a borrowed connection or a transaction by passing it
// as QueryOptions.Session:
//
//	tx, err := drv.Transaction(ctx, dialect.TxOptions{Isolation: dialect.Serializable})
//	if err != nil {
//	    return err
//	}
//	if _, _, err := drv.Query(ctx, stmt, dialect.QueryOptions{Session: tx}); err != nil {
//	    return errors.Join(err, tx.Rollback())
//	}
//	return tx.Commit()
package sql
