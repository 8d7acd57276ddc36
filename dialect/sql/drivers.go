package sql

import (
	"strings"

	_ "github.com/denisenkom/go-mssqldb" // MS SQL Server driver
	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"   // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/syssam/veloxqb/dialect"
)

// driverName returns the database/sql driver registered for the dialect.
func driverName(n dialect.Name) string {
	switch n.Family() {
	case dialect.FamilyMySQL:
		return "mysql"
	case dialect.FamilyPostgres:
		return "postgres"
	case dialect.FamilyMSSQL:
		return "sqlserver"
	case dialect.FamilySQLite:
		return "sqlite"
	default:
		return string(n)
	}
}

// foundRowsDSN enables CLIENT_FOUND_ROWS on a MySQL DSN, so updates report
// matched rows like the native client, unless the DSN sets clientFoundRows
// itself. It returns the DSN to open and whether the flag is on.
func foundRowsDSN(dsn string) (string, bool) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return dsn, false
	}
	if strings.Contains(dsn, "clientFoundRows=") {
		return dsn, cfg.ClientFoundRows
	}
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), true
}
