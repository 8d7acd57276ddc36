package builder

import (
	"context"
	"fmt"
)

// adapter is a DialectAdapter backed by constant capabilities.
type adapter struct {
	returning, output, txDDL, createIfNotExists bool
}

func (a adapter) SupportsReturning() bool         { return a.returning }
func (a adapter) SupportsOutput() bool            { return a.output }
func (a adapter) SupportsTransactionalDDL() bool  { return a.txDDL }
func (a adapter) SupportsCreateIfNotExists() bool { return a.createIfNotExists }

// subDialect is the SQL generation strategy of one database.
type subDialect struct {
	syn     *syntax
	adapter adapter
	// tables lists base tables as (table_schema, table_name) rows.
	tables string
}

// MySQL returns the sub-dialect for MySQL and MariaDB.
func MySQL() SubDialect {
	return subDialect{
		syn:     mysqlSyntax,
		adapter: adapter{createIfNotExists: true},
		tables: "select table_schema as `table_schema`, table_name as `table_name` " +
			"from information_schema.tables " +
			"where table_type = 'BASE TABLE' and table_schema = database() " +
			"order by table_name",
	}
}

// Postgres returns the sub-dialect for PostgreSQL.
func Postgres() SubDialect {
	return subDialect{
		syn:     postgresSyntax,
		adapter: adapter{returning: true, txDDL: true, createIfNotExists: true},
		tables: `select table_schema, table_name from information_schema.tables ` +
			`where table_type = 'BASE TABLE' and table_schema not in ('pg_catalog', 'information_schema') ` +
			`order by table_schema, table_name`,
	}
}

// SQLite returns the sub-dialect for SQLite.
func SQLite() SubDialect {
	return subDialect{
		syn:     sqliteSyntax,
		adapter: adapter{returning: true, createIfNotExists: true},
		tables: `select 'main' as table_schema, name as table_name from sqlite_master ` +
			`where type = 'table' and name not like 'sqlite_%' order by name`,
	}
}

// MSSQL returns the sub-dialect for Microsoft SQL Server.
func MSSQL() SubDialect {
	return subDialect{
		syn:     mssqlSyntax,
		adapter: adapter{output: true, txDDL: true},
		tables: `select table_schema, table_name from information_schema.tables ` +
			`where table_type = 'BASE TABLE' order by table_schema, table_name`,
	}
}

// CreateAdapter implements SubDialect.
func (d subDialect) CreateAdapter() DialectAdapter { return d.adapter }

// CreateQueryCompiler implements SubDialect.
func (d subDialect) CreateQueryCompiler() QueryCompiler { return compiler{syn: d.syn} }

// CreateIntrospector implements SubDialect.
func (d subDialect) CreateIntrospector(db *DB) Introspector {
	return &introspector{db: db, query: d.tables}
}

// String returns the dialect name.
func (d subDialect) String() string { return d.syn.name }

type introspector struct {
	db    *DB
	query string
}

// Tables implements Introspector.
func (i *introspector) Tables(ctx context.Context) ([]TableMetadata, error) {
	res, err := i.db.Execute(ctx, Raw(i.query))
	if err != nil {
		return nil, fmt.Errorf("builder: introspect tables: %w", err)
	}
	tables := make([]TableMetadata, 0, len(res.Rows))
	for _, r := range res.Rows {
		name, _ := r["table_name"].(string)
		schema, _ := r["table_schema"].(string)
		tables = append(tables, TableMetadata{Schema: schema, Name: name})
	}
	return tables, nil
}
