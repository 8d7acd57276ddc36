// Package builder is a small SQL query builder. Statements are built with a
// fluent API, compiled by the QueryCompiler of a SubDialect and executed
// through a Driver.
//
//	db := builder.New(dialect)
//	defer db.Destroy(ctx)
//
//	res, err := builder.Insert("person").
//	    Columns("first_name", "gender").
//	    Values("Jennifer", "female").
//	    Exec(ctx, db)
//
//	rows, err := builder.Select("id", "first_name").
//	    From("person").
//	    Where(builder.EQ("gender", "female")).
//	    OrderBy("id", builder.OrderAsc).
//	    All(ctx, db)
//
// Statements that must share a connection run inside Connection or
// Transaction:
//
//	err := db.Transaction(ctx, builder.TransactionSettings{IsolationLevel: builder.Serializable},
//	    func(tx *builder.Conn) error {
//	        _, err := builder.Delete("pet").Where(builder.EQ("owner_id", 1)).Exec(ctx, tx)
//	        return err
//	    })
//
// Compiled SQL uses lower case keywords and the identifier quoting and
// placeholder style of each database:
//
//	MySQL()     `person`  ?
//	Postgres()  "person"  $1   returning
//	SQLite()    "person"  ?    returning
//	MSSQL()     [person]  @1   output inserted.*
package builder
