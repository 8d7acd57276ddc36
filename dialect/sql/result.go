package sql

import (
	"database/sql"
	"strings"

	"github.com/syssam/veloxqb/dialect"
	"github.com/syssam/veloxqb/internal/sqltext"
)

// shapeRows returns the raw (rows, metadata) pair of a row-producing
// statement, in the shape the dialect's native client uses.
func shapeRows(f dialect.Family, query string, records []Row, columns []string) (any, any) {
	switch f {
	case dialect.FamilyPostgres:
		return records, map[string]any{
			"command":  sqltext.Keyword(query),
			"rowCount": int64(len(records)),
		}
	case dialect.FamilyMySQL:
		return records, columns
	case dialect.FamilyMSSQL:
		return records, int64(len(records))
	case dialect.FamilySQLite:
		return records, nil
	default:
		return records, nil
	}
}

// shapeExec returns the raw (rows, metadata) pair of a statement that
// produced no result set. Counters the database/sql driver cannot report
// are left out.
func shapeExec(f dialect.Family, query string, res sql.Result, foundRows bool) (any, any) {
	lastID, idErr := res.LastInsertId()
	affected, affErr := res.RowsAffected()
	switch f {
	case dialect.FamilyPostgres:
		meta := map[string]any{"command": sqltext.Keyword(query)}
		if affErr == nil {
			meta["rowCount"] = affected
		}
		return []Row{}, meta
	case dialect.FamilyMySQL:
		// Inserts report (insert id, affected rows) like the native client.
		k := sqltext.Keyword(query)
		if (k == "INSERT" || k == "REPLACE") && idErr == nil && affErr == nil {
			return lastID, affected
		}
		meta := map[string]any{}
		switch {
		case affErr != nil:
		case !foundRows && k == "UPDATE":
			// Without CLIENT_FOUND_ROWS an update reports changed rows,
			// and the matched row count is unknown.
			meta["changedRows"] = affected
		default:
			meta["affectedRows"] = affected
		}
		if idErr == nil {
			meta["insertId"] = lastID
		}
		return []Row{}, meta
	case dialect.FamilyMSSQL:
		if affErr != nil {
			return []Row{}, nil
		}
		return []Row{}, affected
	case dialect.FamilySQLite:
		meta := map[string]any{}
		if affErr == nil {
			meta["changes"] = affected
		}
		if idErr == nil {
			meta["lastID"] = lastID
		}
		return []Row{}, meta
	default:
		return []Row{}, nil
	}
}

// scanRows reads all rows into records keyed by column name and closes rows.
// Text columns reported as []byte are converted to string.
func scanRows(rows *sql.Rows) (_ []Row, _ []string, rerr error) {
	defer func() {
		if err := rows.Close(); err != nil && rerr == nil {
			rerr = err
		}
	}()
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	binary := make([]bool, len(columns))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			binary[i] = isBinaryType(ct.DatabaseTypeName())
		}
	}
	records := []Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		r := make(Row, len(columns))
		for i, c := range columns {
			if b, ok := values[i].([]byte); ok && !binary[i] {
				r[c] = string(b)
				continue
			}
			r[c] = values[i]
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return records, columns, nil
}

func isBinaryType(name string) bool {
	name = strings.ToUpper(name)
	for _, t := range []string{"BLOB", "BINARY", "BYTEA", "IMAGE"} {
		if strings.Contains(name, t) {
			return true
		}
	}
	return false
}
