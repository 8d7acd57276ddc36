package veloxqb

import (
	"github.com/syssam/veloxqb/builder"
	"github.com/syssam/veloxqb/dialect"
)

// normalizeResult converts the raw (rows, metadata) pair returned by the ORM
// into the counters of a QueryResult. Values of an unexpected shape leave
// the corresponding counter nil.
func normalizeResult(f dialect.Family, rows, metadata any) builder.QueryResult {
	var res builder.QueryResult
	switch f {
	case dialect.FamilyPostgres:
		res.NumAffectedRows = integerOrField(metadata, "rowCount")
	case dialect.FamilyMySQL:
		res.InsertID = integer(rows)
		res.NumAffectedRows = integerOrField(metadata, "affectedRows")
		res.NumChangedRows = field(metadata, "changedRows")
	case dialect.FamilyMSSQL:
		res.InsertID = integer(rows)
		res.NumAffectedRows = integer(metadata)
	case dialect.FamilySQLite:
		m, ok := asPlainRecord(metadata)
		if !ok {
			return res
		}
		res.InsertID = integer(m["lastID"])
		res.NumAffectedRows = integer(m["changes"])
	}
	return res
}

// resultRows returns the rows of a raw ORM result. Anything but a slice of
// records yields no rows.
func resultRows(rows any) []builder.Row {
	switch rs := rows.(type) {
	case []map[string]any:
		if rs == nil {
			return []builder.Row{}
		}
		return rs
	case []any:
		out := make([]builder.Row, 0, len(rs))
		for _, r := range rs {
			if m, ok := asPlainRecord(r); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return []builder.Row{}
	}
}
