package veloxqb

import (
	"github.com/syssam/veloxqb/builder"
	"github.com/syssam/veloxqb/dialect"
)

// isolationLevels maps builder levels to ORM levels. Snapshot has no ORM
// equivalent and is absent.
var isolationLevels = map[builder.IsolationLevel]dialect.IsolationLevel{
	builder.ReadUncommitted: dialect.ReadUncommitted,
	builder.ReadCommitted:   dialect.ReadCommitted,
	builder.RepeatableRead:  dialect.RepeatableRead,
	builder.Serializable:    dialect.Serializable,
}

// translateIsolationLevel returns the ORM isolation level for l. The empty
// level selects the database default.
func translateIsolationLevel(l builder.IsolationLevel) (dialect.IsolationLevel, error) {
	if l == "" {
		return "", nil
	}
	if level, ok := isolationLevels[l]; ok {
		return level, nil
	}
	return "", &UnsupportedError{Capability: ErrUnsupportedIsolationLevel.Capability, Value: string(l)}
}
