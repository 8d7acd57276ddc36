package sql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/syssam/veloxqb/dialect"
)

// ConnectionManager borrows dedicated connections from the driver's pools.
// Read connections come from the replica when one is configured.
type ConnectionManager struct {
	write    *sql.DB
	read     *sql.DB
	logger   *slog.Logger
	mu       sync.Mutex // guards Conn.released
	borrowed atomic.Int64
}

// GetConnection borrows a connection of the requested type.
func (m *ConnectionManager) GetConnection(ctx context.Context, opts dialect.ConnOptions) (dialect.Conn, error) {
	db := m.write
	if opts.Type == dialect.ConnRead {
		db = m.read
	}
	sc, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: get connection: %w", err)
	}
	c := &Conn{Conn: sc, id: uuid.NewString(), typ: opts.Type}
	m.borrowed.Add(1)
	m.logger.DebugContext(ctx, "connection borrowed", "conn_id", c.id, "type", opts.Type.String())
	return c, nil
}

// ReleaseConnection returns a borrowed connection to its pool. Releasing
// the same connection twice returns an error wrapping sql.ErrConnDone.
func (m *ConnectionManager) ReleaseConnection(conn dialect.Conn) error {
	c, ok := conn.(*Conn)
	if !ok {
		return fmt.Errorf("dialect/sql: release: unexpected connection type %T", conn)
	}
	m.mu.Lock()
	if c.released {
		m.mu.Unlock()
		return fmt.Errorf("dialect/sql: release: %w", sql.ErrConnDone)
	}
	c.released = true
	m.mu.Unlock()
	m.borrowed.Add(-1)
	m.logger.Debug("connection released", "conn_id", c.id)
	if err := c.Conn.Close(); err != nil {
		return fmt.Errorf("dialect/sql: release: %w", err)
	}
	return nil
}

// Borrowed returns the number of connections currently borrowed.
func (m *ConnectionManager) Borrowed() int64 {
	return m.borrowed.Load()
}
