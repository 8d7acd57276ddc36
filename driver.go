package veloxqb

import (
	"context"
	"log/slog"

	"github.com/syssam/veloxqb/builder"
	"github.com/syssam/veloxqb/dialect"
)

// Driver is a builder.Driver backed by an ORM driver. Pooling is left to
// the ORM: connections handed out by AcquireConnection borrow a pooled
// connection lazily and give it back on release.
type Driver struct {
	orm    dialect.Driver
	logger *slog.Logger
}

// Init is a no-op; the ORM driver is initialized by its owner.
func (d *Driver) Init(context.Context) error { return nil }

// AcquireConnection returns a new idle Connection.
func (d *Driver) AcquireConnection(context.Context) (builder.DatabaseConnection, error) {
	return newConnection(d.orm, d.logger), nil
}

// BeginTransaction begins a transaction on conn.
func (d *Driver) BeginTransaction(ctx context.Context, conn builder.DatabaseConnection, settings builder.TransactionSettings) error {
	c, err := d.own(conn)
	if err != nil {
		return err
	}
	return c.BeginTransaction(ctx, settings)
}

// CommitTransaction commits the transaction open on conn.
func (d *Driver) CommitTransaction(ctx context.Context, conn builder.DatabaseConnection) error {
	c, err := d.own(conn)
	if err != nil {
		return err
	}
	return c.CommitTransaction(ctx)
}

// RollbackTransaction rolls back the transaction open on conn.
func (d *Driver) RollbackTransaction(ctx context.Context, conn builder.DatabaseConnection) error {
	c, err := d.own(conn)
	if err != nil {
		return err
	}
	return c.RollbackTransaction(ctx)
}

// ReleaseConnection releases conn.
func (d *Driver) ReleaseConnection(ctx context.Context, conn builder.DatabaseConnection) error {
	c, err := d.own(conn)
	if err != nil {
		return err
	}
	return c.Release(ctx)
}

// Destroy closes the ORM driver.
func (d *Driver) Destroy(context.Context) error {
	return d.orm.Close()
}

// own returns conn if it was acquired from d.
func (d *Driver) own(conn builder.DatabaseConnection) (*Connection, error) {
	c, ok := conn.(*Connection)
	if !ok || c == nil || c.orm != d.orm {
		return nil, ErrForeignConnection
	}
	return c, nil
}

var _ builder.Driver = (*Driver)(nil)
