package veloxqb

import (
	"errors"
	"log/slog"

	"github.com/syssam/veloxqb/builder"
	"github.com/syssam/veloxqb/dialect"
)

// Config configures a Dialect.
type Config struct {
	// Driver executes statements. Required.
	Driver dialect.Driver
	// SubDialect supplies the compiler, adapter and introspector matching
	// the database behind Driver, such as builder.Postgres(). Required.
	SubDialect builder.SubDialect
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Dialect is a builder.Dialect that runs builder queries through an ORM
// driver.
type Dialect struct {
	sub    builder.SubDialect
	orm    dialect.Driver
	logger *slog.Logger
}

// NewDialect validates cfg and returns a Dialect. Configuration errors are
// of type *ConfigError.
func NewDialect(cfg Config) (*Dialect, error) {
	if cfg.Driver == nil {
		return nil, &ConfigError{Err: errors.New("driver is required")}
	}
	if cfg.SubDialect == nil {
		return nil, &ConfigError{Err: errors.New("sub-dialect is required")}
	}
	if err := dialect.AssertSupported(cfg.Driver.Dialect()); err != nil {
		return nil, &ConfigError{Err: err}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dialect{sub: cfg.SubDialect, orm: cfg.Driver, logger: logger}, nil
}

// New returns a builder.DB running on the dialect configured by cfg.
func New(cfg Config) (*builder.DB, error) {
	d, err := NewDialect(cfg)
	if err != nil {
		return nil, err
	}
	return builder.New(d), nil
}

// CreateDriver returns a driver executing through the ORM.
func (d *Dialect) CreateDriver() builder.Driver {
	return &Driver{orm: d.orm, logger: d.logger.With("component", "veloxqb", "dialect", d.orm.Dialect())}
}

// CreateAdapter delegates to the sub-dialect.
func (d *Dialect) CreateAdapter() builder.DialectAdapter { return d.sub.CreateAdapter() }

// CreateIntrospector delegates to the sub-dialect.
func (d *Dialect) CreateIntrospector(db *builder.DB) builder.Introspector {
	return d.sub.CreateIntrospector(db)
}

// CreateQueryCompiler delegates to the sub-dialect.
func (d *Dialect) CreateQueryCompiler() builder.QueryCompiler { return d.sub.CreateQueryCompiler() }

var _ builder.Dialect = (*Dialect)(nil)
