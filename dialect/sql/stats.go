package sql

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/syssam/veloxqb/dialect"
	"github.com/syssam/veloxqb/internal/sqltext"
)

// QueryStats holds query execution statistics.
type QueryStats struct {
	// TotalQueries is the number of row-producing statements executed.
	TotalQueries atomic.Int64
	// TotalExecs is the number of other statements executed.
	TotalExecs atomic.Int64
	// Transactions is the number of transactions started.
	Transactions atomic.Int64
	// TotalDuration is the total time spent executing statements.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowQueries is the count of statements exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of statement and begin errors.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		Transactions:  s.Transactions.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.Transactions.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	Transactions  int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// AvgQueryDuration returns the average statement duration.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d txs=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.Transactions, s.TotalDuration, s.AvgQueryDuration(),
		s.SlowQueries, s.Errors,
	)
}

// SlowQueryHook is a function called when a slow query is detected.
type SlowQueryHook func(ctx context.Context, query string, args []any, duration time.Duration)

// StatsDriver wraps a Driver with query statistics collection.
type StatsDriver struct {
	*Driver
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow query detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowQueryHook sets a callback function for slow queries.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow queries with the driver's logger.
func WithSlowQueryLog() StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = func(ctx context.Context, query string, args []any, duration time.Duration) {
			s.logger.WarnContext(ctx, "slow query detected", "duration", duration, "query", query, "args", args)
		}
	}
}

// NewStatsDriver wraps a Driver with statistics collection.
//
// Example:
//
//	drv, _ := sql.Open("postgres", dsn)
//	stats := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(),
//	)
//	qb := veloxqb.NewDialect(veloxqb.Config{Driver: stats, SubDialect: postgres.New()})
//
//	// Later, check statistics:
//	fmt.Println(stats.QueryStats().Stats())
func NewStatsDriver(drv *Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:        drv,
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (d *StatsDriver) QueryStats() *QueryStats {
	return d.stats
}

// SlowThreshold returns the current slow query threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.slowThreshold
}

// SetSlowThreshold updates the slow query threshold.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slowThreshold = threshold
}

// Query executes a statement and records statistics.
func (d *StatsDriver) Query(ctx context.Context, query string, opts dialect.QueryOptions) (any, any, error) {
	start := time.Now()
	rows, meta, err := d.Driver.Query(ctx, query, opts)
	d.record(ctx, query, opts, start, err)
	return rows, meta, err
}

// Transaction starts a transaction and counts it.
func (d *StatsDriver) Transaction(ctx context.Context, opts dialect.TxOptions) (dialect.Tx, error) {
	tx, err := d.Driver.Transaction(ctx, opts)
	if err != nil {
		d.stats.Errors.Add(1)
		return nil, err
	}
	d.stats.Transactions.Add(1)
	return tx, nil
}

func (d *StatsDriver) record(ctx context.Context, query string, opts dialect.QueryOptions, start time.Time, err error) {
	duration := time.Since(start)
	if opts.Type == dialect.QuerySelect || sqltext.ReturnsRows(query) {
		d.stats.TotalQueries.Add(1)
	} else {
		d.stats.TotalExecs.Add(1)
	}
	d.stats.TotalDuration.Add(int64(duration))

	if err != nil {
		d.stats.Errors.Add(1)
	}

	d.mu.RLock()
	threshold := d.slowThreshold
	hook := d.slowHook
	d.mu.RUnlock()

	if duration > threshold {
		d.stats.SlowQueries.Add(1)
		if hook != nil {
			args := opts.Bind
			if len(opts.Replacements) > 0 {
				args = opts.Replacements
			}
			hook(ctx, query, args, duration)
		}
	}
}

// DebugDriver wraps a Driver with debug logging of every statement.
type DebugDriver struct {
	*Driver
	log func(context.Context, string, ...any)
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLog sets a custom log function. It receives a message and
// slog-style key value pairs.
func DebugWithLog(logFunc func(context.Context, string, ...any)) DebugOption {
	return func(d *DebugDriver) {
		d.log = logFunc
	}
}

// NewDebugDriver wraps a Driver with debug logging. By default statements
// are logged at debug level with the driver's logger.
func NewDebugDriver(drv *Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log:    drv.logger.DebugContext,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query logs and executes a statement.
func (d *DebugDriver) Query(ctx context.Context, query string, opts dialect.QueryOptions) (any, any, error) {
	attrs := []any{"query", query, "type", opts.Type.String()}
	if opts.Session != nil {
		attrs = append(attrs, "session", opts.Session.ID())
	}
	switch {
	case len(opts.Replacements) > 0:
		attrs = append(attrs, "replacements", opts.Replacements)
	case len(opts.Bind) > 0:
		attrs = append(attrs, "bind", opts.Bind)
	}
	d.log(ctx, "query", attrs...)
	return d.Driver.Query(ctx, query, opts)
}

// Transaction logs and starts a transaction.
func (d *DebugDriver) Transaction(ctx context.Context, opts dialect.TxOptions) (dialect.Tx, error) {
	d.log(ctx, "begin transaction", "isolation", string(opts.Isolation), "read_only", opts.ReadOnly)
	return d.Driver.Transaction(ctx, opts)
}

var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
)

// OpenWithStats opens a database for the given dialect with statistics
// collection enabled.
func OpenWithStats(name, source string, opts ...StatsOption) (*StatsDriver, *QueryStats, error) {
	drv, err := Open(name, source)
	if err != nil {
		return nil, nil, err
	}
	s := NewStatsDriver(drv, opts...)
	return s, s.QueryStats(), nil
}
