package veloxqb

import (
	"errors"
	"fmt"
)

// Protocol misuse errors. They signal a caller bug and are never retried.
var (
	// ErrTxStarted is returned by BeginTransaction when the connection
	// already holds an open transaction.
	ErrTxStarted = errors.New("veloxqb: transaction already begun")

	// ErrNoTx is returned by CommitTransaction and RollbackTransaction when
	// the connection holds no transaction.
	ErrNoTx = errors.New("veloxqb: no transaction")

	// ErrForeignConnection is returned by the Driver when it is handed a
	// connection it did not acquire.
	ErrForeignConnection = errors.New("veloxqb: connection was not acquired from this driver")
)

// ErrUnsupported matches every UnsupportedError.
var ErrUnsupported = errors.New("veloxqb: unsupported")

// Capabilities the ORM cannot provide.
var (
	// ErrUnsupportedIsolationLevel matches an isolation level the ORM cannot express.
	ErrUnsupportedIsolationLevel = &UnsupportedError{Capability: "isolation level"}

	// ErrStreamingUnsupported matches a streaming request. The ORM has no
	// server side cursors.
	ErrStreamingUnsupported = &UnsupportedError{Capability: "streaming"}
)

// UnsupportedError is returned, before any I/O, when a capability the ORM
// does not provide is requested. The caller must take another approach.
type UnsupportedError struct {
	Capability string
	// Value is the rejected value, if any.
	Value string
}

// Error returns the error string.
func (e *UnsupportedError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("veloxqb: %s %q is not supported by the ORM", e.Capability, e.Value)
	}
	return fmt.Sprintf("veloxqb: %s is not supported by the ORM", e.Capability)
}

// Is reports whether target is ErrUnsupported or an UnsupportedError for
// the same capability.
func (e *UnsupportedError) Is(target error) bool {
	if target == ErrUnsupported {
		return true
	}
	t, ok := target.(*UnsupportedError)
	return ok && t.Capability == e.Capability
}

// IsUnsupported returns true if the error is an UnsupportedError.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

// ConfigError is returned by NewDialect when the configuration cannot be
// used, for example when the ORM speaks an unsupported dialect.
type ConfigError struct {
	Err error
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("veloxqb: invalid config: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e)
}
