package veloxqb_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/veloxqb"
)

func TestUnsupportedError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := &veloxqb.UnsupportedError{Capability: "isolation level", Value: "snapshot"}
		assert.Equal(t, `veloxqb: isolation level "snapshot" is not supported by the ORM`, err.Error())
		assert.Equal(t, "veloxqb: streaming is not supported by the ORM", veloxqb.ErrStreamingUnsupported.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := &veloxqb.UnsupportedError{Capability: "isolation level", Value: "snapshot"}
		assert.True(t, errors.Is(err, veloxqb.ErrUnsupportedIsolationLevel))
		assert.True(t, errors.Is(err, veloxqb.ErrUnsupported))
		assert.False(t, errors.Is(err, veloxqb.ErrStreamingUnsupported))
	})

	t.Run("IsUnsupported", func(t *testing.T) {
		wrapped := fmt.Errorf("wrapper: %w", veloxqb.ErrStreamingUnsupported)
		assert.True(t, veloxqb.IsUnsupported(wrapped))
		assert.True(t, veloxqb.IsUnsupported(veloxqb.ErrUnsupported))
		assert.False(t, veloxqb.IsUnsupported(errors.New("other error")))
		assert.False(t, veloxqb.IsUnsupported(nil))
	})
}

func TestConfigError(t *testing.T) {
	inner := errors.New("driver is required")
	err := &veloxqb.ConfigError{Err: inner}
	assert.Equal(t, "veloxqb: invalid config: driver is required", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.True(t, veloxqb.IsConfigError(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, veloxqb.IsConfigError(inner))
	assert.False(t, veloxqb.IsConfigError(nil))
}

func TestProtocolErrors(t *testing.T) {
	for _, err := range []error{veloxqb.ErrTxStarted, veloxqb.ErrNoTx, veloxqb.ErrForeignConnection} {
		assert.False(t, veloxqb.IsUnsupported(err), err.Error())
		assert.False(t, veloxqb.IsConfigError(err), err.Error())
	}
}
