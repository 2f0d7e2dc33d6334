package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("acquire: %w", domain.ErrLockDenied), "denied"},
		{fmt.Errorf("%w: %w", domain.ErrConnection, errors.New("dial tcp")), "connection"},
		{fmt.Errorf("delete: %w: %w", domain.ErrWriteFailed, domain.ErrSessionNotFound), "not_found"},
		{fmt.Errorf("update: %w", domain.ErrWriteFailed), "write"},
		{fmt.Errorf("read: %w: %w", domain.ErrReadFailed, errors.New("statement timeout")), "read"},
		{fmt.Errorf("%q: %w", "oracle", domain.ErrUnsupportedBackend), "unsupported"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.Kind(tt.err), "%v", tt.err)
	}
}

func TestState_Live(t *testing.T) {
	assert.False(t, domain.StateUnstarted.Live())
	assert.True(t, domain.StateNew.Live())
	assert.True(t, domain.StateActive.Live())
	assert.True(t, domain.StateClosed.Live())
	assert.False(t, domain.StateDestroyed.Live())
	assert.Equal(t, "destroyed", domain.StateDestroyed.String())
}
