package session_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/sessiondb/pkg/codec"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T) *codec.AESGCM {
	t.Helper()
	c, err := codec.New(codec.Config{ActiveKey: bytes.Repeat([]byte{7}, codec.KeySize)})
	require.NoError(t, err)
	return c
}
