package codec_test

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/sessiondb/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, codec.KeySize)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestAESGCM_Roundtrip(t *testing.T) {
	c, err := codec.New(codec.Config{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	payloads := [][]byte{
		{},
		[]byte("a"),
		[]byte(`{"user_id":42,"language":"en_US"}`),
		bytes.Repeat([]byte{0x00, 0xff}, 4096),
	}
	for _, p := range payloads {
		sealed, err := c.Encrypt(p)
		require.NoError(t, err)
		assert.NotEqual(t, p, sealed)

		opened, err := c.Decrypt(sealed)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(p, opened), "payload of length %d did not survive", len(p))
	}
}

func TestAESGCM_FreshNonce(t *testing.T) {
	c, err := codec.New(codec.Config{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	a, err := c.Encrypt([]byte("same"))
	require.NoError(t, err)
	b, err := c.Encrypt([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestAESGCM_KeyRotation(t *testing.T) {
	oldKey := generateKey(t)
	newKey := generateKey(t)

	oldCodec, err := codec.New(codec.Config{ActiveKey: oldKey})
	require.NoError(t, err)
	sealed, err := oldCodec.Encrypt([]byte("encrypted-with-old-key"))
	require.NoError(t, err)

	rotated, err := codec.New(codec.Config{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})
	require.NoError(t, err)
	plain, err := rotated.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "encrypted-with-old-key", string(plain))

	resealed, err := rotated.Encrypt(plain)
	require.NoError(t, err)
	_, err = oldCodec.Decrypt(resealed)
	assert.ErrorIs(t, err, codec.ErrDecrypt)
}

func TestAESGCM_Tampered(t *testing.T) {
	c, err := codec.New(codec.Config{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	sealed, err := c.Encrypt([]byte("payload"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0x01

	_, err = c.Decrypt(sealed)
	assert.ErrorIs(t, err, codec.ErrDecrypt)

	_, err = c.Decrypt([]byte("short"))
	assert.ErrorIs(t, err, codec.ErrDecrypt)
}

func TestNew_InvalidKey(t *testing.T) {
	_, err := codec.New(codec.Config{ActiveKey: []byte("short-key")})
	assert.Error(t, err)

	_, err = codec.New(codec.Config{ActiveKey: generateKey(t), FallbackKeys: [][]byte{[]byte("bad")}})
	assert.Error(t, err)
}
