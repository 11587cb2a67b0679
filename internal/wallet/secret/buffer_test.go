package secret_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github/chapool/evm-wallet/internal/wallet/secret"
)

func TestBufferWipe(t *testing.T) {
	backing := []byte{1, 2, 3, 4}
	buf := secret.New(backing)

	assert.Equal(t, 4, buf.Len())
	assert.Equal(t, []byte{1, 2, 3, 4}, buf.Bytes())
	assert.False(t, buf.Wiped())

	buf.Wipe()
	assert.Equal(t, []byte{0, 0, 0, 0}, backing)
	assert.Nil(t, buf.Bytes())
	assert.Equal(t, 0, buf.Len())
	assert.True(t, buf.Wiped())

	// second wipe is a no-op
	buf.Wipe()
	assert.True(t, buf.Wiped())
	assert.False(t, buf.Use(func([]byte) { t.Fatal("wiped buffer must not be used") }))
}

func TestBufferCopyIsolation(t *testing.T) {
	original := []byte{9, 9}
	buf := secret.Copy(original)
	original[0] = 0

	out := buf.Bytes()
	assert.Equal(t, []byte{9, 9}, out)
	out[1] = 0
	assert.Equal(t, []byte{9, 9}, buf.Bytes())

	var seen []byte
	assert.True(t, buf.Use(func(b []byte) { seen = append(seen, b...) }))
	assert.Equal(t, []byte{9, 9}, seen)
}

func TestNilBuffer(t *testing.T) {
	var buf *secret.Buffer
	assert.Nil(t, buf.Bytes())
	assert.True(t, buf.Wiped())
	buf.Wipe()
}
