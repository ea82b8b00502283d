package sszutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldRootExactChunk(t *testing.T) {
	data := make([]byte, 32)
	for i := range data {
		data[i] = byte(i)
	}
	root := FieldRoot(data)
	var want [32]byte
	copy(want[:], data)
	require.Equal(t, want, root)
}

func TestTreeHashRoot2Deterministic(t *testing.T) {
	a := []byte("delegator-pubkey-48-bytes-aaaaaaaaaaaaaaaaaaaaaa")
	b := []byte("proxy-pubkey-48-bytes-bbbbbbbbbbbbbbbbbbbbbbbbbb")

	r1 := TreeHashRoot2(a, b)
	r2 := TreeHashRoot2(a, b)
	require.Equal(t, r1, r2)

	r3 := TreeHashRoot2(b, a)
	require.NotEqual(t, r1, r3, "field order must affect the root")
}

func TestFieldRootPadsShortData(t *testing.T) {
	r1 := FieldRoot([]byte{0x01, 0x02, 0x03, 0x04})
	r2 := FieldRoot([]byte{0x01, 0x02, 0x03, 0x04})
	require.Equal(t, r1, r2)

	var want [32]byte
	copy(want[:], []byte{0x01, 0x02, 0x03, 0x04})
	require.Equal(t, want, r1)
}
