package ecdsakeys

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	sk, err := GenerateSecretKey()
	require.NoError(t, err)

	hash := sha256.Sum256([]byte("object root"))
	sig, err := sk.Sign(hash[:])
	require.NoError(t, err)
	require.Len(t, sig, SignatureLength)

	pub := sk.PublicKey()
	require.True(t, Verify(pub, hash[:], sig))
}

func TestMarshalRoundTrip(t *testing.T) {
	sk, err := GenerateSecretKey()
	require.NoError(t, err)
	pub := sk.PublicKey()

	b := pub.Marshal()
	require.Len(t, b, CompressedPublicKeyLength)

	pub2, err := PublicKeyFromBytes(b)
	require.NoError(t, err)
	require.Equal(t, pub.Marshal(), pub2.Marshal())
}
