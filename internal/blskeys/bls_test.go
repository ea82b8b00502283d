package blskeys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	sk, err := GenerateSecretKey()
	require.NoError(t, err)

	pub := sk.PublicKey()
	msg := []byte("object root, opaque to the signer")

	sig := sk.Sign(msg)
	require.True(t, sig.Verify(pub, msg))

	other, err := GenerateSecretKey()
	require.NoError(t, err)
	require.False(t, sig.Verify(other.PublicKey(), msg))
}

func TestMarshalRoundTrip(t *testing.T) {
	sk, err := GenerateSecretKey()
	require.NoError(t, err)
	pub := sk.PublicKey()
	sig := sk.Sign([]byte("root"))

	pubBytes := pub.Marshal()
	require.Len(t, pubBytes, PublicKeyLength)
	pub2, err := PublicKeyFromBytes(pubBytes)
	require.NoError(t, err)

	sigBytes := sig.Marshal()
	require.Len(t, sigBytes, SignatureLength)
	sig2, err := SignatureFromBytes(sigBytes)
	require.NoError(t, err)

	require.True(t, sig2.Verify(pub2, []byte("root")))
}
