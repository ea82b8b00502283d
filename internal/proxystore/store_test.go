package proxystore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bundlecore/signer-core/internal/signertypes"
)

func TestFileStoreBLSRoundTrip(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "proxies"))
	require.NoError(t, err)

	delegation := signertypes.SignedProxyDelegation{
		Message: signertypes.ProxyDelegation{
			Delegator: []byte("delegator"),
			Proxy:     []byte("proxy"),
		},
		Signature: []byte("signature"),
	}

	require.NoError(t, store.StoreProxyBLSDelegation("mev", []byte("secret"), delegation))

	signers, err := store.LoadBLSSigners()
	require.NoError(t, err)
	require.Len(t, signers, 1)
	require.Equal(t, signertypes.ModuleID("mev"), signers[0].ModuleID)
	require.Equal(t, []byte("secret"), signers[0].SecretKey)
}

func TestFileStoreLoadEmptyIsNotError(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	signers, err := store.LoadBLSSigners()
	require.NoError(t, err)
	require.Empty(t, signers)
}

func TestFileStoreAppendsAcrossCalls(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	delegation := signertypes.SignedProxyDelegation{}
	require.NoError(t, store.StoreProxyECDSADelegation("a", []byte("s1"), delegation))
	require.NoError(t, store.StoreProxyECDSADelegation("b", []byte("s2"), delegation))

	signers, err := store.LoadECDSASigners()
	require.NoError(t, err)
	require.Len(t, signers, 2)
}
