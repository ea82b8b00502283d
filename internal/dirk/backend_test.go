package dirk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCutLast(t *testing.T) {
	before, after, ok := cutLast("wallet/module/uuid", "/")
	require.True(t, ok)
	require.Equal(t, "wallet/module", before)
	require.Equal(t, "uuid", after)

	_, _, ok = cutLast("no-separator", "/")
	require.False(t, ok)
}

func TestRandomPasswordIsHexAndVaries(t *testing.T) {
	a, err := randomPassword()
	require.NoError(t, err)
	require.Len(t, a, 64)

	b, err := randomPassword()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestStoreAndReadPasswordRoundTrip(t *testing.T) {
	b := &Backend{secretsPath: t.TempDir()}

	require.NoError(t, b.storePassword("wallet/module/uuid-1", "s3cret"))

	got, err := b.readPassword("wallet/module/uuid-1")
	require.NoError(t, err)
	require.Equal(t, "s3cret", got)
}

func TestIsConfiguredAccount(t *testing.T) {
	b := &Backend{accounts: []account{{wallet: "w", name: "a"}}}
	require.True(t, b.isConfiguredAccount("w/a"))
	require.False(t, b.isConfiguredAccount("w/b"))
}

func TestHasProxyECDSAAlwaysFalse(t *testing.T) {
	b := &Backend{}
	require.False(t, b.HasProxyECDSA([]byte("anything"), "module"))
}
