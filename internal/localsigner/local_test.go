package localsigner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bundlecore/signer-core/internal/blskeys"
	"github.com/bundlecore/signer-core/internal/chain"
	"github.com/bundlecore/signer-core/internal/proxystore"
	"github.com/bundlecore/signer-core/internal/signertypes"
)

func newTestBackend(t *testing.T) (*Backend, *blskeys.SecretKey) {
	t.Helper()
	store, err := proxystore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	b := New(chain.Holesky, store, nil)
	consensus, err := blskeys.GenerateSecretKey()
	require.NoError(t, err)
	b.AddConsensusSigner(consensus)
	return b, consensus
}

func TestSignConsensusUnknownSigner(t *testing.T) {
	b, _ := newTestBackend(t)
	_, err := b.SignConsensus(context.Background(), []byte("not-a-real-key"), [32]byte{})
	require.Error(t, err)
	var se *signertypes.Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, signertypes.KindUnknownConsensusSigner, se.Kind)
}

func TestGenerateProxyBLSThenSign(t *testing.T) {
	b, consensus := newTestBackend(t)
	consensusPub := consensus.PublicKey().Marshal()

	delegation, err := b.GenerateProxyBLS(context.Background(), "mev-commit", consensusPub)
	require.NoError(t, err)
	require.Equal(t, consensusPub, delegation.Message.Delegator)
	require.NotEmpty(t, delegation.Message.Proxy)
	require.NotEmpty(t, delegation.Signature)

	proxyPub := delegation.Message.Proxy
	require.True(t, b.HasProxyBLS(proxyPub, "mev-commit"))
	require.False(t, b.HasProxyBLS(proxyPub, "other-module"))

	sig, err := b.SignProxyBLS(context.Background(), proxyPub, [32]byte{1})
	require.NoError(t, err)
	require.NotEmpty(t, sig)
}

func TestGenerateProxyECDSAThenSign(t *testing.T) {
	b, consensus := newTestBackend(t)
	consensusPub := consensus.PublicKey().Marshal()

	delegation, err := b.GenerateProxyECDSA(context.Background(), "mev-commit", consensusPub)
	require.NoError(t, err)
	proxyPub := delegation.Message.Proxy
	require.True(t, b.HasProxyECDSA(proxyPub, "mev-commit"))

	sig, err := b.SignProxyECDSA(context.Background(), proxyPub, [32]byte{2})
	require.NoError(t, err)
	require.Len(t, sig, 65)
}

func TestGenerateProxyUnknownConsensusSigner(t *testing.T) {
	b, _ := newTestBackend(t)
	_, err := b.GenerateProxyBLS(context.Background(), "mev-commit", []byte("nope"))
	require.Error(t, err)
	var se *signertypes.Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, signertypes.KindUnknownConsensusSigner, se.Kind)
}

func TestConsensusProxyMapsScopedByModule(t *testing.T) {
	b, consensus := newTestBackend(t)
	consensusPub := consensus.PublicKey().Marshal()

	_, err := b.GenerateProxyBLS(context.Background(), "module-a", consensusPub)
	require.NoError(t, err)
	_, err = b.GenerateProxyBLS(context.Background(), "module-b", consensusPub)
	require.NoError(t, err)

	maps, err := b.ConsensusProxyMaps(context.Background(), "module-a")
	require.NoError(t, err)
	require.Len(t, maps, 1)
	require.Len(t, maps[0].ProxyBLS, 1)
}

func TestLoadFromStoreRestoresProxies(t *testing.T) {
	store, err := proxystore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	b1 := New(chain.Holesky, store, nil)
	consensus, err := blskeys.GenerateSecretKey()
	require.NoError(t, err)
	b1.AddConsensusSigner(consensus)
	consensusPub := consensus.PublicKey().Marshal()

	delegation, err := b1.GenerateProxyBLS(context.Background(), "mev-commit", consensusPub)
	require.NoError(t, err)

	b2 := New(chain.Holesky, store, nil)
	b2.AddConsensusSigner(consensus)
	require.NoError(t, b2.LoadFromStore())
	require.True(t, b2.HasProxyBLS(delegation.Message.Proxy, "mev-commit"))
}
