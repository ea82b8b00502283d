package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bundlecore/signer-core/internal/signertypes"
)

type stubBackend struct {
	generateECDSACalled bool
}

func (s *stubBackend) ConsensusProxyMaps(context.Context, signertypes.ModuleID) ([]signertypes.ConsensusProxyMap, error) {
	return nil, nil
}
func (s *stubBackend) HasProxyBLS([]byte, signertypes.ModuleID) bool   { return false }
func (s *stubBackend) HasProxyECDSA([]byte, signertypes.ModuleID) bool { return false }
func (s *stubBackend) SignConsensus(context.Context, []byte, [32]byte) ([]byte, error) {
	return nil, nil
}
func (s *stubBackend) SignProxyBLS(context.Context, []byte, [32]byte) ([]byte, error) {
	return nil, nil
}
func (s *stubBackend) SignProxyECDSA(context.Context, []byte, [32]byte) ([]byte, error) {
	return nil, nil
}
func (s *stubBackend) GenerateProxyBLS(context.Context, signertypes.ModuleID, []byte) (signertypes.SignedProxyDelegation, error) {
	return signertypes.SignedProxyDelegation{}, nil
}
func (s *stubBackend) GenerateProxyECDSA(context.Context, signertypes.ModuleID, []byte) (signertypes.SignedProxyDelegation, error) {
	s.generateECDSACalled = true
	return signertypes.SignedProxyDelegation{}, nil
}

func TestDirkManagerRejectsGenerateProxyECDSAWithoutCallingBackend(t *testing.T) {
	backend := &stubBackend{}
	m := NewDirk(backend)

	_, err := m.GenerateProxyECDSA(context.Background(), "mev-commit", []byte("consensus-pub"))
	require.Error(t, err)
	var se *signertypes.Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, signertypes.KindDirkNotSupported, se.Kind)
	require.False(t, backend.generateECDSACalled)
}

func TestLocalManagerDelegatesGenerateProxyECDSA(t *testing.T) {
	backend := &stubBackend{}
	m := NewLocal(backend)

	_, err := m.GenerateProxyECDSA(context.Background(), "mev-commit", []byte("consensus-pub"))
	require.NoError(t, err)
	require.True(t, backend.generateECDSACalled)
}

func TestManagerKindReporting(t *testing.T) {
	require.True(t, NewDirk(&stubBackend{}).IsDirk())
	require.False(t, NewLocal(&stubBackend{}).IsDirk())
}
