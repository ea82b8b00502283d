// Package manager defines the abstract Signing Manager contract (spec
// §4.2) and the tagged union that dispatches it to a concrete backend,
// per spec §9: "Express as a tagged variant... rather than nominal
// interface inheritance."
package manager

import (
	"context"

	"github.com/bundlecore/signer-core/internal/signertypes"
)

// Backend is the capability set every signing backend implements:
// consensus_pubkeys, proxies_for_module, sign_consensus,
// sign_proxy_bls, sign_proxy_ecdsa, generate_proxy_bls,
// generate_proxy_ecdsa.
type Backend interface {
	// ConsensusProxyMaps returns one ConsensusProxyMap per known
	// consensus key, with proxies restricted to moduleID's ownership.
	ConsensusProxyMaps(ctx context.Context, moduleID signertypes.ModuleID) ([]signertypes.ConsensusProxyMap, error)

	// HasProxyBLS reports whether pub is a BLS proxy owned by moduleID.
	HasProxyBLS(pub []byte, moduleID signertypes.ModuleID) bool
	// HasProxyECDSA reports whether pub is an ECDSA proxy owned by moduleID.
	HasProxyECDSA(pub []byte, moduleID signertypes.ModuleID) bool

	SignConsensus(ctx context.Context, pub []byte, objectRoot [32]byte) ([]byte, error)
	SignProxyBLS(ctx context.Context, pub []byte, objectRoot [32]byte) ([]byte, error)
	SignProxyECDSA(ctx context.Context, pub []byte, objectRoot [32]byte) ([]byte, error)

	GenerateProxyBLS(ctx context.Context, moduleID signertypes.ModuleID, consensusPub []byte) (signertypes.SignedProxyDelegation, error)
	// GenerateProxyECDSA returns DirkNotSupported on the Dirk backend.
	GenerateProxyECDSA(ctx context.Context, moduleID signertypes.ModuleID, consensusPub []byte) (signertypes.SignedProxyDelegation, error)
}

// Kind tags which concrete backend a Manager wraps.
type Kind int

const (
	KindLocal Kind = iota
	KindDirk
)

// Manager is the tagged union the HTTP layer talks to; concrete
// backend types never escape it.
type Manager struct {
	kind    Kind
	backend Backend
}

// NewLocal wraps a local in-memory backend.
func NewLocal(backend Backend) *Manager {
	return &Manager{kind: KindLocal, backend: backend}
}

// NewDirk wraps a Dirk remote backend.
func NewDirk(backend Backend) *Manager {
	return &Manager{kind: KindDirk, backend: backend}
}

// Kind reports which backend this manager wraps.
func (m *Manager) Kind() Kind { return m.kind }

// IsDirk reports whether the manager is backed by Dirk, which rejects
// ECDSA proxy generation outright (spec §4.1, §4.2).
func (m *Manager) IsDirk() bool { return m.kind == KindDirk }

func (m *Manager) ConsensusProxyMaps(ctx context.Context, moduleID signertypes.ModuleID) ([]signertypes.ConsensusProxyMap, error) {
	return m.backend.ConsensusProxyMaps(ctx, moduleID)
}

func (m *Manager) HasProxyBLS(pub []byte, moduleID signertypes.ModuleID) bool {
	return m.backend.HasProxyBLS(pub, moduleID)
}

func (m *Manager) HasProxyECDSA(pub []byte, moduleID signertypes.ModuleID) bool {
	return m.backend.HasProxyECDSA(pub, moduleID)
}

func (m *Manager) SignConsensus(ctx context.Context, pub []byte, objectRoot [32]byte) ([]byte, error) {
	return m.backend.SignConsensus(ctx, pub, objectRoot)
}

func (m *Manager) SignProxyBLS(ctx context.Context, pub []byte, objectRoot [32]byte) ([]byte, error) {
	return m.backend.SignProxyBLS(ctx, pub, objectRoot)
}

func (m *Manager) SignProxyECDSA(ctx context.Context, pub []byte, objectRoot [32]byte) ([]byte, error) {
	return m.backend.SignProxyECDSA(ctx, pub, objectRoot)
}

func (m *Manager) GenerateProxyBLS(ctx context.Context, moduleID signertypes.ModuleID, consensusPub []byte) (signertypes.SignedProxyDelegation, error) {
	return m.backend.GenerateProxyBLS(ctx, moduleID, consensusPub)
}

func (m *Manager) GenerateProxyECDSA(ctx context.Context, moduleID signertypes.ModuleID, consensusPub []byte) (signertypes.SignedProxyDelegation, error) {
	if m.kind == KindDirk {
		return signertypes.SignedProxyDelegation{}, signertypes.ErrDirkNotSupported()
	}
	return m.backend.GenerateProxyECDSA(ctx, moduleID, consensusPub)
}
