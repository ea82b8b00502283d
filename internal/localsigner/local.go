// Package localsigner implements the in-memory Local signing backend
// of spec §4.3. State is a set of maps guarded by a single
// sync.RWMutex, matching spec §5's discipline: sign_* and get_pubkeys
// take the shared lock, create_proxy_* the exclusive one, never held
// across network I/O (there is none on this path).
package localsigner

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/bundlecore/signer-core/internal/blskeys"
	"github.com/bundlecore/signer-core/internal/chain"
	"github.com/bundlecore/signer-core/internal/ecdsakeys"
	"github.com/bundlecore/signer-core/internal/proxystore"
	"github.com/bundlecore/signer-core/internal/signertypes"
	"github.com/bundlecore/signer-core/internal/sszutil"
)

type proxyBLSEntry struct {
	moduleID signertypes.ModuleID
	secret   *blskeys.SecretKey
}

type proxyECDSAEntry struct {
	moduleID signertypes.ModuleID
	secret   *ecdsakeys.SecretKey
}

// Backend is the Local signing backend: an in-memory key store plus
// an injected proxy store.
type Backend struct {
	chain chain.Chain
	store proxystore.Store
	log   *zap.SugaredLogger

	mu             sync.RWMutex
	consensusKeys  map[string]*blskeys.SecretKey // hex pubkey -> secret
	consensusOrder []string                      // preserves load order for get_pubkeys
	proxyBLS       map[string]proxyBLSEntry      // hex pubkey -> entry
	proxyECDSA     map[string]proxyECDSAEntry    // hex pubkey -> entry
}

// New builds an empty Local backend. AddConsensusSigner populates it;
// LoadFromStore replays previously persisted proxies.
func New(c chain.Chain, store proxystore.Store, log *zap.SugaredLogger) *Backend {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Backend{
		chain:         c,
		store:         store,
		log:           log,
		consensusKeys: make(map[string]*blskeys.SecretKey),
		proxyBLS:      make(map[string]proxyBLSEntry),
		proxyECDSA:    make(map[string]proxyECDSAEntry),
	}
}

func hexKey(b []byte) string { return fmt.Sprintf("%x", b) }

// AddConsensusSigner registers a loaded consensus secret key. Called
// only at startup, before the backend is shared.
func (b *Backend) AddConsensusSigner(secret *blskeys.SecretKey) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pub := secret.PublicKey().Marshal()
	key := hexKey(pub)
	if _, exists := b.consensusKeys[key]; !exists {
		b.consensusOrder = append(b.consensusOrder, key)
	}
	b.consensusKeys[key] = secret
}

// LoadFromStore replays persisted proxy signers from the injected
// store, restoring ownership tracking across restarts.
func (b *Backend) LoadFromStore() error {
	if b.store == nil {
		return nil
	}
	blsSigners, err := b.store.LoadBLSSigners()
	if err != nil {
		return fmt.Errorf("loading persisted bls proxies: %w", err)
	}
	ecdsaSigners, err := b.store.LoadECDSASigners()
	if err != nil {
		return fmt.Errorf("loading persisted ecdsa proxies: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range blsSigners {
		secret, err := blskeys.SecretKeyFromBytes(s.SecretKey)
		if err != nil {
			b.log.Warnw("skipping unreadable persisted bls proxy", "module", s.ModuleID, "err", err)
			continue
		}
		pub := secret.PublicKey().Marshal()
		b.proxyBLS[hexKey(pub)] = proxyBLSEntry{moduleID: s.ModuleID, secret: secret}
	}
	for _, s := range ecdsaSigners {
		secret, err := ecdsakeys.SecretKeyFromBytes(s.SecretKey)
		if err != nil {
			b.log.Warnw("skipping unreadable persisted ecdsa proxy", "module", s.ModuleID, "err", err)
			continue
		}
		pub := secret.PublicKey().Marshal()
		b.proxyECDSA[hexKey(pub)] = proxyECDSAEntry{moduleID: s.ModuleID, secret: secret}
	}
	return nil
}

// ConsensusPubkeys returns every known consensus public key, in load order.
func (b *Backend) ConsensusPubkeys() [][]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([][]byte, 0, len(b.consensusOrder))
	for _, key := range b.consensusOrder {
		out = append(out, b.consensusKeys[key].PublicKey().Marshal())
	}
	return out
}

func (b *Backend) ConsensusProxyMaps(_ context.Context, moduleID signertypes.ModuleID) ([]signertypes.ConsensusProxyMap, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	maps := make([]signertypes.ConsensusProxyMap, 0, len(b.consensusOrder))
	for _, key := range b.consensusOrder {
		consensusPub := b.consensusKeys[key].PublicKey().Marshal()
		m := signertypes.ConsensusProxyMap{Consensus: consensusPub}
		for _, entry := range b.proxyBLS {
			if entry.moduleID == moduleID {
				m.ProxyBLS = append(m.ProxyBLS, entry.secret.PublicKey().Marshal())
			}
		}
		for _, entry := range b.proxyECDSA {
			if entry.moduleID == moduleID {
				m.ProxyECDSA = append(m.ProxyECDSA, entry.secret.PublicKey().Marshal())
			}
		}
		maps = append(maps, m)
	}
	return maps, nil
}

func (b *Backend) HasProxyBLS(pub []byte, moduleID signertypes.ModuleID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entry, ok := b.proxyBLS[hexKey(pub)]
	return ok && entry.moduleID == moduleID
}

func (b *Backend) HasProxyECDSA(pub []byte, moduleID signertypes.ModuleID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entry, ok := b.proxyECDSA[hexKey(pub)]
	return ok && entry.moduleID == moduleID
}

func (b *Backend) domain() [32]byte {
	return chain.ComputeDomain(b.chain, chain.CommitBoostDomain)
}

func (b *Backend) SignConsensus(_ context.Context, pub []byte, objectRoot [32]byte) ([]byte, error) {
	b.mu.RLock()
	secret, ok := b.consensusKeys[hexKey(pub)]
	b.mu.RUnlock()
	if !ok {
		return nil, signertypes.ErrUnknownConsensusSigner(pub)
	}
	domain := b.domain()
	root := sszutil.TreeHashRoot2(objectRoot[:], domain[:])
	return secret.Sign(root[:]).Marshal(), nil
}

func (b *Backend) SignProxyBLS(_ context.Context, pub []byte, objectRoot [32]byte) ([]byte, error) {
	b.mu.RLock()
	entry, ok := b.proxyBLS[hexKey(pub)]
	b.mu.RUnlock()
	if !ok {
		return nil, signertypes.ErrUnknownProxySigner(pub)
	}
	domain := b.domain()
	root := sszutil.TreeHashRoot2(objectRoot[:], domain[:])
	return entry.secret.Sign(root[:]).Marshal(), nil
}

func (b *Backend) SignProxyECDSA(_ context.Context, pub []byte, objectRoot [32]byte) ([]byte, error) {
	b.mu.RLock()
	entry, ok := b.proxyECDSA[hexKey(pub)]
	b.mu.RUnlock()
	if !ok {
		return nil, signertypes.ErrUnknownProxySigner(pub)
	}
	domain := b.domain()
	root := sszutil.TreeHashRoot2(objectRoot[:], domain[:])
	sig, err := entry.secret.Sign(root[:])
	if err != nil {
		return nil, signertypes.ErrInternalf("ecdsa proxy sign: %v", err)
	}
	return sig, nil
}

// signDelegationLocked signs a proxy delegation using a consensus secret
// that the caller has already resolved under b.mu's write lock. It must
// not re-take b.mu: sync.RWMutex is not reentrant, and every caller here
// holds the exclusive lock across the whole generate_proxy_* operation.
func (b *Backend) signDelegationLocked(secret *blskeys.SecretKey, consensusPub []byte, proxyPub []byte) signertypes.SignedProxyDelegation {
	domain := b.domain()
	root := sszutil.TreeHashRoot2(consensusPub, proxyPub)
	root = sszutil.TreeHashRoot2(root[:], domain[:])
	sig := secret.Sign(root[:]).Marshal()
	return signertypes.SignedProxyDelegation{
		Message:   signertypes.ProxyDelegation{Delegator: consensusPub, Proxy: proxyPub},
		Signature: sig,
	}
}

func (b *Backend) GenerateProxyBLS(_ context.Context, moduleID signertypes.ModuleID, consensusPub []byte) (signertypes.SignedProxyDelegation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	consensusSecret, ok := b.consensusKeys[hexKey(consensusPub)]
	if !ok {
		return signertypes.SignedProxyDelegation{}, signertypes.ErrUnknownConsensusSigner(consensusPub)
	}

	secret, err := blskeys.GenerateSecretKey()
	if err != nil {
		return signertypes.SignedProxyDelegation{}, signertypes.ErrInternalf("generating bls proxy key: %v", err)
	}
	proxyPub := secret.PublicKey().Marshal()

	delegation := b.signDelegationLocked(consensusSecret, consensusPub, proxyPub)

	if b.store != nil {
		if err := b.store.StoreProxyBLSDelegation(moduleID, secret.Marshal(), delegation); err != nil {
			return signertypes.SignedProxyDelegation{}, signertypes.ErrInternalf("persisting bls proxy: %v", err)
		}
	}

	b.proxyBLS[hexKey(proxyPub)] = proxyBLSEntry{moduleID: moduleID, secret: secret}
	return delegation, nil
}

func (b *Backend) GenerateProxyECDSA(_ context.Context, moduleID signertypes.ModuleID, consensusPub []byte) (signertypes.SignedProxyDelegation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	consensusSecret, ok := b.consensusKeys[hexKey(consensusPub)]
	if !ok {
		return signertypes.SignedProxyDelegation{}, signertypes.ErrUnknownConsensusSigner(consensusPub)
	}

	secret, err := ecdsakeys.GenerateSecretKey()
	if err != nil {
		return signertypes.SignedProxyDelegation{}, signertypes.ErrInternalf("generating ecdsa proxy key: %v", err)
	}
	proxyPub := secret.PublicKey().Marshal()

	delegation := b.signDelegationLocked(consensusSecret, consensusPub, proxyPub)

	if b.store != nil {
		if err := b.store.StoreProxyECDSADelegation(moduleID, secret.Marshal(), delegation); err != nil {
			return signertypes.SignedProxyDelegation{}, signertypes.ErrInternalf("persisting ecdsa proxy: %v", err)
		}
	}

	b.proxyECDSA[hexKey(proxyPub)] = proxyECDSAEntry{moduleID: moduleID, secret: secret}
	return delegation, nil
}
