// Package proxystore persists proxy keys and their signed delegations.
// The JSON-file-backed implementation here generalizes the teacher's
// cmd/bundlegui/persistence.go load/save-to-JSON-file idiom: one file
// per key scheme, in a configured directory, round-tripped wholesale
// on every write (acceptable for the size of this key material).
package proxystore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bundlecore/signer-core/internal/signertypes"
)

// BLSSigner is a persisted BLS proxy secret key plus its delegation.
type BLSSigner struct {
	ModuleID   signertypes.ModuleID          `json:"module_id"`
	SecretKey  []byte                        `json:"secret_key"`
	Delegation signertypes.SignedProxyDelegation `json:"delegation"`
}

// ECDSASigner is a persisted ECDSA proxy secret key plus its delegation.
type ECDSASigner struct {
	ModuleID   signertypes.ModuleID          `json:"module_id"`
	SecretKey  []byte                        `json:"secret_key"`
	Delegation signertypes.SignedProxyDelegation `json:"delegation"`
}

// Store is the proxy store contract used by the Local backend (for
// both keys and delegations) and the Dirk backend (delegations only,
// since Dirk itself holds the proxy key material).
type Store interface {
	StoreProxyBLSDelegation(moduleID signertypes.ModuleID, secret []byte, delegation signertypes.SignedProxyDelegation) error
	StoreProxyECDSADelegation(moduleID signertypes.ModuleID, secret []byte, delegation signertypes.SignedProxyDelegation) error
	LoadBLSSigners() ([]BLSSigner, error)
	LoadECDSASigners() ([]ECDSASigner, error)
}

// FileStore persists all proxy signers for one process under a single
// directory, one JSON file per scheme.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore returns a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating proxy store dir %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) blsPath() string   { return filepath.Join(s.dir, "bls_signers.json") }
func (s *FileStore) ecdsaPath() string { return filepath.Join(s.dir, "ecdsa_signers.json") }

func readJSON[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()
	var out []T
	if err := json.NewDecoder(f).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	return out, nil
}

func writeJSON[T any](path string, items []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(items); err != nil {
		return fmt.Errorf("encoding %q: %w", path, err)
	}
	return nil
}

func (s *FileStore) StoreProxyBLSDelegation(moduleID signertypes.ModuleID, secret []byte, delegation signertypes.SignedProxyDelegation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	signers, err := readJSON[BLSSigner](s.blsPath())
	if err != nil {
		return err
	}
	signers = append(signers, BLSSigner{ModuleID: moduleID, SecretKey: secret, Delegation: delegation})
	return writeJSON(s.blsPath(), signers)
}

func (s *FileStore) StoreProxyECDSADelegation(moduleID signertypes.ModuleID, secret []byte, delegation signertypes.SignedProxyDelegation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	signers, err := readJSON[ECDSASigner](s.ecdsaPath())
	if err != nil {
		return err
	}
	signers = append(signers, ECDSASigner{ModuleID: moduleID, SecretKey: secret, Delegation: delegation})
	return writeJSON(s.ecdsaPath(), signers)
}

func (s *FileStore) LoadBLSSigners() ([]BLSSigner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readJSON[BLSSigner](s.blsPath())
}

func (s *FileStore) LoadECDSASigners() ([]ECDSASigner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readJSON[ECDSASigner](s.ecdsaPath())
}
