// Package ecdsakeys wraps go-ethereum/crypto for the ECDSA proxy key
// path, matching the key-handling idiom used throughout the teacher
// repo's bundlecore and eip7702 packages.
package ecdsakeys

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// CompressedPublicKeyLength is the length of a compressed secp256k1 public key.
	CompressedPublicKeyLength = 33
	// SignatureLength is the length of an r||s||v ECDSA signature.
	SignatureLength = 65
	// SecretKeyLength is the length of a raw secp256k1 scalar.
	SecretKeyLength = 32
)

// SecretKey is an ECDSA secp256k1 proxy secret key.
type SecretKey struct {
	inner *ecdsa.PrivateKey
}

// PublicKey is a compressed secp256k1 public key.
type PublicKey struct {
	inner *ecdsa.PublicKey
}

// GenerateSecretKey produces a fresh secp256k1 keypair.
func GenerateSecretKey() (*SecretKey, error) {
	sk, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating ecdsa key: %w", err)
	}
	return &SecretKey{inner: sk}, nil
}

// PublicKey derives the public key for this secret key.
func (sk *SecretKey) PublicKey() *PublicKey {
	return &PublicKey{inner: &sk.inner.PublicKey}
}

// Sign signs the 32-byte hash, returning a 65-byte r||s||v signature.
func (sk *SecretKey) Sign(hash []byte) ([]byte, error) {
	sig, err := crypto.Sign(hash, sk.inner)
	if err != nil {
		return nil, fmt.Errorf("ecdsa sign: %w", err)
	}
	return sig, nil
}

// Marshal returns the raw 32-byte secret scalar.
func (sk *SecretKey) Marshal() []byte {
	return crypto.FromECDSA(sk.inner)
}

// SecretKeyFromBytes parses a 32-byte scalar into a SecretKey.
func SecretKeyFromBytes(b []byte) (*SecretKey, error) {
	if len(b) != SecretKeyLength {
		return nil, fmt.Errorf("invalid ecdsa secret key length: got %d, want %d", len(b), SecretKeyLength)
	}
	sk, err := crypto.ToECDSA(b)
	if err != nil {
		return nil, fmt.Errorf("invalid ecdsa secret key bytes: %w", err)
	}
	return &SecretKey{inner: sk}, nil
}

// Marshal returns the compressed 33-byte public key.
func (pk *PublicKey) Marshal() []byte {
	return crypto.CompressPubkey(pk.inner)
}

// PublicKeyFromBytes parses a compressed 33-byte public key.
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	if len(b) != CompressedPublicKeyLength {
		return nil, fmt.Errorf("invalid ecdsa public key length: got %d, want %d", len(b), CompressedPublicKeyLength)
	}
	pub, err := crypto.DecompressPubkey(b)
	if err != nil {
		return nil, fmt.Errorf("invalid ecdsa public key bytes: %w", err)
	}
	return &PublicKey{inner: pub}, nil
}

// Verify reports whether sig (65-byte r||s||v) is valid for pub over hash.
func Verify(pub *PublicKey, hash, sig []byte) bool {
	if len(sig) != SignatureLength {
		return false
	}
	return crypto.VerifySignature(pub.Marshal(), hash, sig[:64])
}
