// Package blskeys wraps supranational/blst with the narrow surface
// this service needs for BLS12-381 consensus and proxy keys, mirroring
// the PublicKeyFromBytes/SignatureFromBytes/Verify shape used
// throughout the beacon-chain signing code in this corpus.
package blskeys

import (
	"crypto/rand"
	"fmt"

	blst "github.com/supranational/blst/bindings/go"
)

const (
	// PublicKeyLength is the length of a compressed BLS12-381 G1 point.
	PublicKeyLength = 48
	// SignatureLength is the length of a compressed BLS12-381 G2 point.
	SignatureLength = 96
	// SecretKeyLength is the length of a BLS12-381 scalar.
	SecretKeyLength = 32
)

var dst = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSZ_RO_POP_+_COMMIT_BOOST_")

// SecretKey is a BLS12-381 secret key, exclusively owned by its holder.
type SecretKey struct {
	inner *blst.SecretKey
}

// PublicKey is a compressed BLS12-381 G1 public key.
type PublicKey struct {
	inner *blst.P1Affine
}

// Signature is a compressed BLS12-381 G2 signature.
type Signature struct {
	inner *blst.P2Affine
}

// GenerateSecretKey produces a fresh secret key from system randomness.
func GenerateSecretKey() (*SecretKey, error) {
	var ikm [32]byte
	if _, err := rand.Read(ikm[:]); err != nil {
		return nil, fmt.Errorf("reading randomness for bls keygen: %w", err)
	}
	sk := blst.KeyGen(ikm[:])
	if sk == nil {
		return nil, fmt.Errorf("bls keygen failed")
	}
	return &SecretKey{inner: sk}, nil
}

// PublicKey derives the public key for this secret key.
func (sk *SecretKey) PublicKey() *PublicKey {
	return &PublicKey{inner: new(blst.P1Affine).From(sk.inner)}
}

// Sign signs msg, producing a compressed G2 signature.
func (sk *SecretKey) Sign(msg []byte) *Signature {
	sig := new(blst.P2Affine).Sign(sk.inner, msg, dst)
	return &Signature{inner: sig}
}

// Marshal returns the raw 32-byte secret scalar.
func (sk *SecretKey) Marshal() []byte {
	return sk.inner.Serialize()
}

// SecretKeyFromBytes parses a 32-byte scalar into a SecretKey.
func SecretKeyFromBytes(b []byte) (*SecretKey, error) {
	if len(b) != SecretKeyLength {
		return nil, fmt.Errorf("invalid bls secret key length: got %d, want %d", len(b), SecretKeyLength)
	}
	sk := new(blst.SecretKey).Deserialize(b)
	if sk == nil {
		return nil, fmt.Errorf("invalid bls secret key bytes")
	}
	return &SecretKey{inner: sk}, nil
}

// Marshal returns the compressed 48-byte public key.
func (pk *PublicKey) Marshal() []byte {
	return pk.inner.Compress()
}

// PublicKeyFromBytes parses a compressed 48-byte public key.
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	if len(b) != PublicKeyLength {
		return nil, fmt.Errorf("invalid bls public key length: got %d, want %d", len(b), PublicKeyLength)
	}
	p := new(blst.P1Affine).Uncompress(b)
	if p == nil || !p.KeyValidate() {
		return nil, fmt.Errorf("invalid bls public key bytes")
	}
	return &PublicKey{inner: p}, nil
}

// Marshal returns the compressed 96-byte signature.
func (s *Signature) Marshal() []byte {
	return s.inner.Compress()
}

// SignatureFromBytes parses a compressed 96-byte signature.
func SignatureFromBytes(b []byte) (*Signature, error) {
	if len(b) != SignatureLength {
		return nil, fmt.Errorf("invalid bls signature length: got %d, want %d", len(b), SignatureLength)
	}
	s := new(blst.P2Affine).Uncompress(b)
	if s == nil {
		return nil, fmt.Errorf("invalid bls signature bytes")
	}
	return &Signature{inner: s}, nil
}

// Verify reports whether sig is a valid signature by pub over msg.
func (s *Signature) Verify(pub *PublicKey, msg []byte) bool {
	return s.inner.Verify(true, pub.inner, true, msg, dst)
}
