// Package signertypes is the data model shared by every signing
// backend and the HTTP surface: keys, delegations, the signature
// request tagged union, and the error taxonomy of the Signer API.
package signertypes

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ModuleID names a commit-protocol caller module.
type ModuleID string

// EncryptionScheme selects the key scheme for a proxy key.
type EncryptionScheme string

const (
	SchemeBLS   EncryptionScheme = "bls"
	SchemeECDSA EncryptionScheme = "ecdsa"
)

// HexBytes (de)serializes as a 0x-prefixed hex string at the JSON
// boundary, matching spec §6 ("hex-encoded strings with 0x prefix").
type HexBytes []byte

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + hex.EncodeToString(h))
}

func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	trimmed := s
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		trimmed = s[2:]
	}
	b, err := hex.DecodeString(trimmed)
	if err != nil {
		return fmt.Errorf("invalid hex bytes %q: %w", s, err)
	}
	*h = b
	return nil
}

// Account is a Dirk account tuple (wallet, name, optional public key).
type Account struct {
	Wallet    string
	Name      string
	PublicKey []byte // nil until resolved
}

// CompleteName returns "wallet/name".
func (a Account) CompleteName() string {
	return a.Wallet + "/" + a.Name
}

// ProxyDelegation is the unsigned delegation body: a proxy key bound
// to a consensus (delegator) key.
type ProxyDelegation struct {
	Delegator []byte // 48-byte BLS consensus public key
	Proxy     []byte // proxy public key (48-byte BLS or 33-byte ECDSA)
}

// SignedProxyDelegation is a ProxyDelegation plus the consensus
// signature over its tree hash root.
type SignedProxyDelegation struct {
	Message   ProxyDelegation
	Signature []byte // 96-byte BLS signature
}

type signedProxyDelegationJSON struct {
	Message struct {
		Delegator HexBytes `json:"delegator"`
		Proxy     HexBytes `json:"proxy"`
	} `json:"message"`
	Signature HexBytes `json:"signature"`
}

func (d SignedProxyDelegation) MarshalJSON() ([]byte, error) {
	var out signedProxyDelegationJSON
	out.Message.Delegator = d.Message.Delegator
	out.Message.Proxy = d.Message.Proxy
	out.Signature = d.Signature
	return json.Marshal(out)
}

func (d *SignedProxyDelegation) UnmarshalJSON(data []byte) error {
	var in signedProxyDelegationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	d.Message.Delegator = in.Message.Delegator
	d.Message.Proxy = in.Message.Proxy
	d.Signature = in.Signature
	return nil
}

// ConsensusProxyMap lists the proxy keys owned by a caller module for
// one consensus key.
type ConsensusProxyMap struct {
	Consensus  []byte
	ProxyBLS   [][]byte
	ProxyECDSA [][]byte
}

type consensusProxyMapJSON struct {
	Consensus  HexBytes   `json:"consensus"`
	ProxyBLS   []HexBytes `json:"proxy_bls"`
	ProxyECDSA []HexBytes `json:"proxy_ecdsa"`
}

func toHexSlice(in [][]byte) []HexBytes {
	out := make([]HexBytes, len(in))
	for i, b := range in {
		out[i] = b
	}
	return out
}

func fromHexSlice(in []HexBytes) [][]byte {
	out := make([][]byte, len(in))
	for i, b := range in {
		out[i] = b
	}
	return out
}

func (m ConsensusProxyMap) MarshalJSON() ([]byte, error) {
	out := consensusProxyMapJSON{
		Consensus:  m.Consensus,
		ProxyBLS:   toHexSlice(m.ProxyBLS),
		ProxyECDSA: toHexSlice(m.ProxyECDSA),
	}
	return json.Marshal(out)
}

func (m *ConsensusProxyMap) UnmarshalJSON(data []byte) error {
	var in consensusProxyMapJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.Consensus = in.Consensus
	m.ProxyBLS = fromHexSlice(in.ProxyBLS)
	m.ProxyECDSA = fromHexSlice(in.ProxyECDSA)
	return nil
}

// GetPubkeysResponse is the /get_pubkeys response body.
type GetPubkeysResponse struct {
	Keys []ConsensusProxyMap `json:"keys"`
}

// SignatureRequest is the tagged union body of /request_signature.
type SignatureRequest struct {
	Kind       SignatureRequestKind
	PubKey     []byte
	ObjectRoot [32]byte
}

type SignatureRequestKind string

const (
	KindConsensus  SignatureRequestKind = "consensus"
	KindProxyBLS   SignatureRequestKind = "proxy_bls"
	KindProxyECDSA SignatureRequestKind = "proxy_ecdsa"
)

type signatureRequestJSON struct {
	Consensus *pubkeyRootJSON `json:"consensus,omitempty"`
	ProxyBLS  *pubkeyRootJSON `json:"proxy_bls,omitempty"`
	ProxyEcdsa *pubkeyRootJSON `json:"proxy_ecdsa,omitempty"`
}

type pubkeyRootJSON struct {
	Pubkey     HexBytes `json:"pubkey"`
	ObjectRoot HexBytes `json:"object_root"`
}

func (r *SignatureRequest) UnmarshalJSON(data []byte) error {
	var in signatureRequestJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	var body *pubkeyRootJSON
	switch {
	case in.Consensus != nil:
		r.Kind = KindConsensus
		body = in.Consensus
	case in.ProxyBLS != nil:
		r.Kind = KindProxyBLS
		body = in.ProxyBLS
	case in.ProxyEcdsa != nil:
		r.Kind = KindProxyECDSA
		body = in.ProxyEcdsa
	default:
		return fmt.Errorf("request_signature: body must set exactly one of consensus, proxy_bls, proxy_ecdsa")
	}
	if len(body.ObjectRoot) != 32 {
		return fmt.Errorf("request_signature: object_root must be 32 bytes, got %d", len(body.ObjectRoot))
	}
	r.PubKey = body.Pubkey
	copy(r.ObjectRoot[:], body.ObjectRoot)
	return nil
}

// SignatureResponse is the /request_signature response body.
type SignatureResponse struct {
	Signature HexBytes `json:"signature"`
}

// GenerateProxyRequest is the /generate_proxy_key request body.
type GenerateProxyRequest struct {
	ConsensusPubkey HexBytes         `json:"consensus_pubkey"`
	Scheme          EncryptionScheme `json:"scheme"`
}
