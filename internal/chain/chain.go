// Package chain provides the named chain configurations used for
// signing-domain separation, mirroring the fork-version/domain
// machinery of beacon-chain signing (see the prysm-derived
// ComputeDomain below) without pulling in a full beacon state.
package chain

import "github.com/bundlecore/signer-core/internal/sszutil"

// Chain names a network whose genesis fork version feeds the
// commit-boost signing domain.
type Chain int

const (
	Mainnet Chain = iota
	Holesky
	Sepolia
	Custom
)

func (c Chain) String() string {
	switch c {
	case Mainnet:
		return "mainnet"
	case Holesky:
		return "holesky"
	case Sepolia:
		return "sepolia"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// forkVersions holds each network's genesis fork version, the same
// 4-byte tag beacon-chain clients mix into every signing domain.
var forkVersions = map[Chain][4]byte{
	Mainnet: {0x00, 0x00, 0x00, 0x00},
	Holesky: {0x01, 0x01, 0x70, 0x00},
	Sepolia: {0x90, 0x00, 0x00, 0x69},
}

// ForkVersion returns the fork version for a named chain. Custom
// chains must be resolved by the caller before ComputeDomain is used;
// ForkVersion returns the zero version for Custom.
func (c Chain) ForkVersion() [4]byte {
	return forkVersions[c]
}

// ParseChain maps a config string to a Chain, defaulting to Custom
// with the zero fork version when unrecognized.
func ParseChain(s string) Chain {
	switch s {
	case "mainnet":
		return Mainnet
	case "holesky":
		return Holesky
	case "sepolia":
		return Sepolia
	default:
		return Custom
	}
}

// DomainMask is the 4-byte application-level domain type mixed into
// every commit-boost signing domain, distinguishing these signatures
// from any beacon-chain protocol domain.
type DomainMask [4]byte

// CommitBoostDomain is the domain mask used for every signature this
// service produces: consensus signatures and proxy delegations alike.
var CommitBoostDomain = DomainMask{0x6d, 0x6d, 0x6f, 0x43} // "mmoC"

// ComputeDomain returns the 32-byte signing domain for a chain and
// domain mask, following the same two-field SSZ container
// merkleization as beacon-chain's compute_domain: the domain is the
// mask followed by the first 28 bytes of the fork-data root, where the
// fork-data root is the hash tree root of {fork_version,
// genesis_validators_root}. Commit-boost proxy delegations are not
// tied to a beacon genesis, so the genesis validators root is always
// the zero hash here.
func ComputeDomain(c Chain, mask DomainMask) [32]byte {
	forkVersion := c.ForkVersion()
	var genesisValidatorsRoot [32]byte // always zero here; see doc comment

	forkDataRoot := sszutil.TreeHashRoot2(forkVersion[:], genesisValidatorsRoot[:])

	var domain [32]byte
	copy(domain[:4], mask[:])
	copy(domain[4:], forkDataRoot[:28])
	return domain
}
