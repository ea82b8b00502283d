package chain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeDomainDeterministic(t *testing.T) {
	d1 := ComputeDomain(Mainnet, CommitBoostDomain)
	d2 := ComputeDomain(Mainnet, CommitBoostDomain)
	require.Equal(t, d1, d2)
	require.Equal(t, CommitBoostDomain[:], d1[:4])
}

func TestComputeDomainDiffersByChain(t *testing.T) {
	mainnet := ComputeDomain(Mainnet, CommitBoostDomain)
	holesky := ComputeDomain(Holesky, CommitBoostDomain)
	require.NotEqual(t, mainnet, holesky)
}

func TestParseChainDefaultsToCustom(t *testing.T) {
	require.Equal(t, Mainnet, ParseChain("mainnet"))
	require.Equal(t, Custom, ParseChain("nonexistent"))
}
