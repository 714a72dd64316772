package chain

import (
	"hash/fnv"
	"math/rand"
)

// ChainKey uniquely identifies a reproducible chain run. Two runs with the
// same ChainKey and identical configuration MUST produce bit-for-bit
// identical results.
type ChainKey int64

// NewChainKey creates a ChainKey from a seed value.
func NewChainKey(seed int64) ChainKey {
	return ChainKey(seed)
}

const (
	// SubsystemOperators is the RNG subsystem for operator selection.
	SubsystemOperators = "operators"

	// SubsystemProposals is the RNG subsystem for proposal draws.
	SubsystemProposals = "proposals"

	// SubsystemAccept is the RNG subsystem for accept/reject decisions.
	SubsystemAccept = "accept"
)

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem. Each subsystem's seed is derived as
// masterSeed XOR fnv1a64(subsystemName), so draws from one subsystem never
// perturb another.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        ChainKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a ChainKey.
func NewPartitionedRNG(key ChainKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same subsystem name always returns the same *rand.Rand
// instance (cached). Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Key returns the ChainKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() ChainKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
