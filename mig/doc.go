// Package mig implements a continuous-time Markov migration model over a
// fixed set of demes: the computational core consumed by structured-coalescent
// likelihood and proposal-generation code.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - layout.go: the packed rate-vector layouts and the (i, j) → offset codec
//   - model.go: the Model type, its accessors/mutators, and the Clean/Dirty
//     invalidation lifecycle that rebuilds the generator on demand
//   - powers.go: the lazily extended cache of powers of the uniformized
//     transition matrix, with steady-state detection
//
// # Architecture
//
// A Model owns three raw parameter vectors (migration rates, population
// sizes, optional per-rate indicator flags) and derives from them the
// infinitesimal generator Q, its symmetrized counterpart Qsym, the
// uniformization constants mu/muSym, and the uniformized transition matrices
// R = I + Q/mu and Rsym. Any mutation marks the model dirty; the next
// derived-value read rebuilds everything in one pass and resets the power
// caches.
//
// Consumers layered on the core:
//   - probs.go: interval transition probabilities P(t) by Poisson-weighted
//     accumulation of cached powers of R
//   - simulate.go: forward simulation of single-lineage deme paths
//   - trace.go: the fixed tabular value contract (population sizes, backward
//     and forward rates, indicator flags) and a TSV trace writer
//   - config.go: YAML model specification loading and validation
//
// The sampling harness that drives the model's mutation lifecycle lives in
// the chain sub-package.
//
// Models are not safe for concurrent use; a chain run owns its model
// exclusively and serializes all access on one goroutine.
package mig
