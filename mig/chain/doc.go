// Package chain is a minimal sampling harness for migration models: a set
// of proposal operators, independent priors on the model parameters, and a
// Metropolis accept/reject loop with per-operator acceptance accounting.
//
// The harness is what exercises the model's mutation/invalidation
// lifecycle: every proposal mutates the model through its setters, and
// every rejection restores the previous value through the same setter
// path, forcing a rebuild on the next derived read.
//
// Randomness is partitioned per subsystem (operator choice, proposal
// draws, acceptance) so runs with the same seed are reproducible and
// adding draws to one subsystem does not perturb the others.
package chain
