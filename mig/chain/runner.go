package chain

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/migsim/migsim/mig"
)

// Config holds the run parameters of a sampling chain.
type Config struct {
	Steps       int64
	LogEvery    int64 // 0 disables trace output
	Seed        int64
	RateMean    float64
	PopSizeMean float64
}

// OperatorStats accumulates per-operator proposal accounting.
type OperatorStats struct {
	Proposed int64
	Accepted int64
}

// Runner drives a Metropolis chain over a migration model: at each step it
// picks an operator, proposes a mutation, and accepts or rejects against
// the prior. Rejected proposals are restored through the model's setter
// path, so every step exercises the Clean→Dirty→rebuild cycle.
type Runner struct {
	model *mig.Model
	ops   []Operator
	prior Prior
	cfg   Config
	rng   *PartitionedRNG
	trace *mig.TraceWriter
	stats map[string]*OperatorStats
}

// NewRunner creates a Runner. traceOut may be nil to disable trace output.
func NewRunner(model *mig.Model, ops []Operator, cfg Config, traceOut io.Writer) *Runner {
	r := &Runner{
		model: model,
		ops:   ops,
		prior: Prior{RateMean: cfg.RateMean, PopSizeMean: cfg.PopSizeMean},
		cfg:   cfg,
		rng:   NewPartitionedRNG(NewChainKey(cfg.Seed)),
		stats: make(map[string]*OperatorStats, len(ops)),
	}
	if traceOut != nil {
		r.trace = mig.NewTraceWriter(traceOut, model)
	}
	for _, op := range ops {
		r.stats[op.Name()] = &OperatorStats{}
	}
	return r
}

// Run executes the configured number of steps.
func (r *Runner) Run() error {
	if len(r.ops) == 0 {
		return errors.New("chain has no operators")
	}

	opRNG := r.rng.ForSubsystem(SubsystemOperators)
	proposalRNG := r.rng.ForSubsystem(SubsystemProposals)
	acceptRNG := r.rng.ForSubsystem(SubsystemAccept)

	if r.trace != nil {
		if err := r.trace.WriteHeader(); err != nil {
			return fmt.Errorf("write trace header: %w", err)
		}
	}

	logrus.Infof("Starting chain: %d steps, %d operators, seed=%d",
		r.cfg.Steps, len(r.ops), r.cfg.Seed)

	logDensity := r.prior.LogDensity(r.model)
	for step := int64(0); step < r.cfg.Steps; step++ {
		op := r.ops[opRNG.Intn(len(r.ops))]
		stats := r.stats[op.Name()]
		stats.Proposed++

		logHastings, restore := op.Propose(r.model, proposalRNG)
		proposedDensity := r.prior.LogDensity(r.model)

		logAlpha := proposedDensity - logDensity + logHastings
		if logAlpha >= 0 || math.Log(acceptRNG.Float64()) < logAlpha {
			stats.Accepted++
			logDensity = proposedDensity
		} else {
			restore()
		}

		if r.trace != nil && r.cfg.LogEvery > 0 && step%r.cfg.LogEvery == 0 {
			if err := r.trace.WriteSample(step); err != nil {
				return fmt.Errorf("write trace sample %d: %w", step, err)
			}
		}
	}

	logrus.Info("Chain complete.")
	return nil
}

// Model returns the model driven by this runner.
func (r *Runner) Model() *mig.Model { return r.model }

// Stats returns the per-operator acceptance accounting.
func (r *Runner) Stats() map[string]*OperatorStats { return r.stats }

// Report writes per-operator acceptance statistics in a fixed order.
func (r *Runner) Report(w io.Writer) {
	names := make([]string, 0, len(r.stats))
	for name := range r.stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "%-16s %10s %10s %8s\n", "operator", "proposed", "accepted", "rate")
	for _, name := range names {
		stats := r.stats[name]
		rate := 0.0
		if stats.Proposed > 0 {
			rate = float64(stats.Accepted) / float64(stats.Proposed)
		}
		fmt.Fprintf(w, "%-16s %10d %10d %8.3f\n", name, stats.Proposed, stats.Accepted, rate)
	}
}
