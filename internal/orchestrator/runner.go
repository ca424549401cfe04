package orchestrator

import (
	"context"
	"sync"
)

// ProbeRunner executes a single probe and returns its parsed evidence
// token. The orchestrator is agnostic to how a probe is actually run; the
// real implementation binds this to the probe scheduler + parser pipeline.
type ProbeRunner interface {
	RunProbe(ctx context.Context, probeID string) (evidence string, err error)
}

// probeResult pairs a dispatched probe with its outcome.
type probeResult struct {
	subproblemID string
	probeID      string
	evidence     string
	err          error
}

// SubproblemRunner dispatches the required probes for a batch of pending
// subproblems concurrently, bounded by maxConcurrent, and collects results
// on a buffered channel — the same reserved-slot/results-channel shape as
// the teacher's SubAgentRunner, adapted from "sub-agent" to "probe"
// dispatch.
type SubproblemRunner struct {
	runner        ProbeRunner
	maxConcurrent int
}

// NewSubproblemRunner builds a runner bounded to maxConcurrent in-flight
// probes.
func NewSubproblemRunner(runner ProbeRunner, maxConcurrent int) *SubproblemRunner {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &SubproblemRunner{runner: runner, maxConcurrent: maxConcurrent}
}

// RunPending executes every required probe for subproblems still Pending or
// InProgress, attributing each result to the subproblem that requested it
// (spec §4.6 invariant: "every probe executed in the loop is traceable to
// exactly one subproblem"). It mutates a copy of subs and returns it.
func (r *SubproblemRunner) RunPending(ctx context.Context, subs []Subproblem) []Subproblem {
	type job struct {
		subIdx  int
		probeID string
	}

	var jobs []job
	for i, sp := range subs {
		if sp.Status != StatusPending && sp.Status != StatusInProgress {
			continue
		}
		for _, probeID := range sp.RequiredProbes {
			jobs = append(jobs, job{subIdx: i, probeID: probeID})
		}
	}
	if len(jobs) == 0 {
		return subs
	}

	sem := make(chan struct{}, r.maxConcurrent)
	resultsCh := make(chan probeResult, len(jobs))
	var wg sync.WaitGroup

	for _, j := range jobs {
		j := j
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			evidence, err := r.runner.RunProbe(ctx, j.probeID)
			resultsCh <- probeResult{
				subproblemID: subs[j.subIdx].ID,
				probeID:      j.probeID,
				evidence:     evidence,
				err:          err,
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	out := append([]Subproblem(nil), subs...)
	for res := range resultsCh {
		idx := findSubproblem(out, res.subproblemID)
		if idx < 0 {
			continue
		}
		out[idx].Status = StatusInProgress
		if res.err == nil && res.evidence != "" {
			out[idx].Evidence = append(out[idx].Evidence, res.evidence)
		}
	}
	return out
}
