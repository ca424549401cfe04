// Package pipeline wires the per-package components (router, triage, llm,
// orchestrator, guard, scorer, ticket, transcript, telemetry, advice) into
// the end-to-end request flow described by spec §4: translate → triage →
// decompose-and-solve → guard → score → resolve → record.
package pipeline

import (
	"context"
	"fmt"

	"github.com/jjgarcianorway/annad/internal/orchestrator"
	"github.com/jjgarcianorway/annad/internal/probe"
)

// ProbeRunnerAdapter satisfies orchestrator.ProbeRunner by driving the
// read-only probe.Runner one probe at a time. The orchestrator's own
// SubproblemRunner supplies the concurrency; this adapter just needs to run
// a single probe and turn its Result into the evidence string the
// orchestrator stores on the Subproblem.
type ProbeRunnerAdapter struct {
	runner *probe.Runner
}

// NewProbeRunnerAdapter wraps runner for orchestrator consumption.
func NewProbeRunnerAdapter(runner *probe.Runner) *ProbeRunnerAdapter {
	return &ProbeRunnerAdapter{runner: runner}
}

var _ orchestrator.ProbeRunner = (*ProbeRunnerAdapter)(nil)

// RunProbe executes one probe and reports its stdout as evidence. A nonzero
// exit code or timeout is surfaced as an error so the orchestrator's runner
// leaves the Subproblem's evidence untouched for that probe (spec §4.1:
// probe failures are recoverable, never fatal to the ticket).
func (a *ProbeRunnerAdapter) RunProbe(ctx context.Context, probeID string) (string, error) {
	results := a.runner.Execute(ctx, []string{probeID})
	if len(results) == 0 {
		return "", fmt.Errorf("pipeline: no result for probe %q", probeID)
	}
	r := results[0]
	if r.ExitCode != 0 {
		return "", fmt.Errorf("pipeline: probe %q exited %d: %s", probeID, r.ExitCode, r.Stderr)
	}
	return r.Stdout, nil
}
