package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jjgarcianorway/annad/internal/advice"
	"github.com/jjgarcianorway/annad/internal/parser"
	"github.com/jjgarcianorway/annad/internal/probe"
)

// defaultAdviceHistory bounds the advice.list IPC response, mirroring
// TicketStore's fixed-capacity retention.
const defaultAdviceHistory = 200

// advisorProbes is the fixed probe set the background health-delta detector
// watches (spec §4.13 step 1: df, free, systemctl --failed).
var advisorProbes = []string{"disk.df", "mem.free", "svc.status_all"}

// Advisor runs the periodic snapshot-diff-advise loop described by spec
// §4.13, independent of the query-handling path: it is driven by a ticker,
// not by incoming requests.
type Advisor struct {
	Runner        *probe.Runner
	Team          string
	CooldownHours int
	Logger        *slog.Logger

	mu       sync.Mutex
	cooldown *advice.Cooldown
	prev     *advice.Snapshot
	history  []advice.Advice
}

// NewAdvisor constructs an Advisor with its own cooldown tracker.
func NewAdvisor(runner *probe.Runner, team string, cooldownHours int) *Advisor {
	return &Advisor{
		Runner:        runner,
		Team:          team,
		CooldownHours: cooldownHours,
		cooldown:      advice.NewCooldown(),
	}
}

func (a *Advisor) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// RunOnce captures a fresh snapshot, diffs it against the previous one, and
// appends any resulting Advice to history. The first call always emits
// nothing (there is no previous snapshot to diff against).
func (a *Advisor) RunOnce(ctx context.Context, now time.Time) []advice.Advice {
	curr := a.capture(ctx, now)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.prev == nil {
		a.prev = &curr
		return nil
	}

	emitted := advice.Evaluate(*a.prev, curr, a.Team, a.cooldown, now, a.CooldownHours)
	a.prev = &curr
	if len(emitted) > 0 {
		a.history = append(a.history, emitted...)
		if len(a.history) > defaultAdviceHistory {
			a.history = a.history[len(a.history)-defaultAdviceHistory:]
		}
	}
	return emitted
}

func (a *Advisor) capture(ctx context.Context, now time.Time) advice.Snapshot {
	results := a.Runner.Execute(ctx, advisorProbes)
	snap := advice.Snapshot{CapturedAt: now}

	for _, r := range results {
		if r.ExitCode != 0 {
			a.logger().Warn("advisor: probe failed", "probe_id", r.ProbeID, "error", r.Stderr)
			continue
		}
		switch r.ProbeID {
		case "disk.df":
			if entries, err := parser.ParseDF(r.ProbeID, r.Stdout); err == nil {
				snap.Disk = entries
			}
		case "mem.free":
			if mem, err := parser.ParseFree(r.ProbeID, r.Stdout); err == nil {
				snap.Memory = mem
			}
		case "svc.status_all":
			if services, err := parser.ParseSystemctlFailed(r.ProbeID, r.Stdout); err == nil {
				names := make([]string, 0, len(services))
				for _, svc := range services {
					names = append(names, svc.Name)
				}
				snap.FailedServices = names
			}
		}
	}
	return snap
}

// Start runs RunOnce on interval until ctx is cancelled.
func (a *Advisor) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.RunOnce(ctx, now)
		}
	}
}

// List returns the retained advice history, most recent last.
func (a *Advisor) List() []advice.Advice {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]advice.Advice, len(a.history))
	copy(out, a.history)
	return out
}

// Last returns the most recently captured snapshot, if any.
func (a *Advisor) Last() (advice.Snapshot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.prev == nil {
		return advice.Snapshot{}, false
	}
	return *a.prev, true
}
