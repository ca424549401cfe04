package advice

import (
	"fmt"
	"time"
)

// Plan is a read-only remediation plan: dry-run commands only, apply/undo
// lists are always empty (spec §4.13: "Advice is read-only output").
type Plan struct {
	DryRunCmds []string
	ApplyCmds  []string
	UndoCmds   []string
}

// DryRunOnly builds a Plan carrying only dry-run commands.
func DryRunOnly(cmds []string) Plan {
	return Plan{DryRunCmds: cmds}
}

// Advice is one emitted health-delta record (spec §3/§4.13).
type Advice struct {
	ID        string
	Kind      DeltaKind
	Team      string
	Reason    string
	CreatedAt time.Time
	Plan      Plan
}

// Evaluate diffs curr against prev, and for every delta not currently under
// cooldown, emits an Advice (spec §4.13). Within one sweep, multiple deltas
// of the same kind are deduplicated (only the first is emitted), even when
// cooldownHours is 0 and the cooldown itself suppresses nothing.
func Evaluate(prev, curr Snapshot, team string, cooldown *Cooldown, now time.Time, cooldownHours int) []Advice {
	deltas := DiffSnapshots(prev, curr)
	advices := make([]Advice, 0, len(deltas))
	emitted := map[DeltaKind]bool{}

	for _, d := range deltas {
		if emitted[d.Kind] || cooldown.Active(string(d.Kind), team, now, cooldownHours) {
			continue
		}
		emitted[d.Kind] = true
		advices = append(advices, Advice{
			ID:        adviceID(d.Kind, now),
			Kind:      d.Kind,
			Team:      team,
			Reason:    formatDelta(d),
			CreatedAt: now,
			Plan:      planFor(d.Kind),
		})
		cooldown.Record(string(d.Kind), team, now)
	}
	return advices
}

func adviceID(kind DeltaKind, now time.Time) string {
	return fmt.Sprintf("%s-%s", kind, now.UTC().Format("20060102T150405Z"))
}

// planFor returns the fixed dry-run-only remediation commands for a delta
// kind (spec §4.13: "Plans include dry-run commands only").
func planFor(kind DeltaKind) Plan {
	switch kind {
	case DeltaDiskBump, DeltaDiskWarn, DeltaDiskCritical:
		return DryRunOnly([]string{
			"du -sh /var/cache/*",
			"find $HOME -type f -size +500M -print | head -n 20",
		})
	case DeltaNewFailedService:
		return DryRunOnly([]string{"systemctl status --no-pager"})
	case DeltaMemoryHigh:
		return DryRunOnly([]string{"ps aux --sort=-%mem | head -n 10"})
	default:
		return Plan{}
	}
}
