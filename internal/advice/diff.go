package advice

import (
	"fmt"
	"sort"
	"strings"
)

// DeltaKind is the closed set of threshold crossings the diff recognizes
// (spec §4.13 step 2).
type DeltaKind string

const (
	DeltaDiskBump         DeltaKind = "disk.bump"
	DeltaDiskWarn         DeltaKind = "disk.warn"
	DeltaDiskCritical     DeltaKind = "disk.critical"
	DeltaNewFailedService DeltaKind = "service.failed"
	DeltaMemoryHigh       DeltaKind = "memory.high"
)

// diskBumpThreshold, diskWarnThreshold, diskCriticalThreshold, and
// memoryHighThreshold are the fixed thresholds spec §4.13 step 2 names:
// "disk +5pp bump, cross 85% warn, cross 95% critical; memory > 80%".
const (
	diskBumpThreshold     = 5
	diskWarnThreshold     = 85
	diskCriticalThreshold = 95
	memoryHighThreshold   = 80
)

// Delta is one detected change between two snapshots.
type Delta struct {
	Kind    DeltaKind
	Mount   string
	Service string
	Percent uint8
	From    uint8
}

// DiffSnapshots compares curr against prev and returns every threshold
// crossing, in a deterministic order (disk deltas by mount, then new
// failed services, then memory).
func DiffSnapshots(prev, curr Snapshot) []Delta {
	var deltas []Delta
	deltas = append(deltas, diskDeltas(prev, curr)...)
	deltas = append(deltas, failedServiceDeltas(prev, curr)...)
	if d, ok := memoryDelta(curr); ok {
		deltas = append(deltas, d)
	}
	return deltas
}

func diskDeltas(prev, curr Snapshot) []Delta {
	prevByMount := prev.diskByMount()
	var deltas []Delta

	mounts := make([]string, 0, len(curr.Disk))
	for _, d := range curr.Disk {
		mounts = append(mounts, d.Mount)
	}
	sort.Strings(mounts)

	for _, mount := range mounts {
		var currPct uint8
		for _, d := range curr.Disk {
			if d.Mount == mount {
				currPct = d.PercentUsed
				break
			}
		}

		prevEntry, hadPrev := prevByMount[mount]
		if hadPrev && currPct >= prevEntry.PercentUsed+diskBumpThreshold {
			deltas = append(deltas, Delta{Kind: DeltaDiskBump, Mount: mount, Percent: currPct, From: prevEntry.PercentUsed})
		}
		if crossedUp(prevEntry.PercentUsed, currPct, diskCriticalThreshold, hadPrev) {
			deltas = append(deltas, Delta{Kind: DeltaDiskCritical, Mount: mount, Percent: currPct})
		} else if crossedUp(prevEntry.PercentUsed, currPct, diskWarnThreshold, hadPrev) {
			deltas = append(deltas, Delta{Kind: DeltaDiskWarn, Mount: mount, Percent: currPct})
		}
	}
	return deltas
}

// crossedUp reports whether curr has crossed threshold from below, treating
// an absent previous reading as "below" so a mount seen for the first time
// above threshold still counts as a crossing.
func crossedUp(prevPct, currPct uint8, threshold uint8, hadPrev bool) bool {
	if currPct < threshold {
		return false
	}
	if !hadPrev {
		return true
	}
	return prevPct < threshold
}

func failedServiceDeltas(prev, curr Snapshot) []Delta {
	prevFailed := prev.failedServiceSet()
	names := append([]string(nil), curr.FailedServices...)
	sort.Strings(names)

	var deltas []Delta
	for _, name := range names {
		if !prevFailed[name] {
			deltas = append(deltas, Delta{Kind: DeltaNewFailedService, Service: name})
		}
	}
	return deltas
}

func memoryDelta(curr Snapshot) (Delta, bool) {
	pct := curr.MemoryPercentUsed()
	if pct > memoryHighThreshold {
		return Delta{Kind: DeltaMemoryHigh, Percent: pct}, true
	}
	return Delta{}, false
}

// FormatDeltasText renders deltas as a human-readable warning list, or the
// fixed "no new warnings" sentence when deltas is empty (spec §8 scenario
// 6: `format_deltas_text([]) == "No new warnings since last check."`).
func FormatDeltasText(deltas []Delta) string {
	if len(deltas) == 0 {
		return "No new warnings since last check."
	}
	lines := make([]string, 0, len(deltas))
	for _, d := range deltas {
		lines = append(lines, formatDelta(d))
	}
	return strings.Join(lines, " ")
}

func formatDelta(d Delta) string {
	switch d.Kind {
	case DeltaDiskBump:
		return fmt.Sprintf("%s usage jumped from %d%% to %d%%.", d.Mount, d.From, d.Percent)
	case DeltaDiskWarn:
		return fmt.Sprintf("%s usage crossed %d%% (now %d%%).", d.Mount, diskWarnThreshold, d.Percent)
	case DeltaDiskCritical:
		return fmt.Sprintf("%s usage crossed %d%% (now %d%%).", d.Mount, diskCriticalThreshold, d.Percent)
	case DeltaNewFailedService:
		return fmt.Sprintf("%s is now failed.", d.Service)
	case DeltaMemoryHigh:
		return fmt.Sprintf("memory usage is at %d%%.", d.Percent)
	default:
		return ""
	}
}
