// Package advice implements the background health-delta detector (spec
// §4.13): periodic snapshot capture, threshold-based diffing against the
// previous snapshot, and cooldown-suppressed, read-only Advice records.
package advice

import (
	"time"

	"github.com/jjgarcianorway/annad/internal/parser"
)

// Snapshot is a point-in-time capture of the fixed probe set the advice
// layer watches (spec §4.13 step 1: df, free, systemctl --failed).
type Snapshot struct {
	CapturedAt     time.Time
	Disk           []parser.DiskUsage
	Memory         parser.Memory
	FailedServices []string
}

// MemoryPercentUsed is the rounded-down percentage of total memory in use,
// or 0 if TotalBytes is 0 (no memory probe data).
func (s Snapshot) MemoryPercentUsed() uint8 {
	if s.Memory.TotalBytes == 0 {
		return 0
	}
	return uint8((s.Memory.UsedBytes * 100) / s.Memory.TotalBytes)
}

// diskByMount indexes Disk entries by their mount point for pairwise diffing.
func (s Snapshot) diskByMount() map[string]parser.DiskUsage {
	out := make(map[string]parser.DiskUsage, len(s.Disk))
	for _, d := range s.Disk {
		out[d.Mount] = d
	}
	return out
}

func (s Snapshot) failedServiceSet() map[string]bool {
	out := make(map[string]bool, len(s.FailedServices))
	for _, name := range s.FailedServices {
		out[name] = true
	}
	return out
}
