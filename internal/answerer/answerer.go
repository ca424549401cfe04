// Package answerer renders typed parser output into claim-shaped sentences
// for the classes with a deterministic path (spec §4.7). Every rendered
// number is the exact value from evidence — bytes carry an explicit "B"
// suffix with no thousands separators, so GUARD's regex extractor can
// recover the precise u64.
package answerer

import (
	"fmt"
	"strings"

	"github.com/jjgarcianorway/annad/internal/parser"
)

// Memory renders a Memory claim sentence:
// "Memory: {used}B used of {total}B total ({pct}% used). {avail}B available ({apct}% available)."
func Memory(m parser.Memory) string {
	return fmt.Sprintf(
		"Memory: %dB used of %dB total (%d%% used). %dB available (%d%% available).",
		m.UsedBytes, m.TotalBytes, m.PercentUsed(), m.AvailableBytes, m.PercentAvailable(),
	)
}

// Disk renders one claim sentence per entry: "{mount} is {pct}% full".
func Disk(entries []parser.DiskUsage) string {
	sentences := make([]string, 0, len(entries))
	for _, e := range entries {
		sentences = append(sentences, fmt.Sprintf("%s is %d%% full", e.Mount, e.PercentUsed))
	}
	return strings.Join(sentences, " ")
}

// Service renders "{name} is {state}".
func Service(s parser.Service) string {
	return fmt.Sprintf("%s is %s", s.Name, s.State)
}

// Services renders one claim sentence per service, space-joined.
func Services(services []parser.Service) string {
	sentences := make([]string, 0, len(services))
	for _, s := range services {
		sentences = append(sentences, Service(s))
	}
	return strings.Join(sentences, " ")
}
