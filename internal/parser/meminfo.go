package parser

import (
	"strconv"
	"strings"
)

// MemInfo is the parsed result of `cat /proc/meminfo`, kept separate from
// Memory (the `free` parser's output type) since the two probes expose
// different fields and the router/answerer pick whichever is available.
type MemInfo struct {
	TotalBytes     uint64
	FreeBytes      uint64
	AvailableBytes uint64
}

// ParseMeminfo parses `/proc/meminfo` lines of the form "MemTotal:  16000000 kB".
// /proc/meminfo always reports in kB, so the unit suffix is fixed.
func ParseMeminfo(probeID, output string) (MemInfo, error) {
	fields := map[string]uint64{}
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		key := strings.TrimSuffix(parts[0], ":")
		n, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			continue
		}
		fields[key] = n * 1024 // kB -> bytes
	}

	if len(fields) == 0 {
		return MemInfo{}, newErr(probeID, 0, "meminfo fields", ReasonMissingSection)
	}

	total, ok := fields["MemTotal"]
	if !ok {
		return MemInfo{}, newErr(probeID, 0, "MemTotal", ReasonMissingSection)
	}

	return MemInfo{
		TotalBytes:     total,
		FreeBytes:      fields["MemFree"],
		AvailableBytes: fields["MemAvailable"],
	}, nil
}
