package parser

import "strings"

// Memory is the parsed result of `free -b` (spec §3 ParsedProbeData.Memory).
type Memory struct {
	TotalBytes     uint64
	UsedBytes      uint64
	FreeBytes      uint64
	AvailableBytes uint64
	SwapTotalBytes uint64
	SwapUsedBytes  uint64
}

// ParseFree parses `free -b` stdout. Expected format:
//
//	              total        used        free      shared  buff/cache   available
//	Mem:      16000000000  8000000000  4000000000   100000000  2000000000  6000000000
//	Swap:              0           0           0
func ParseFree(probeID, output string) (Memory, error) {
	var memLine, swapLine string
	headerSeen := false

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "total") {
			headerSeen = true
			continue
		}
		if strings.HasPrefix(line, "Mem:") {
			memLine = line
		} else if strings.HasPrefix(line, "Swap:") {
			swapLine = line
		}
	}

	if !headerSeen {
		return Memory{}, newErr(probeID, 0, "total header", ReasonMissingSection)
	}
	if memLine == "" {
		return Memory{}, newErr(probeID, 0, "Mem: row", ReasonMissingSection)
	}

	memParts := strings.Fields(memLine)
	if len(memParts) < 4 {
		return Memory{}, newErr(probeID, 0, memLine, ReasonMalformedRow)
	}

	total, err := parseBareBytes(probeID, memParts[1])
	if err != nil {
		return Memory{}, err
	}
	used, err := parseBareBytes(probeID, memParts[2])
	if err != nil {
		return Memory{}, err
	}
	free, err := parseBareBytes(probeID, memParts[3])
	if err != nil {
		return Memory{}, err
	}

	var available uint64
	if len(memParts) >= 7 {
		available, err = parseBareBytes(probeID, memParts[6])
		if err != nil {
			return Memory{}, err
		}
	} else {
		available = free
	}

	mem := Memory{TotalBytes: total, UsedBytes: used, FreeBytes: free, AvailableBytes: available}

	if swapLine != "" {
		swapParts := strings.Fields(swapLine)
		if len(swapParts) < 3 {
			return Memory{}, newErr(probeID, 0, swapLine, ReasonMalformedRow)
		}
		mem.SwapTotalBytes, err = parseBareBytes(probeID, swapParts[1])
		if err != nil {
			return Memory{}, err
		}
		mem.SwapUsedBytes, err = parseBareBytes(probeID, swapParts[2])
		if err != nil {
			return Memory{}, err
		}
	}

	return mem, nil
}

func parseBareBytes(probeID, tok string) (uint64, error) {
	n, err := ParseSize(tok)
	if err != nil {
		return 0, newErr(probeID, 0, tok, ReasonBadSize)
	}
	return n, nil
}

// PercentUsed returns rounded-down percent used, for display only — GUARD
// claims always carry the exact byte counts, never a recomputed percentage
// presented as a source value.
func (m Memory) PercentUsed() uint8 {
	if m.TotalBytes == 0 {
		return 0
	}
	return uint8(m.UsedBytes * 100 / m.TotalBytes)
}

// PercentAvailable mirrors PercentUsed for the available figure.
func (m Memory) PercentAvailable() uint8 {
	if m.TotalBytes == 0 {
		return 0
	}
	return uint8(m.AvailableBytes * 100 / m.TotalBytes)
}
