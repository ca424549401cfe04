package parser

import "strings"

// DiskUsage is one row of `df -h` output, normalized to bytes.
type DiskUsage struct {
	Filesystem     string
	Mount          string
	SizeBytes      uint64
	UsedBytes      uint64
	AvailableBytes uint64
	PercentUsed    uint8
}

// ParseDF parses `df -h` stdout into a list of DiskUsage entries.
func ParseDF(probeID, output string) ([]DiskUsage, error) {
	var entries []DiskUsage
	headerSeen := false

	for i, rawLine := range strings.Split(output, "\n") {
		lineNum := i + 1
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "Filesystem") {
			headerSeen = true
			continue
		}
		if !headerSeen {
			continue
		}

		entry, err := parseDFRow(probeID, line, lineNum)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 && !headerSeen {
		return nil, newErr(probeID, 0, "Filesystem header", ReasonMissingSection)
	}
	if entries == nil {
		entries = []DiskUsage{}
	}
	return entries, nil
}

func parseDFRow(probeID, line string, lineNum int) (DiskUsage, error) {
	parts := strings.Fields(line)
	if len(parts) < 6 {
		return DiskUsage{}, newErr(probeID, lineNum, line, ReasonMalformedRow)
	}

	size, err := ParseSize(parts[1])
	if err != nil {
		return DiskUsage{}, newErr(probeID, lineNum, parts[1], ReasonBadSize)
	}
	used, err := ParseSize(parts[2])
	if err != nil {
		return DiskUsage{}, newErr(probeID, lineNum, parts[2], ReasonBadSize)
	}
	avail, err := ParseSize(parts[3])
	if err != nil {
		return DiskUsage{}, newErr(probeID, lineNum, parts[3], ReasonBadSize)
	}
	pct, err := ParsePercent(parts[4])
	if err != nil {
		return DiskUsage{}, newErr(probeID, lineNum, parts[4], ReasonBadPercent)
	}

	mount := parts[5]
	if len(parts) > 6 {
		mount = strings.Join(parts[5:], " ")
	}

	return DiskUsage{
		Filesystem:     parts[0],
		Mount:          mount,
		SizeBytes:      size,
		UsedBytes:      used,
		AvailableBytes: avail,
		PercentUsed:    pct,
	}, nil
}
