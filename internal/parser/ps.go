package parser

import (
	"strconv"
	"strings"
)

// Process is one parsed row of `ps aux`.
type Process struct {
	User    string
	PID     int
	CPUPct  float64
	MemPct  float64
	Command string
}

// ParsePS parses `ps aux` stdout.
func ParsePS(probeID, output string) ([]Process, error) {
	var procs []Process
	headerSeen := false

	for i, raw := range strings.Split(output, "\n") {
		lineNum := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "USER") {
			headerSeen = true
			continue
		}
		if !headerSeen {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 11 {
			return nil, newErr(probeID, lineNum, line, ReasonMalformedRow)
		}

		pid, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, newErr(probeID, lineNum, parts[1], ReasonMalformedRow)
		}
		cpu, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, newErr(probeID, lineNum, parts[2], ReasonMalformedRow)
		}
		mem, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return nil, newErr(probeID, lineNum, parts[3], ReasonMalformedRow)
		}

		procs = append(procs, Process{
			User:    parts[0],
			PID:     pid,
			CPUPct:  cpu,
			MemPct:  mem,
			Command: strings.Join(parts[10:], " "),
		})
	}

	if !headerSeen {
		return nil, newErr(probeID, 0, "USER header", ReasonMissingSection)
	}
	if procs == nil {
		procs = []Process{}
	}
	return procs, nil
}
