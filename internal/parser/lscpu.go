package parser

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Cpu is the parsed result of `lscpu -J` (spec §3 ParsedProbeData.Cpu).
type Cpu struct {
	ModelName string
	Cores     int
	Threads   int
}

type lscpuJSON struct {
	Lscpu []struct {
		Field string `json:"field"`
		Data  string `json:"data"`
	} `json:"lscpu"`
}

// ParseLscpu parses `lscpu -J` JSON output.
func ParseLscpu(probeID, output string) (Cpu, error) {
	var doc lscpuJSON
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		return Cpu{}, newErr(probeID, 0, output, ReasonMalformedRow)
	}
	if len(doc.Lscpu) == 0 {
		return Cpu{}, newErr(probeID, 0, "lscpu array", ReasonMissingSection)
	}

	var cpu Cpu
	var coresPerSocket, sockets, threadsPerCore int
	for _, field := range doc.Lscpu {
		name := strings.TrimSuffix(strings.TrimSpace(field.Field), ":")
		switch name {
		case "Model name":
			cpu.ModelName = strings.TrimSpace(field.Data)
		case "CPU(s)":
			if n, err := strconv.Atoi(strings.TrimSpace(field.Data)); err == nil {
				cpu.Threads = n
			}
		case "Core(s) per socket":
			coresPerSocket, _ = strconv.Atoi(strings.TrimSpace(field.Data))
		case "Socket(s)":
			sockets, _ = strconv.Atoi(strings.TrimSpace(field.Data))
		case "Thread(s) per core":
			threadsPerCore, _ = strconv.Atoi(strings.TrimSpace(field.Data))
		}
	}

	if coresPerSocket > 0 && sockets > 0 {
		cpu.Cores = coresPerSocket * sockets
	} else if cpu.Threads > 0 && threadsPerCore > 0 {
		cpu.Cores = cpu.Threads / threadsPerCore
	} else {
		cpu.Cores = cpu.Threads
	}

	return cpu, nil
}
