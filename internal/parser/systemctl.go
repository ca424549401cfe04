package parser

import "strings"

// ServiceState is the closed set of systemd unit states the answerer and
// GUARD recognize (spec §4.7).
type ServiceState string

const (
	StateRunning      ServiceState = "running"
	StateActive       ServiceState = "active"
	StateFailed       ServiceState = "failed"
	StateInactive     ServiceState = "inactive"
	StateActivating   ServiceState = "activating"
	StateDeactivating ServiceState = "deactivating"
	StateReloading    ServiceState = "reloading"
	StateUnknown      ServiceState = "unknown"
)

// Service is one parsed systemd unit.
type Service struct {
	Name        string
	State       ServiceState
	Description string
}

var knownStates = map[string]ServiceState{
	"running":      StateRunning,
	"active":       StateActive,
	"failed":       StateFailed,
	"inactive":     StateInactive,
	"activating":   StateActivating,
	"deactivating": StateDeactivating,
	"reloading":    StateReloading,
}

func normalizeState(s string) ServiceState {
	if st, ok := knownStates[s]; ok {
		return st
	}
	return StateUnknown
}

// ParseSystemctlFailed parses `systemctl --failed --no-legend` output:
//
//	● nginx.service loaded failed failed A high performance web server
func ParseSystemctlFailed(probeID, output string) ([]Service, error) {
	var services []Service
	for i, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "●")
		line = strings.TrimSpace(line)
		parts := strings.SplitN(line, " ", 5)
		if len(parts) < 4 {
			return nil, newErr(probeID, i+1, raw, ReasonMalformedRow)
		}
		name := parts[0]
		// columns: name load active sub [description]
		subState := parts[3]
		desc := ""
		if len(parts) == 5 {
			desc = parts[4]
		}
		services = append(services, Service{
			Name:        name,
			State:       normalizeState(subState),
			Description: desc,
		})
	}
	if services == nil {
		services = []Service{}
	}
	return services, nil
}

// ParseSystemctlStatus parses `systemctl status <unit>` output, extracting
// the Active: line's state. A parenthesized sub-state that is itself a known
// state wins over the leading word ("active (running)" yields running).
func ParseSystemctlStatus(probeID, unitName, output string) (Service, error) {
	svc := Service{Name: unitName, State: StateUnknown}
	found := false
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "Active:") {
			found = true
			rest := strings.TrimSpace(strings.TrimPrefix(line, "Active:"))
			fields := strings.Fields(rest)
			if len(fields) == 0 {
				return Service{}, newErr(probeID, 0, line, ReasonMalformedRow)
			}
			// "active (running)" or "failed (Result: exit-code)"
			top := fields[0]
			state := top
			if len(fields) > 1 {
				inner := strings.Trim(fields[1], "()")
				if _, ok := knownStates[inner]; ok {
					state = inner
				}
			}
			svc.State = normalizeState(state)
		}
	}
	if !found {
		return Service{}, newErr(probeID, 0, "Active: line", ReasonMissingSection)
	}
	return svc, nil
}
