package guard

import (
	"strconv"

	"github.com/jjgarcianorway/annad/internal/parser"
)

// Evidence is the union of all parser outputs observed while answering one
// query — the "ParsedEvidence bundle" of spec §4.8.
type Evidence struct {
	Memory   *parser.Memory
	Disk     []parser.DiskUsage
	Services []parser.Service
}

// lookup returns the observed value for (entity, attribute), or ("", false)
// if the entity was never observed at all — the false case corresponds to
// spec §4.8's "entity absent from evidence" outcome.
func (e Evidence) lookup(entity, attribute string) (string, bool) {
	switch {
	case entity == "memory" && e.Memory != nil:
		switch attribute {
		case "used_bytes":
			return strconv.FormatUint(e.Memory.UsedBytes, 10), true
		case "total_bytes":
			return strconv.FormatUint(e.Memory.TotalBytes, 10), true
		case "available_bytes":
			return strconv.FormatUint(e.Memory.AvailableBytes, 10), true
		case "percent_used":
			return strconv.Itoa(int(e.Memory.PercentUsed())), true
		case "percent_available":
			return strconv.Itoa(int(e.Memory.PercentAvailable())), true
		}
		return "", false

	default:
		if mount, ok := stripDiskPrefix(entity); ok {
			for _, d := range e.Disk {
				if d.Mount == mount {
					if attribute == "percent_used" {
						return strconv.Itoa(int(d.PercentUsed)), true
					}
					return "", false
				}
			}
			return "", false
		}
		if name, ok := stripSvcPrefix(entity); ok {
			for _, s := range e.Services {
				if s.Name == name {
					if attribute == "state" {
						return string(s.State), true
					}
					return "", false
				}
			}
			return "", false
		}
	}
	return "", false
}

// entityObserved reports whether entity appears anywhere in evidence,
// regardless of attribute — used to distinguish "absent" from "mismatch".
func (e Evidence) entityObserved(entity string) bool {
	if entity == "memory" {
		return e.Memory != nil
	}
	if mount, ok := stripDiskPrefix(entity); ok {
		for _, d := range e.Disk {
			if d.Mount == mount {
				return true
			}
		}
		return false
	}
	if name, ok := stripSvcPrefix(entity); ok {
		for _, s := range e.Services {
			if s.Name == name {
				return true
			}
		}
		return false
	}
	return false
}

func stripDiskPrefix(entity string) (string, bool) {
	const prefix = "disk:"
	if len(entity) > len(prefix) && entity[:len(prefix)] == prefix {
		return entity[len(prefix):], true
	}
	return "", false
}

func stripSvcPrefix(entity string) (string, bool) {
	const prefix = "svc:"
	if len(entity) > len(prefix) && entity[:len(prefix)] == prefix {
		return entity[len(prefix):], true
	}
	return "", false
}
