// Package guard implements the invention detector: claim extraction from
// answer text, cross-checked against the evidence actually observed by
// probes, producing a GuardReport (spec §4.8).
package guard

import (
	"fmt"
	"regexp"
	"strconv"
)

// Claim is a specific, testable assertion extracted from answer text.
type Claim struct {
	Entity    string
	Attribute string
	Value     string
	Units     string
}

var (
	reMemory = regexp.MustCompile(
		`(\d+)B used of (\d+)B total \((\d+)% used\)\. (\d+)B available \((\d+)% available\)\.`)
	reDiskMount = regexp.MustCompile(`(\S+) is (\d+)% full`)
	reService   = regexp.MustCompile(
		`(\S+) is (running|active|failed|inactive|activating|deactivating|reloading|unknown)`)
)

// ExtractClaims scans answer text for three claim shapes: the memory
// bytes/percent sentence, "<mount> is N% full", and "<unit> is <state>".
// Kernel-version and uptime claims are not extracted.
func ExtractClaims(text string) []Claim {
	var claims []Claim

	if m := reMemory.FindStringSubmatch(text); m != nil {
		claims = append(claims,
			Claim{Entity: "memory", Attribute: "used_bytes", Value: m[1], Units: "B"},
			Claim{Entity: "memory", Attribute: "total_bytes", Value: m[2], Units: "B"},
			Claim{Entity: "memory", Attribute: "percent_used", Value: m[3], Units: "%"},
			Claim{Entity: "memory", Attribute: "available_bytes", Value: m[4], Units: "B"},
			Claim{Entity: "memory", Attribute: "percent_available", Value: m[5], Units: "%"},
		)
	}

	for _, m := range reDiskMount.FindAllStringSubmatch(text, -1) {
		claims = append(claims, Claim{
			Entity: fmt.Sprintf("disk:%s", m[1]), Attribute: "percent_used", Value: m[2], Units: "%",
		})
	}

	for _, m := range reService.FindAllStringSubmatch(text, -1) {
		claims = append(claims, Claim{
			Entity: fmt.Sprintf("svc:%s", m[1]), Attribute: "state", Value: m[2],
		})
	}

	return claims
}

// asUint64 is a small convenience for callers comparing byte claims
// numerically rather than as strings (e.g. tests).
func asUint64(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
