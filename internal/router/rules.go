package router

import "strings"

// Rule is one entry in the ordered keyword/phrase table. A query matches a
// Rule when it contains at least one phrase in AnyOf (case-insensitive
// substring match) — AnyOf is a disjunction: any one phrase present is enough.
type Rule struct {
	Class Class
	AnyOf []string
}

// DefaultRules is the source-of-truth ordered rule table (spec §4.3: "rule
// table is source-of-truth and must be enumerated in configuration"). Order
// matters — first match wins, so more specific phrasings are listed ahead
// of general ones.
var DefaultRules = []Rule{
	{Class: ClassMemoryUsage, AnyOf: []string{"memory", "ram usage", "how much ram", "free memory"}},
	{Class: ClassDiskUsage, AnyOf: []string{"disk space", "disk usage", "how much disk", "storage space", "/ is full", "running out of space"}},
	{Class: ClassServiceStatus, AnyOf: []string{"service status", "is running", "is failed", "systemctl", "daemon status"}},
	{Class: ClassBootTimeStatus, AnyOf: []string{"boot time", "how long since boot", "uptime", "last reboot"}},
	{Class: ClassCPUInfo, AnyOf: []string{"cpu info", "how many cores", "processor", "cpu model"}},
	{Class: ClassProcessOverview, AnyOf: []string{"top processes", "what's using cpu", "process list", "running processes"}},
	{Class: ClassInstalledPackagesOverview, AnyOf: []string{"installed packages", "what packages", "which packages", "list packages"}},
	{Class: ClassAppAlternatives, AnyOf: []string{"alternative to", "instead of", "similar to", "replacement for"}},
	{Class: ClassRecentErrors, AnyOf: []string{"recent errors", "what went wrong", "journal errors", "error logs"}},
}

// Classify applies DefaultRules in order and returns the first matching
// Class, or ClassUnknown if no rule matches (triggering the LLM path — not
// an error, per spec §4.3).
func Classify(query string) Class {
	return ClassifyWithRules(query, DefaultRules)
}

// ClassifyWithRules lets callers (e.g. config-driven overrides) supply an
// alternate ordered rule table.
func ClassifyWithRules(query string, rules []Rule) Class {
	lower := strings.ToLower(query)
	for _, rule := range rules {
		for _, phrase := range rule.AnyOf {
			if strings.Contains(lower, phrase) {
				return rule.Class
			}
		}
	}
	return ClassUnknown
}
