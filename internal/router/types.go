// Package router maps free-text queries to a closed QueryClass via an
// ordered keyword/phrase rule table, selecting the deterministic answerer
// path or falling through to the LLM translator (spec §4.3).
package router

// Class is the closed set of recognized query classes.
type Class string

const (
	ClassMemoryUsage               Class = "memory_usage"
	ClassDiskUsage                 Class = "disk_usage"
	ClassServiceStatus             Class = "service_status"
	ClassBootTimeStatus            Class = "boot_time_status"
	ClassInstalledPackagesOverview Class = "installed_packages_overview"
	ClassAppAlternatives           Class = "app_alternatives"
	ClassCPUInfo                   Class = "cpu_info"
	ClassProcessOverview           Class = "process_overview"
	ClassRecentErrors              Class = "recent_errors"
	ClassUnknown                   Class = "unknown"
)

// Strategy marks whether a Class is served by the deterministic answerer or
// requires a knowledge-store (RAG) lookup first, per spec §4.3: "classes
// marked deterministic must have a corresponding answerer; classes marked
// RAG-first must have a knowledge store lookup path."
type Strategy string

const (
	StrategyDeterministic Strategy = "deterministic"
	StrategyRAGFirst      Strategy = "rag_first"
	StrategyLLM           Strategy = "llm"
)

// classStrategy is the fixed mapping from Class to Strategy.
var classStrategy = map[Class]Strategy{
	ClassMemoryUsage:               StrategyDeterministic,
	ClassDiskUsage:                 StrategyDeterministic,
	ClassServiceStatus:             StrategyDeterministic,
	ClassBootTimeStatus:            StrategyDeterministic,
	ClassCPUInfo:                   StrategyDeterministic,
	ClassProcessOverview:           StrategyDeterministic,
	ClassInstalledPackagesOverview: StrategyRAGFirst,
	ClassAppAlternatives:           StrategyRAGFirst,
	ClassRecentErrors:              StrategyRAGFirst,
	ClassUnknown:                   StrategyLLM,
}

// StrategyFor returns the Strategy bound to a Class, defaulting to LLM for
// any class not present in the table (should not happen for a closed set,
// but never panics on an unrecognized value).
func StrategyFor(c Class) Strategy {
	if s, ok := classStrategy[c]; ok {
		return s
	}
	return StrategyLLM
}
