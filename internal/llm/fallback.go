package llm

import "strings"

// domainKeywords is the closed word list the fallback path uses to infer a
// Domain from query text alone, when the transport itself is unavailable
// (spec §4.4: "domain inferred from a small word list").
var domainKeywords = []struct {
	domain Domain
	words  []string
}{
	{DomainNetwork, []string{"network", "wifi", "ethernet", "dns", "ip address", "connection"}},
	{DomainStorage, []string{"disk", "storage", "space", "partition", "mount"}},
	{DomainSecurity, []string{"firewall", "permission", "password", "ssh key", "sudo", "security"}},
	{DomainPackages, []string{"package", "install", "pacman", "aur", "update"}},
}

// clarificationTemplates is the closed per-domain fallback table used when
// no clarification_question was supplied by the LLM.
var clarificationTemplates = map[Domain]string{
	DomainNetwork:  "Could you describe the network issue in more detail — which interface or service is affected?",
	DomainStorage:  "Could you specify which mount point or directory you're asking about?",
	DomainSecurity: "Could you clarify which service or credential this security question concerns?",
	DomainPackages: "Could you name the specific package or application you're asking about?",
	DomainSystem:   "Could you rephrase your question with more specific detail?",
}

// HeuristicFallback synthesizes a TranslatorTicket from query keywords alone,
// used when the transport call to the LLM fails (spec §4.4: "on transport
// failure, it returns a heuristic fallback ticket synthesized from query
// keywords; domain inferred from a small word list; confidence = 0.0;
// clarification_question populated from a per-domain template").
func HeuristicFallback(query string) TranslatorTicket {
	lower := strings.ToLower(query)
	domain := DomainSystem
	for _, dk := range domainKeywords {
		for _, w := range dk.words {
			if strings.Contains(lower, w) {
				domain = dk.domain
				break
			}
		}
		if domain != DomainSystem {
			break
		}
	}

	return TranslatorTicket{
		Intent:                IntentQuestion,
		Domain:                domain,
		Entities:              nil,
		NeedsProbes:           nil,
		ClarificationQuestion: clarificationTemplates[domain],
		Confidence:            0.0,
	}
}
