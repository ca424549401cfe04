package guard

// Report is the GUARD verdict for one answer (spec §3 GuardReport).
type Report struct {
	TotalSpecificClaims   int
	Contradictions        int
	UnverifiableSpecifics int
	InventionDetected     bool
}

// Run extracts claims from answer, cross-checks each against evidence, and
// derives the invention verdict (spec §4.8). evidenceRequired controls
// whether an unverifiable specific alone is enough to flag invention.
func Run(answer string, evidence Evidence, evidenceRequired bool) Report {
	claims := ExtractClaims(answer)
	report := Report{TotalSpecificClaims: len(claims)}

	for _, c := range claims {
		observed, ok := c.lookupAgainst(evidence)
		switch {
		case ok && observed == c.Value:
			// accepted
		case evidence.entityObserved(c.Entity):
			report.Contradictions++
		default:
			report.UnverifiableSpecifics++
		}
	}

	report.InventionDetected = report.Contradictions > 0 ||
		(evidenceRequired && report.UnverifiableSpecifics > 0)
	return report
}

func (c Claim) lookupAgainst(e Evidence) (string, bool) {
	return e.lookup(c.Entity, c.Attribute)
}
