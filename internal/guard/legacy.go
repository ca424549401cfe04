package guard

import (
	"strconv"
	"strings"
)

// groundingPhrases are indicators that an answer references concrete probe
// output rather than speaking in generalities (mirrors
// check_answer_grounded's grounding_phrases list from the prototype).
var groundingPhrases = []string{
	"according to",
	"the output shows",
	"as shown",
	"currently",
	"the data indicates",
	"probe results",
	"system reports",
	"output:",
	"result:",
}

// inventionIndicators are hedging phrases the legacy heuristic treats as
// signs the answer is guessing rather than reporting observed fact (mirrors
// check_no_invention's invention_indicators list from the prototype).
var inventionIndicators = []string{
	"i don't have access",
	"i cannot determine",
	"i would need to",
	"typically",
	"usually",
	"generally",
	"might be",
	"could be",
	"probably",
	"i assume",
	"i believe",
	"it's likely",
	"most likely",
}

// CheckAnswerGrounded reports whether answer references concrete probe
// output (a token copied from probe stdout) or uses an explicit grounding
// phrase. This is the pre-GUARD legacy heuristic, retained as a fallback for
// when no ParsedEvidence bundle is available (spec §4.8).
func CheckAnswerGrounded(answer string, probeStdouts []string) bool {
	answerLower := strings.ToLower(answer)

	for _, stdout := range probeStdouts {
		lines := strings.Split(stdout, "\n")
		if len(lines) > 5 {
			lines = lines[:5]
		}
		for _, line := range lines {
			for _, word := range strings.Fields(line) {
				if !isCandidateDataToken(word) {
					continue
				}
				if strings.Contains(answerLower, strings.ToLower(word)) {
					return true
				}
			}
		}
	}

	for _, phrase := range groundingPhrases {
		if strings.Contains(answerLower, phrase) {
			return true
		}
	}
	return false
}

func isCandidateDataToken(word string) bool {
	if len(word) <= 2 {
		return false
	}
	if strings.HasSuffix(word, "%") || strings.HasSuffix(word, "G") || strings.HasSuffix(word, "M") {
		return true
	}
	_, err := strconv.ParseFloat(word, 64)
	return err == nil
}

// CheckNoInvention reports false only when more than one hedging indicator
// is present — one hedge is tolerated (spec §4.8's legacy fallback: "count
// > 1").
func CheckNoInvention(answer string) bool {
	answerLower := strings.ToLower(answer)
	count := 0
	for _, ind := range inventionIndicators {
		if strings.Contains(answerLower, ind) {
			count++
		}
	}
	return count <= 1
}
