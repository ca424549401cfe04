package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMatchesMemoryKeyword(t *testing.T) {
	assert.Equal(t, ClassMemoryUsage, Classify("how much memory am I using?"))
}

func TestClassifyMatchesDiskKeyword(t *testing.T) {
	assert.Equal(t, ClassDiskUsage, Classify("Is my disk space running low?"))
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, ClassServiceStatus, Classify("IS NGINX IS FAILED right now"))
}

func TestClassifyUnknownWhenNoRuleMatches(t *testing.T) {
	assert.Equal(t, ClassUnknown, Classify("tell me a joke"))
}

func TestClassifyFirstMatchWins(t *testing.T) {
	rules := []Rule{
		{Class: ClassMemoryUsage, AnyOf: []string{"disk"}},
		{Class: ClassDiskUsage, AnyOf: []string{"disk"}},
	}
	assert.Equal(t, ClassMemoryUsage, ClassifyWithRules("disk space please", rules))
}

func TestStrategyForKnownClasses(t *testing.T) {
	assert.Equal(t, StrategyDeterministic, StrategyFor(ClassMemoryUsage))
	assert.Equal(t, StrategyRAGFirst, StrategyFor(ClassInstalledPackagesOverview))
	assert.Equal(t, StrategyLLM, StrategyFor(ClassUnknown))
}
