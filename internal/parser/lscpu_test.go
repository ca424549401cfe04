package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLscpuDerivesCoresFromSocketsAndCoresPerSocket(t *testing.T) {
	output := `{"lscpu":[
		{"field":"Model name:","data":"AMD Ryzen 9 5900X"},
		{"field":"CPU(s):","data":"24"},
		{"field":"Core(s) per socket:","data":"12"},
		{"field":"Socket(s):","data":"1"},
		{"field":"Thread(s) per core:","data":"2"}
	]}`

	cpu, err := ParseLscpu("cpu.lscpu", output)
	require.NoError(t, err)
	assert.Equal(t, "AMD Ryzen 9 5900X", cpu.ModelName)
	assert.Equal(t, 12, cpu.Cores)
	assert.Equal(t, 24, cpu.Threads)
}

func TestParseLscpuFallsBackToThreadsDividedByThreadsPerCore(t *testing.T) {
	output := `{"lscpu":[
		{"field":"CPU(s):","data":"8"},
		{"field":"Thread(s) per core:","data":"2"}
	]}`
	cpu, err := ParseLscpu("cpu.lscpu", output)
	require.NoError(t, err)
	assert.Equal(t, 4, cpu.Cores)
}

func TestParseLscpuFallsBackToThreadsWhenNoTopology(t *testing.T) {
	output := `{"lscpu":[{"field":"CPU(s):","data":"4"}]}`
	cpu, err := ParseLscpu("cpu.lscpu", output)
	require.NoError(t, err)
	assert.Equal(t, 4, cpu.Cores)
	assert.Equal(t, 4, cpu.Threads)
}

func TestParseLscpuInvalidJSON(t *testing.T) {
	_, err := ParseLscpu("cpu.lscpu", "not json")
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ReasonMalformedRow, perr.Reason)
}

func TestParseLscpuEmptyArrayIsMissingSection(t *testing.T) {
	_, err := ParseLscpu("cpu.lscpu", `{"lscpu":[]}`)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ReasonMissingSection, perr.Reason)
}
