package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMeminfoConvertsKilobytesToBytes(t *testing.T) {
	output := "MemTotal:       16000000 kB\n" +
		"MemFree:         4000000 kB\n" +
		"MemAvailable:    6000000 kB\n"

	mi, err := ParseMeminfo("proc.meminfo", output)
	require.NoError(t, err)
	assert.Equal(t, uint64(16000000*1024), mi.TotalBytes)
	assert.Equal(t, uint64(4000000*1024), mi.FreeBytes)
	assert.Equal(t, uint64(6000000*1024), mi.AvailableBytes)
}

func TestParseMeminfoMissingMemTotal(t *testing.T) {
	_, err := ParseMeminfo("proc.meminfo", "MemFree: 100 kB\n")
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ReasonMissingSection, perr.Reason)
}

func TestParseMeminfoEmptyOutput(t *testing.T) {
	_, err := ParseMeminfo("proc.meminfo", "")
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ReasonMissingSection, perr.Reason)
}
