package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePSParsesRowsAfterHeader(t *testing.T) {
	output := "USER  PID %CPU %MEM VSZ RSS TTY STAT START TIME COMMAND\n" +
		"root    1  0.0  0.1 1000 500 ?   Ss   Jan01 0:01 /sbin/init\n" +
		"steam 4242 12.5  8.3 900000 700000 ?  Sl  09:00 1:23 /usr/bin/steam -silent\n"

	procs, err := ParsePS("proc.ps", output)
	require.NoError(t, err)
	require.Len(t, procs, 2)

	assert.Equal(t, "root", procs[0].User)
	assert.Equal(t, 1, procs[0].PID)
	assert.Equal(t, "/sbin/init", procs[0].Command)

	assert.Equal(t, 4242, procs[1].PID)
	assert.InDelta(t, 12.5, procs[1].CPUPct, 0.001)
	assert.Equal(t, "/usr/bin/steam -silent", procs[1].Command)
}

func TestParsePSMissingHeaderIsMissingSection(t *testing.T) {
	_, err := ParsePS("proc.ps", "root 1 0.0 0.1 1 1 ? Ss Jan01 0:01 init\n")
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ReasonMissingSection, perr.Reason)
}

func TestParsePSMalformedRowTooFewFields(t *testing.T) {
	output := "USER PID %CPU %MEM VSZ RSS TTY STAT START TIME COMMAND\nroot 1 0.0\n"
	_, err := ParsePS("proc.ps", output)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ReasonMalformedRow, perr.Reason)
}
