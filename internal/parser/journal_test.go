package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJournalExtractsUnitAndMessage(t *testing.T) {
	output := "Aug 01 09:15:02 workstation nginx[1234]: connection refused\n" +
		"Aug 01 09:15:05 workstation kernel: eth0: link up\n"

	entries, err := ParseJournal("journal.recent", output)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "nginx", entries[0].Unit)
	assert.Equal(t, "connection refused", entries[0].Message)
	assert.Equal(t, "workstation", entries[0].Host)

	assert.Equal(t, "kernel", entries[1].Unit)
	assert.Equal(t, "eth0: link up", entries[1].Message)
}

func TestParseJournalSkipsMalformedLinesWithoutFailingBatch(t *testing.T) {
	output := "short line\nAug 01 09:15:05 host unit: ok message\n"
	entries, err := ParseJournal("journal.recent", output)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ok message", entries[0].Message)
}

func TestParseJournalEmptyOutputIsEmptyNotNil(t *testing.T) {
	entries, err := ParseJournal("journal.recent", "")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
