package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDFMatchesEndToEndScenario(t *testing.T) {
	output := "Filesystem      Size  Used Avail Use% Mounted on\n" +
		"/dev/sda1        50G   37G   13G  75% /\n" +
		"/dev/sda2        20G   15G    5G  79% /home\n"

	entries, err := ParseDF("disk.df", output)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	root, ok := FindByMount(entries, "/")
	require.True(t, ok)
	assert.EqualValues(t, 53687091200, root.SizeBytes)
	assert.EqualValues(t, 75, root.PercentUsed)

	home, ok := FindByMount(entries, "/home")
	require.True(t, ok)
	assert.EqualValues(t, 79, home.PercentUsed)
}

func TestParseDFResolvesMountAlias(t *testing.T) {
	output := "Filesystem Size Used Avail Use% Mounted on\n/dev/sda1 50G 37G 13G 75% /\n"
	entries, err := ParseDF("disk.df", output)
	require.NoError(t, err)

	got, ok := FindByMount(entries, "root")
	require.True(t, ok)
	assert.Equal(t, "/", got.Mount)
}

func TestParseDFMultiWordMountPoint(t *testing.T) {
	output := "Filesystem Size Used Avail Use% Mounted on\n" +
		"/dev/sda1 50G 37G 13G 75% /mnt/My Files\n"
	entries, err := ParseDF("disk.df", output)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/mnt/My Files", entries[0].Mount)
}

func TestParseDFMalformedRow(t *testing.T) {
	output := "Filesystem Size Used Avail Use% Mounted on\nbroken row\n"
	_, err := ParseDF("disk.df", output)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ReasonMalformedRow, perr.Reason)
}

func TestParseDFMissingHeader(t *testing.T) {
	_, err := ParseDF("disk.df", "\n")
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ReasonMissingSection, perr.Reason)
}
