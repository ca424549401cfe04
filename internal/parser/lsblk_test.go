package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLsblkFlattensChildPartitions(t *testing.T) {
	output := `{"blockdevices":[
		{"name":"sda","size":500000000000,"type":"disk","fstype":null,"mountpoint":null,
		 "children":[
			{"name":"sda1","size":524288000,"type":"part","fstype":"vfat","mountpoint":"/boot"},
			{"name":"sda2","size":499475712000,"type":"part","fstype":"ext4","mountpoint":"/"}
		 ]}
	]}`

	devices, err := ParseLsblk("disk.lsblk", output)
	require.NoError(t, err)
	require.Len(t, devices, 3)
	assert.Equal(t, "sda", devices[0].Name)
	assert.Equal(t, "sda1", devices[1].Name)
	assert.Equal(t, "/boot", devices[1].MountPoint)
	assert.Equal(t, "sda2", devices[2].Name)
	assert.EqualValues(t, 499475712000, devices[2].SizeBytes)
}

func TestParseLsblkAcceptsStringSize(t *testing.T) {
	output := `{"blockdevices":[{"name":"sda","size":"500G","type":"disk","fstype":"","mountpoint":""}]}`
	devices, err := ParseLsblk("disk.lsblk", output)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.EqualValues(t, 536870912000, devices[0].SizeBytes)
}

func TestParseLsblkInvalidJSON(t *testing.T) {
	_, err := ParseLsblk("disk.lsblk", "{not json")
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ReasonMalformedRow, perr.Reason)
}

func TestParseLsblkEmptyDeviceListIsEmptyNotNil(t *testing.T) {
	devices, err := ParseLsblk("disk.lsblk", `{"blockdevices":[]}`)
	require.NoError(t, err)
	assert.NotNil(t, devices)
	assert.Empty(t, devices)
}
