package parser

import "encoding/json"

// BlockDevice is one parsed entry from `lsblk -J -b`.
type BlockDevice struct {
	Name       string
	SizeBytes  uint64
	Type       string
	FsType     string
	MountPoint string
}

type lsblkJSON struct {
	BlockDevices []struct {
		Name       string `json:"name"`
		Size       any    `json:"size"`
		Type       string `json:"type"`
		FsType     string `json:"fstype"`
		MountPoint string `json:"mountpoint"`
		Children   []struct {
			Name       string `json:"name"`
			Size       any    `json:"size"`
			Type       string `json:"type"`
			FsType     string `json:"fstype"`
			MountPoint string `json:"mountpoint"`
		} `json:"children"`
	} `json:"blockdevices"`
}

// ParseLsblk parses `lsblk -J -b -o NAME,SIZE,TYPE,FSTYPE,MOUNTPOINT` output,
// flattening child partitions alongside their parent device.
func ParseLsblk(probeID, output string) ([]BlockDevice, error) {
	var doc lsblkJSON
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		return nil, newErr(probeID, 0, output, ReasonMalformedRow)
	}

	var devices []BlockDevice
	for _, d := range doc.BlockDevices {
		devices = append(devices, BlockDevice{
			Name:       d.Name,
			SizeBytes:  toUint64(d.Size),
			Type:       d.Type,
			FsType:     d.FsType,
			MountPoint: d.MountPoint,
		})
		for _, c := range d.Children {
			devices = append(devices, BlockDevice{
				Name:       c.Name,
				SizeBytes:  toUint64(c.Size),
				Type:       c.Type,
				FsType:     c.FsType,
				MountPoint: c.MountPoint,
			})
		}
	}
	if devices == nil {
		devices = []BlockDevice{}
	}
	return devices, nil
}

// toUint64 handles lsblk -b emitting size either as a JSON number or a
// quoted numeric string depending on util-linux version.
func toUint64(v any) uint64 {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0
		}
		return uint64(n)
	case string:
		size, err := ParseSize(n)
		if err != nil {
			return 0
		}
		return size
	default:
		return 0
	}
}
