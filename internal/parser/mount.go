package parser

import "strings"

// mountAliases is the closed table of mount nicknames used in lookups
// (spec §4.2: "applied case-insensitively in lookups; never silently
// expanded in parsed data").
var mountAliases = map[string]string{
	"root": "/",
	"home": "/home",
	"var":  "/var",
	"tmp":  "/tmp",
	"boot": "/boot",
	"usr":  "/usr",
	"opt":  "/opt",
}

// ResolveMountAlias resolves an alias to its canonical path, or ("", false)
// if alias is not a known alias.
func ResolveMountAlias(alias string) (string, bool) {
	canonical, ok := mountAliases[strings.ToLower(alias)]
	return canonical, ok
}

// FindByMount looks a DiskUsage entry up by exact mount match, falling back
// to alias resolution. It never silently expands or invents a mount path.
func FindByMount(entries []DiskUsage, mount string) (DiskUsage, bool) {
	for _, e := range entries {
		if e.Mount == mount {
			return e, true
		}
	}
	if canonical, ok := ResolveMountAlias(mount); ok {
		for _, e := range entries {
			if e.Mount == canonical {
				return e, true
			}
		}
	}
	return DiskUsage{}, false
}
