package probe

import "fmt"

// Catalog is a static, read-only registry of probe definitions. Grounded on
// the original prototype's ProbeCatalog (evidence.rs) plus the df/free/ps/
// systemctl/lscpu probes spec.md names directly.
type Catalog struct {
	probes map[string]Definition
}

// StandardCatalog builds the default probe catalog.
func StandardCatalog() *Catalog {
	c := &Catalog{probes: make(map[string]Definition)}
	for _, d := range []Definition{
		{ID: "mem.free", Description: "Memory usage from free", Command: "free", Args: []string{"-b"}, Cost: CostCheap},
		{ID: "mem.meminfo", Description: "Memory usage from /proc/meminfo", Command: "cat", Args: []string{"/proc/meminfo"}, Cost: CostCheap},
		{ID: "disk.df", Description: "Filesystem usage from df", Command: "df", Args: []string{"-h"}, Cost: CostCheap},
		{ID: "disk.lsblk", Description: "Block device information from lsblk", Command: "lsblk", Args: []string{"-J", "-b", "-o", "NAME,SIZE,TYPE,FSTYPE,MOUNTPOINT"}, Cost: CostCheap},
		{ID: "proc.ps", Description: "Running processes from ps", Command: "ps", Args: []string{"aux"}, Cost: CostCheap},
		{ID: "svc.status_all", Description: "Failed systemd units", Command: "systemctl", Args: []string{"--failed", "--no-legend"}, Cost: CostMedium},
		{ID: "svc.status_one", Description: "Status of one systemd unit (requires argument substitution)", Command: "systemctl", Args: []string{"status"}, Cost: CostCheap},
		{ID: "cpu.lscpu", Description: "CPU information from lscpu", Command: "lscpu", Args: []string{"-J"}, Cost: CostCheap},
		{ID: "boot.uptime", Description: "System uptime", Command: "uptime", Args: []string{"-p"}, Cost: CostCheap},
		{ID: "journal.recent", Description: "Recent journal entries", Command: "journalctl", Args: []string{"-n", "200", "--no-pager"}, Cost: CostMedium},
		{ID: "pkg.steam_apps", Description: "Steam appmanifest inventory", Command: "find", Args: []string{"/home", "-iname", "appmanifest_*.acf"}, Cost: CostExpensive},
	} {
		if err := Validate(d); err != nil {
			panic("standard catalog entry failed denylist audit: " + err.Error())
		}
		c.probes[d.ID] = d
	}
	return c
}

// ApplyOverrides merges configuration-provided probe overrides/additions on
// top of the standard catalog, matching the teacher's built-in+user-config
// merge idiom (pkg/config/loader.go mergeAgents). Overrides that fail the
// denylist audit are rejected individually and reported, never silently
// registered.
func (c *Catalog) ApplyOverrides(overrides map[string]Definition) []error {
	var errs []error
	for id, def := range overrides {
		def.ID = id
		if err := Validate(def); err != nil {
			errs = append(errs, fmt.Errorf("probe override %q: %w", id, err))
			continue
		}
		c.probes[id] = def
	}
	return errs
}

// Get returns a probe definition by ID.
func (c *Catalog) Get(id string) (Definition, bool) {
	d, ok := c.probes[id]
	return d, ok
}

// IsValid reports whether id names a known probe.
func (c *Catalog) IsValid(id string) bool {
	_, ok := c.probes[id]
	return ok
}

// List returns every catalog entry, in no particular order; it applies no
// cost filter.
func (c *Catalog) List() []Definition {
	out := make([]Definition, 0, len(c.probes))
	for _, d := range c.probes {
		out = append(out, d)
	}
	return out
}

// IDs returns all known probe ids, for translator-ticket validation.
func (c *Catalog) IDs() map[string]bool {
	out := make(map[string]bool, len(c.probes))
	for id := range c.probes {
		out[id] = true
	}
	return out
}

// ErrUnknownProbe is returned when a probe id is not present in the catalog.
type ErrUnknownProbe struct{ ID string }

func (e *ErrUnknownProbe) Error() string {
	return fmt.Sprintf("unknown probe: %s", e.ID)
}
