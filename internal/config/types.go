// Package config loads and validates annad's static configuration: probe
// catalog overrides, fact TTL table, triage thresholds, and storage/transport
// settings for the daemon.
package config

import "time"

// Config is the fully loaded, validated, ready-to-use configuration.
type Config struct {
	System   SystemConfig
	Triage   TriageConfig
	Probe    ProbeConfig
	Fact     FactConfig
	Advice   AdviceConfig
	LLM      LLMConfig
	Store    StoreConfig
	Telemetry TelemetryConfig
}

// SystemConfig groups daemon-wide infrastructure settings.
type SystemConfig struct {
	SocketPath   string `yaml:"socket_path" validate:"required"`
	DebugHTTPAddr string `yaml:"debug_http_addr"`
	DataDir      string `yaml:"data_dir" validate:"required"`
	LogLevel     string `yaml:"log_level"`
}

// TriageConfig holds the constants from spec §4.5.
type TriageConfig struct {
	MaxTriageProbes      int     `yaml:"max_triage_probes" validate:"required,min=1"`
	ConfidenceThreshold  float64 `yaml:"confidence_threshold" validate:"required,min=0,max=1"`
	MaxIterations        int     `yaml:"max_iterations" validate:"required,min=1"`
	MaxSubproblems       int     `yaml:"max_subproblems" validate:"required,min=1"`
	MinConfidenceForSynthesis int `yaml:"min_confidence_for_synthesis" validate:"required,min=0,max=100"`
	TicketDeadline       time.Duration `yaml:"ticket_deadline" validate:"required"`
}

// ProbeConfig holds runner-level knobs from spec §4.1 / §5.
type ProbeConfig struct {
	MaxFanout      int                         `yaml:"max_fanout" validate:"required,min=1"`
	OutputCapBytes int                         `yaml:"output_cap_bytes" validate:"required,min=1"`
	Overrides      map[string]ProbeDefinition  `yaml:"overrides"`
}

// ProbeDefinition mirrors the catalog entry shape.
type ProbeDefinition struct {
	Description string   `yaml:"description"`
	Command     string   `yaml:"command"`
	Args        []string `yaml:"args"`
	Cost        string   `yaml:"cost" validate:"omitempty,oneof=cheap medium expensive"`
}

// FactConfig carries the TTL table referenced by spec §9 ("implementers must
// publish a TTL table as part of configuration").
type FactConfig struct {
	DefaultTTL time.Duration            `yaml:"default_ttl" validate:"required"`
	TTLByPrefix map[string]time.Duration `yaml:"ttl_by_prefix"`
	StaleSweepInterval time.Duration    `yaml:"stale_sweep_interval" validate:"required"`
}

// AdviceConfig controls the background snapshot/advice task (spec §4.13).
type AdviceConfig struct {
	Interval       time.Duration `yaml:"interval" validate:"required"`
	CooldownHours  int           `yaml:"cooldown_hours"`
	DiskBumpPoints int           `yaml:"disk_bump_points"`
	DiskWarnPercent int          `yaml:"disk_warn_percent"`
	DiskCriticalPercent int      `yaml:"disk_critical_percent"`
	MemoryWarnPercent int        `yaml:"memory_warn_percent"`
}

// LLMConfig describes the gRPC transport to the local model-runtime sidecar
// consumed by the Translator Adapter (spec §4.4).
type LLMConfig struct {
	Endpoint string        `yaml:"endpoint" validate:"required"`
	Timeout  time.Duration `yaml:"timeout" validate:"required"`
	APIKeyEnv string       `yaml:"api_key_env"`
}

// StoreConfig selects and configures the fact/knowledge store backend.
type StoreConfig struct {
	Backend string `yaml:"backend" validate:"required,oneof=memory postgres"`
	DSNEnv  string `yaml:"dsn_env"`
}

// TelemetryConfig controls the JSONL request log (spec §4.12).
type TelemetryConfig struct {
	Path string `yaml:"path" validate:"required"`
}
