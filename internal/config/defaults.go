package config

import "time"

// GetBuiltinConfig returns the built-in defaults, merged with any
// user-supplied YAML by Initialize. Mirrors the teacher's pattern of a
// built-in config that user config overrides field-by-field via mergo.
func GetBuiltinConfig() *Config {
	return &Config{
		System: SystemConfig{
			SocketPath:    "/run/anna/annad.sock",
			DebugHTTPAddr: "127.0.0.1:8787",
			DataDir:       "/var/lib/anna",
			LogLevel:      "info",
		},
		Triage: TriageConfig{
			MaxTriageProbes:           3,
			ConfidenceThreshold:       0.7,
			MaxIterations:             8,
			MaxSubproblems:            5,
			MinConfidenceForSynthesis: 70,
			TicketDeadline:            60 * time.Second,
		},
		Probe: ProbeConfig{
			MaxFanout:      8,
			OutputCapBytes: 1 << 20,
			Overrides:      map[string]ProbeDefinition{},
		},
		Fact: FactConfig{
			DefaultTTL: 5 * time.Minute,
			TTLByPrefix: map[string]time.Duration{
				"cpu.":  0, // permanent: cores/model do not change at runtime
				"mem.":  30 * time.Second,
				"svc.":  60 * time.Second,
				"disk.": 5 * time.Minute,
			},
			StaleSweepInterval: 5 * time.Minute,
		},
		Advice: AdviceConfig{
			Interval:            5 * time.Minute,
			CooldownHours:       0,
			DiskBumpPoints:      5,
			DiskWarnPercent:     85,
			DiskCriticalPercent: 95,
			MemoryWarnPercent:   80,
		},
		LLM: LLMConfig{
			Endpoint:  "127.0.0.1:50051",
			Timeout:   30 * time.Second,
			APIKeyEnv: "ANNA_LLM_API_KEY",
		},
		Store: StoreConfig{
			Backend: "memory",
			DSNEnv:  "ANNA_DB_DSN",
		},
		Telemetry: TelemetryConfig{
			Path: "/var/log/anna/telemetry.jsonl",
		},
	}
}
