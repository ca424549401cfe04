package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors the on-disk /etc/anna/config.toml-equivalent shape.
// The spec names config.toml as the default path; we load YAML internally
// (following the teacher's config format) and the loader is the only place
// that would need to change to support a different on-disk syntax.
type yamlConfig struct {
	System    *SystemConfig    `yaml:"system"`
	Triage    *TriageConfig    `yaml:"triage"`
	Probe     *ProbeConfig     `yaml:"probe"`
	Fact      *FactConfig      `yaml:"fact"`
	Advice    *AdviceConfig    `yaml:"advice"`
	LLM       *LLMConfig       `yaml:"llm"`
	Store     *StoreConfig     `yaml:"store"`
	Telemetry *TelemetryConfig `yaml:"telemetry"`
}

// Initialize loads, merges, and validates configuration from configDir.
// This is the primary entry point, mirroring the teacher's config.Initialize.
func Initialize(_ context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("loading configuration")

	builtin := GetBuiltinConfig()

	path := filepath.Join(configDir, "config.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("no config.yaml found, using built-in defaults", "path", path)
			if verr := validate(builtin); verr != nil {
				return nil, fmt.Errorf("%w: %v", ErrValidationFailed, verr)
			}
			return builtin, nil
		}
		return nil, NewLoadError(path, err)
	}

	raw = ExpandEnv(raw)

	var user yamlConfig
	if err := yaml.Unmarshal(raw, &user); err != nil {
		return nil, NewLoadError(path, fmt.Errorf("%w: %v", ErrInvalidYAML, err))
	}

	merged := *builtin
	if err := mergeInto(&merged, &user); err != nil {
		return nil, NewLoadError(path, err)
	}

	if err := validate(&merged); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	log.Info("configuration loaded",
		"backend", merged.Store.Backend,
		"max_triage_probes", merged.Triage.MaxTriageProbes)

	return &merged, nil
}

// mergeInto overlays any user-supplied section onto the built-in defaults.
// User-defined non-zero fields win (mergo.WithOverride), matching the
// teacher's built-in+user merge strategy in pkg/config/loader.go.
func mergeInto(dst *Config, user *yamlConfig) error {
	overlay := func(existing any, patch any) error {
		if patch == nil {
			return nil
		}
		return mergo.Merge(existing, patch, mergo.WithOverride)
	}

	if user.System != nil {
		if err := overlay(&dst.System, user.System); err != nil {
			return err
		}
	}
	if user.Triage != nil {
		if err := overlay(&dst.Triage, user.Triage); err != nil {
			return err
		}
	}
	if user.Probe != nil {
		for id, def := range user.Probe.Overrides {
			dst.Probe.Overrides[id] = def
		}
		if user.Probe.MaxFanout > 0 {
			dst.Probe.MaxFanout = user.Probe.MaxFanout
		}
		if user.Probe.OutputCapBytes > 0 {
			dst.Probe.OutputCapBytes = user.Probe.OutputCapBytes
		}
	}
	if user.Fact != nil {
		for prefix, ttl := range user.Fact.TTLByPrefix {
			dst.Fact.TTLByPrefix[prefix] = ttl
		}
		if user.Fact.DefaultTTL > 0 {
			dst.Fact.DefaultTTL = user.Fact.DefaultTTL
		}
		if user.Fact.StaleSweepInterval > 0 {
			dst.Fact.StaleSweepInterval = user.Fact.StaleSweepInterval
		}
	}
	if user.Advice != nil {
		if err := overlay(&dst.Advice, user.Advice); err != nil {
			return err
		}
	}
	if user.LLM != nil {
		if err := overlay(&dst.LLM, user.LLM); err != nil {
			return err
		}
	}
	if user.Store != nil {
		if err := overlay(&dst.Store, user.Store); err != nil {
			return err
		}
	}
	if user.Telemetry != nil {
		if err := overlay(&dst.Telemetry, user.Telemetry); err != nil {
			return err
		}
	}
	return nil
}

var validatorInstance = validator.New()

func validate(cfg *Config) error {
	if err := validatorInstance.Struct(cfg.System); err != nil {
		return err
	}
	if err := validatorInstance.Struct(cfg.Triage); err != nil {
		return err
	}
	if err := validatorInstance.Struct(cfg.Probe); err != nil {
		return err
	}
	if err := validatorInstance.Struct(cfg.Fact); err != nil {
		return err
	}
	if err := validatorInstance.Struct(cfg.LLM); err != nil {
		return err
	}
	if err := validatorInstance.Struct(cfg.Store); err != nil {
		return err
	}
	if err := validatorInstance.Struct(cfg.Telemetry); err != nil {
		return err
	}
	if cfg.Triage.ConfidenceThreshold < 0 || cfg.Triage.ConfidenceThreshold > 1 {
		return &ValidationError{Field: "triage.confidence_threshold", Err: fmt.Errorf("must be in [0,1]")}
	}
	return nil
}

// TTLFor returns the configured TTL for a fact attribute, matching the
// longest configured prefix, falling back to DefaultTTL. A TTL of 0 means
// the fact never goes Stale (e.g. cpu.cores).
func (c *FactConfig) TTLFor(attribute string) (ttl time.Duration, permanent bool) {
	best := c.DefaultTTL
	bestLen := -1
	for prefix, d := range c.TTLByPrefix {
		if len(prefix) > bestLen && hasPrefix(attribute, prefix) {
			best = d
			bestLen = len(prefix)
		}
	}
	return best, best == 0
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
