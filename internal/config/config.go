// Package config loads the engine's external knobs from a config
// file and the environment via viper, the way firestige-Otus and
// apoxy-dev-apoxy-cli load their daemon config.
package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Defaults chosen to bound a busy collector's worst case: a few
// thousand concurrent partial datagrams per source before eviction
// kicks in, and a timeout generous enough to survive normal reordering
// without holding memory indefinitely for fragments that never arrive.
const (
	DefaultBucketCount          = 2048
	DefaultPerSourceMemoryLimit = 4 << 20 // 4 MiB
	DefaultTotalMemoryLimit     = 64 << 20
	DefaultTimeoutSeconds       = 30
)

// Reassembly holds the engine's construction-time and runtime-tunable
// parameters.
type Reassembly struct {
	BucketCount          int    `mapstructure:"bucket_count"`
	PerSourceMemoryLimit uint64 `mapstructure:"per_source_memory_limit"`
	TotalMemoryLimit     uint64 `mapstructure:"total_memory_limit"`
	TimeoutSeconds       uint8  `mapstructure:"timeout_seconds"`
	LogLevel             string `mapstructure:"log_level"`
}

// Default returns the collaborator-supplied defaults.
func Default() Reassembly {
	return Reassembly{
		BucketCount:          DefaultBucketCount,
		PerSourceMemoryLimit: DefaultPerSourceMemoryLimit,
		TotalMemoryLimit:     DefaultTotalMemoryLimit,
		TimeoutSeconds:       DefaultTimeoutSeconds,
		LogLevel:             "info",
	}
}

// Load reads configFile (if non-empty) plus REASM6_-prefixed
// environment overrides into a Reassembly, starting from Default().
func Load(configFile string) (Reassembly, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("REASM6")
	v.AutomaticEnv()
	for key, val := range map[string]interface{}{
		"bucket_count":            cfg.BucketCount,
		"per_source_memory_limit": cfg.PerSourceMemoryLimit,
		"total_memory_limit":      cfg.TotalMemoryLimit,
		"timeout_seconds":         cfg.TimeoutSeconds,
		"log_level":               cfg.LogLevel,
	} {
		v.SetDefault(key, val)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	// Environment values arrive as strings; weak typing lets them
	// decode into the numeric fields.
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if err := dec.Decode(v.AllSettings()); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.BucketCount < 1 {
		return cfg, fmt.Errorf("bucket_count must be >= 1, got %d", cfg.BucketCount)
	}
	return cfg, nil
}
