package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// EnvExpirySweepInterval overrides the sweep interval.
	EnvExpirySweepInterval = "EXPIRY_SWEEP_INTERVAL"

	// EnvExpiryMaxAge overrides the short TTL enforced by the sweep.
	EnvExpiryMaxAge = "EXPIRY_MAX_AGE"

	// EnvExpiryBackstopAge overrides the long TTL enforced by the storage provider.
	EnvExpiryBackstopAge = "EXPIRY_BACKSTOP_AGE"
)

// ExpiryConfig contains artifact expiry configuration. Two independent
// rules target the same key space: the sweep deletes objects older than
// MaxAge every SweepInterval, and the storage provider deletes anything
// older than BackstopAge even if the sweep never runs.
type ExpiryConfig struct {
	// SweepInterval is how often the sweep runs. Default: "15m"
	SweepInterval    string `toml:"sweep_interval"`
	sweepIntervalVal time.Duration

	// MaxAge is the age past which the sweep deletes an object. Default: "1h"
	MaxAge    string `toml:"max_age"`
	maxAgeVal time.Duration

	// BackstopAge is the provider-enforced retention ceiling. Default: "24h"
	BackstopAge    string `toml:"backstop_age"`
	backstopAgeVal time.Duration
}

// SweepIntervalDuration returns the parsed sweep interval.
func (c *ExpiryConfig) SweepIntervalDuration() time.Duration {
	return c.sweepIntervalVal
}

// MaxAgeDuration returns the parsed short TTL.
func (c *ExpiryConfig) MaxAgeDuration() time.Duration {
	return c.maxAgeVal
}

// BackstopAgeDuration returns the parsed provider backstop TTL.
func (c *ExpiryConfig) BackstopAgeDuration() time.Duration {
	return c.backstopAgeVal
}

// Finalize applies defaults, loads environment overrides, and validates the expiry configuration.
func (c *ExpiryConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ExpiryConfig) Merge(overlay *ExpiryConfig) {
	if overlay.SweepInterval != "" {
		c.SweepInterval = overlay.SweepInterval
	}
	if overlay.MaxAge != "" {
		c.MaxAge = overlay.MaxAge
	}
	if overlay.BackstopAge != "" {
		c.BackstopAge = overlay.BackstopAge
	}
}

func (c *ExpiryConfig) loadDefaults() {
	if c.SweepInterval == "" {
		c.SweepInterval = "15m"
	}
	if c.MaxAge == "" {
		c.MaxAge = "1h"
	}
	if c.BackstopAge == "" {
		c.BackstopAge = "24h"
	}
}

func (c *ExpiryConfig) loadEnv() {
	if v := os.Getenv(EnvExpirySweepInterval); v != "" {
		c.SweepInterval = v
	}
	if v := os.Getenv(EnvExpiryMaxAge); v != "" {
		c.MaxAge = v
	}
	if v := os.Getenv(EnvExpiryBackstopAge); v != "" {
		c.BackstopAge = v
	}
}

func (c *ExpiryConfig) validate() error {
	for name, target := range map[string]struct {
		value string
		dest  *time.Duration
	}{
		"sweep_interval": {c.SweepInterval, &c.sweepIntervalVal},
		"max_age":        {c.MaxAge, &c.maxAgeVal},
		"backstop_age":   {c.BackstopAge, &c.backstopAgeVal},
	} {
		d, err := time.ParseDuration(target.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
		*target.dest = d
	}

	if c.maxAgeVal <= c.sweepIntervalVal {
		return fmt.Errorf("max_age must exceed sweep_interval")
	}
	if c.backstopAgeVal <= c.maxAgeVal {
		return fmt.Errorf("backstop_age must exceed max_age")
	}
	return nil
}
