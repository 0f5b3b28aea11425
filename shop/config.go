package shop

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every configuration error.
var ErrInvalidConfig = errors.New("invalid config")

// A ConfigError names the configuration field that was rejected.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s = %v, %s",
		ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Config holds the inputs of a run. All times are in simulated minutes.
type Config struct {
	// Horizon is the hard cutoff of the run.
	Horizon float64 `yaml:"horizon" mapstructure:"horizon"`

	// WorkingDuration is how long the shop stays open.
	WorkingDuration float64 `yaml:"working_duration" mapstructure:"working_duration"`

	MeanInterarrival float64 `yaml:"mean_interarrival" mapstructure:"mean_interarrival"`
	MinService       float64 `yaml:"min_service" mapstructure:"min_service"`
	MaxService       float64 `yaml:"max_service" mapstructure:"max_service"`

	// Capacity is the number of customers served at the same time.
	Capacity int `yaml:"capacity" mapstructure:"capacity"`

	SampleInterval float64 `yaml:"sample_interval" mapstructure:"sample_interval"`
	PollInterval   float64 `yaml:"poll_interval" mapstructure:"poll_interval"`
}

// DefaultConfig returns a ten hour horizon over an eight hour working day
// with one server.
func DefaultConfig() Config {
	return Config{
		Horizon:          600,
		WorkingDuration:  480,
		MeanInterarrival: 1.2,
		MinService:       5,
		MaxService:       30,
		Capacity:         1,
		SampleInterval:   1,
		PollInterval:     1,
	}
}

// Validate returns a *ConfigError for the first field that cannot be run.
func (c Config) Validate() error {
	checks := []struct {
		field  string
		value  float64
		ok     bool
		reason string
	}{
		{"horizon", c.Horizon, c.Horizon >= 0, "must not be negative"},
		{"working_duration", c.WorkingDuration, c.WorkingDuration >= 0,
			"must not be negative"},
		{"mean_interarrival", c.MeanInterarrival, c.MeanInterarrival > 0,
			"must be positive"},
		{"min_service", c.MinService, c.MinService >= 0,
			"must not be negative"},
		{"max_service", c.MaxService, c.MaxService >= c.MinService,
			"must not be less than min_service"},
		{"sample_interval", c.SampleInterval, c.SampleInterval > 0,
			"must be positive"},
		{"poll_interval", c.PollInterval, c.PollInterval > 0,
			"must be positive"},
	}

	for _, check := range checks {
		if math.IsNaN(check.value) || math.IsInf(check.value, 0) {
			return &ConfigError{
				Field:  check.field,
				Value:  check.value,
				Reason: "must be finite",
			}
		}

		if !check.ok {
			return &ConfigError{
				Field:  check.field,
				Value:  check.value,
				Reason: check.reason,
			}
		}
	}

	if c.Capacity < 1 {
		return &ConfigError{
			Field:  "capacity",
			Value:  c.Capacity,
			Reason: "must be at least 1",
		}
	}

	return nil
}
