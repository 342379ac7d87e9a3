package opsgate

import (
	"context"
	"fmt"

	"github.com/viant/opsgate/service/approval"
	"github.com/viant/opsgate/service/meta"
	"github.com/viant/opsgate/service/policy"
	"github.com/viant/opsgate/service/risk"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the decision-pipeline
// configuration. It can be populated from YAML or JSON; nested sections
// default to their package defaults.
type Config struct {
	Risk     risk.Config     `json:"risk" yaml:"risk"`
	Policy   policy.Config   `json:"policy" yaml:"policy"`
	Approval approval.Config `json:"approval" yaml:"approval"`
}

// DefaultConfig returns a Config populated with the built-in tables.
func DefaultConfig() *Config {
	return &Config{
		Risk:     risk.DefaultConfig(),
		Policy:   policy.DefaultConfig(),
		Approval: approval.DefaultConfig(),
	}
}

// Validate returns an aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	thresholds := c.Risk.Thresholds
	if !(thresholds.Low < thresholds.Medium && thresholds.Medium < thresholds.High) {
		return fmt.Errorf("risk.thresholds must ascend: low < medium < high")
	}
	for _, factor := range []struct {
		name   string
		weight float64
	}{
		{"environment", c.Risk.Environment.Weight},
		{"task", c.Risk.Task.Weight},
		{"timing", c.Risk.Timing.Weight},
		{"user", c.Risk.User.Weight},
	} {
		if factor.weight <= 0 {
			return fmt.Errorf("risk.%v.weight must be > 0", factor.name)
		}
	}
	for level, levelPolicy := range c.Approval.Levels {
		if levelPolicy.Required && levelPolicy.TimeoutHours <= 0 {
			return fmt.Errorf("approval.levels.%v.timeoutHours must be > 0 when approval is required", level)
		}
	}
	return nil
}

// LoadConfig fetches a YAML config document through the meta service and
// applies it on top of the defaults.
func LoadConfig(ctx context.Context, metaService *meta.Service, URI string) (*Config, error) {
	data, err := metaService.Load(ctx, URI)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URI, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %v: %w", URI, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URI, err)
	}
	return config, nil
}
