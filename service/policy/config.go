package policy

import "github.com/viant/opsgate/model"

// EnvironmentPolicy captures the per-environment rule set.
type EnvironmentPolicy struct {
	ApprovalRequired     bool            `json:"approvalRequired" yaml:"approvalRequired"`
	MaxRiskLevel         model.RiskLevel `json:"maxRiskLevel" yaml:"maxRiskLevel"`
	BackupRequired       bool            `json:"backupRequired" yaml:"backupRequired"`
	RollbackPlanRequired bool            `json:"rollbackPlanRequired" yaml:"rollbackPlanRequired"`
	NotificationRequired bool            `json:"notificationRequired" yaml:"notificationRequired"`
}

// Config holds the policy tables the validator evaluates against. Immutable
// after construction.
type Config struct {
	Environments map[string]EnvironmentPolicy `json:"environments" yaml:"environments"`
	// FallbackEnvironment names the policy applied to unknown environments.
	// It defaults to prod so an unrecognised target gets the strictest rules.
	FallbackEnvironment string `json:"fallbackEnvironment" yaml:"fallbackEnvironment"`
	// ProductionMarkers are the user-id substrings granting production access.
	ProductionMarkers []string `json:"productionMarkers" yaml:"productionMarkers"`
	// BusinessStart/BusinessEnd bound the advisory business-hours window.
	BusinessStart int `json:"businessStart" yaml:"businessStart"`
	BusinessEnd   int `json:"businessEnd" yaml:"businessEnd"`
}

// EnvironmentPolicyFor resolves the policy for environment, falling back to
// the configured fallback environment.
func (c *Config) EnvironmentPolicyFor(environment string) EnvironmentPolicy {
	if policy, ok := c.Environments[environment]; ok {
		return policy
	}
	return c.Environments[c.FallbackEnvironment]
}

// PlanMaxRiskFor returns the plan risk ceiling for environment. Unlike
// request validation, plan validation does not inherit the fallback
// environment's policy: an unknown target only bounds plan risk at HIGH.
func (c *Config) PlanMaxRiskFor(environment string) model.RiskLevel {
	if policy, ok := c.Environments[environment]; ok {
		return policy.MaxRiskLevel
	}
	return model.RiskHigh
}

// DefaultConfig returns the built-in organisational policy tables.
func DefaultConfig() Config {
	return Config{
		Environments: map[string]EnvironmentPolicy{
			model.EnvProd: {
				ApprovalRequired:     true,
				MaxRiskLevel:         model.RiskMedium,
				BackupRequired:       true,
				RollbackPlanRequired: true,
				NotificationRequired: true,
			},
			model.EnvStaging: {
				ApprovalRequired:     false,
				MaxRiskLevel:         model.RiskHigh,
				RollbackPlanRequired: true,
			},
			model.EnvDev: {
				ApprovalRequired: false,
				MaxRiskLevel:     model.RiskHigh,
			},
		},
		FallbackEnvironment: model.EnvProd,
		ProductionMarkers:   []string{"ops", "admin", "engineer"},
		BusinessStart:       9,
		BusinessEnd:         17,
	}
}
