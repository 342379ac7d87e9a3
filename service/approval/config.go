package approval

import (
	"time"

	"github.com/viant/opsgate/model"
)

// LevelPolicy drives the approval workflow for one risk level.
type LevelPolicy struct {
	Required          bool     `json:"required" yaml:"required"`
	ApproversNeeded   int      `json:"approversNeeded" yaml:"approversNeeded"`
	TimeoutHours      int      `json:"timeoutHours" yaml:"timeoutHours"`
	EligibleApprovers []string `json:"eligibleApprovers" yaml:"eligibleApprovers"`
}

// Timeout returns the policy timeout as a duration.
func (p *LevelPolicy) Timeout() time.Duration {
	return time.Duration(p.TimeoutHours) * time.Hour
}

// Config holds the per-level approval policy table. Immutable after
// construction.
type Config struct {
	Levels map[model.RiskLevel]LevelPolicy `json:"levels" yaml:"levels"`
	// FallbackLevel names the policy applied to unknown risk levels; it
	// defaults to HIGH so an unrecognised level is never waved through.
	FallbackLevel model.RiskLevel `json:"fallbackLevel" yaml:"fallbackLevel"`
	// ProductionEscalation lists approvers added for HIGH/CRITICAL requests
	// targeting production.
	ProductionEscalation []string `json:"productionEscalation" yaml:"productionEscalation"`
}

// PolicyFor resolves the policy for the supplied level.
func (c *Config) PolicyFor(level model.RiskLevel) LevelPolicy {
	if policy, ok := c.Levels[level]; ok {
		return policy
	}
	return c.Levels[c.FallbackLevel]
}

// EligibleApprovers computes the deduplicated approver set for a level and
// environment, preserving table order with escalations appended.
func (c *Config) EligibleApprovers(level model.RiskLevel, environment string) []string {
	policy := c.PolicyFor(level)
	approvers := append([]string(nil), policy.EligibleApprovers...)
	if environment == model.EnvProd && (level == model.RiskHigh || level == model.RiskCritical) {
		approvers = append(approvers, c.ProductionEscalation...)
	}
	seen := make(map[string]bool, len(approvers))
	deduplicated := approvers[:0]
	for _, approver := range approvers {
		if seen[approver] {
			continue
		}
		seen[approver] = true
		deduplicated = append(deduplicated, approver)
	}
	return deduplicated
}

// DefaultConfig returns the built-in approval policy table.
func DefaultConfig() Config {
	return Config{
		Levels: map[model.RiskLevel]LevelPolicy{
			model.RiskLow: {
				Required: false,
			},
			model.RiskMedium: {
				Required:          true,
				ApproversNeeded:   1,
				TimeoutHours:      24,
				EligibleApprovers: []string{"ops_lead", "senior_engineer"},
			},
			model.RiskHigh: {
				Required:          true,
				ApproversNeeded:   2,
				TimeoutHours:      12,
				EligibleApprovers: []string{"ops_manager", "engineering_manager"},
			},
			model.RiskCritical: {
				Required:          true,
				ApproversNeeded:   2,
				TimeoutHours:      4,
				EligibleApprovers: []string{"ops_director", "cto", "vp_engineering"},
			},
		},
		FallbackLevel:        model.RiskHigh,
		ProductionEscalation: []string{"cto", "vp_engineering"},
	}
}
