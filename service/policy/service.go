package policy

import (
	"fmt"
	"strings"
	"time"

	"github.com/viant/opsgate/internal/clock"
	"github.com/viant/opsgate/model"
)

// Validator checks operational requests and generated plans against the
// organisational policy tables. It is stateless apart from the injected clock
// and safe for concurrent use.
type Validator struct {
	config   Config
	registry EndpointRegistry
	now      func() time.Time
}

// Option customises a Validator.
type Option func(*Validator)

// WithConfig replaces the default policy tables.
func WithConfig(config Config) Option {
	return func(v *Validator) { v.config = config }
}

// WithEndpointRegistry plugs in an approved-endpoint catalogue used during
// plan validation.
func WithEndpointRegistry(registry EndpointRegistry) Option {
	return func(v *Validator) { v.registry = registry }
}

// WithClock overrides the wall-clock source used by time-based checks.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// New creates a validator with the default tables, a permit-all endpoint
// registry and the process clock.
func New(options ...Option) *Validator {
	ret := &Validator{config: DefaultConfig(), registry: PermitAllRegistry(), now: clock.Now}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// ValidateRequest checks the request against organisational and environment
// policy. The risk assessment is optional context; passing nil is valid.
func (v *Validator) ValidateRequest(request *model.Request, classification *model.Classification, assessment *model.RiskAssessment) *model.PolicyValidationResult {
	var violations []model.PolicyViolation

	if request.Environment == model.EnvProd && !v.hasProductionAccess(request.UserID) {
		violations = append(violations, model.PolicyViolation{
			PolicyName:    "production_access",
			ViolationType: "AUTHORIZATION",
			Description:   fmt.Sprintf("User %v does not have production access", request.UserID),
			Severity:      model.SeverityError,
		})
	}

	violations = append(violations, v.validateTaskPolicies(request, classification)...)
	warnings := v.validateTimePolicies(request)
	envPolicy := v.config.EnvironmentPolicyFor(request.Environment)
	constraints := v.buildConstraints(envPolicy)

	return model.NewPolicyValidationResult(violations, constraints, warnings)
}

// ValidatePlan checks a generated operational plan against environment policy:
// rollback presence in production, the environment risk ceiling, and the
// approved-endpoint registry.
func (v *Validator) ValidatePlan(plan *model.Plan, request *model.Request) *model.PolicyValidationResult {
	var violations []model.PolicyViolation

	violations = append(violations, v.registry.Validate(plan)...)

	if request.Environment == model.EnvProd && !plan.HasRollback() {
		violations = append(violations, model.PolicyViolation{
			PolicyName:    "rollback_required",
			ViolationType: "MISSING_PROCEDURE",
			Description:   "Production operations must include rollback procedures",
			Severity:      model.SeverityError,
		})
	}

	maxRisk := v.config.PlanMaxRiskFor(request.Environment)
	if plan.RiskLevel.Exceeds(maxRisk) {
		violations = append(violations, model.PolicyViolation{
			PolicyName:    "max_risk_level",
			ViolationType: "RISK_EXCEEDED",
			Description: fmt.Sprintf("Plan risk level %v exceeds maximum %v for %v",
				plan.RiskLevel, maxRisk, request.Environment),
			Severity: model.SeverityError,
		})
	}

	return model.NewPolicyValidationResult(violations, map[string]interface{}{}, nil)
}

func (v *Validator) hasProductionAccess(userID string) bool {
	normalized := strings.ToLower(userID)
	for _, marker := range v.config.ProductionMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

func (v *Validator) validateTaskPolicies(request *model.Request, classification *model.Classification) []model.PolicyViolation {
	var violations []model.PolicyViolation
	if strings.Contains(classification.TaskID, "CANCEL") && request.Environment == model.EnvProd {
		if _, ok := request.Context["business_justification"]; !ok {
			violations = append(violations, model.PolicyViolation{
				PolicyName:    "business_justification",
				ViolationType: "MISSING_CONTEXT",
				Description:   "Production cancellations require business justification",
				Severity:      model.SeverityWarning,
			})
		}
	}
	return violations
}

func (v *Validator) validateTimePolicies(request *model.Request) []string {
	var warnings []string
	now := v.now()
	hour := now.Hour()
	if request.Environment == model.EnvProd && (hour < v.config.BusinessStart || hour > v.config.BusinessEnd) {
		warnings = append(warnings, "Production operation requested outside business hours")
	}
	if weekday := now.Weekday(); weekday == time.Saturday || weekday == time.Sunday {
		warnings = append(warnings, "Operation requested during weekend")
	}
	return warnings
}

func (v *Validator) buildConstraints(envPolicy EnvironmentPolicy) map[string]interface{} {
	return map[string]interface{}{
		"api_only":               true,
		"approval_required":      envPolicy.ApprovalRequired,
		"backup_required":        envPolicy.BackupRequired,
		"rollback_plan_required": envPolicy.RollbackPlanRequired,
		"notification_required":  envPolicy.NotificationRequired,
		"max_risk_level":         envPolicy.MaxRiskLevel,
	}
}
