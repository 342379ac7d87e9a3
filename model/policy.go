package model

// Severity grades a policy violation.
type Severity string

const (
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// Blocking reports whether a violation of this severity denies the operation.
func (s Severity) Blocking() bool {
	return s == SeverityError || s == SeverityCritical
}

// PolicyViolation is a named, severity-tagged failure of a request or plan to
// meet an organisational rule.
type PolicyViolation struct {
	PolicyName    string   `json:"policy"`
	ViolationType string   `json:"type"`
	Description   string   `json:"description"`
	Severity      Severity `json:"severity"`
}

// PolicyValidationResult aggregates the outcome of a policy check.
// Allowed is true iff no violation carries a blocking severity; warnings are
// advisory only and never flip Allowed.
type PolicyValidationResult struct {
	Allowed     bool                   `json:"allowed"`
	Violations  []PolicyViolation      `json:"violations,omitempty"`
	Constraints map[string]interface{} `json:"constraints,omitempty"`
	Warnings    []string               `json:"warnings,omitempty"`
}

// NewPolicyValidationResult derives Allowed from the supplied violations.
func NewPolicyValidationResult(violations []PolicyViolation, constraints map[string]interface{}, warnings []string) *PolicyValidationResult {
	allowed := true
	for _, v := range violations {
		if v.Severity.Blocking() {
			allowed = false
			break
		}
	}
	return &PolicyValidationResult{
		Allowed:     allowed,
		Violations:  violations,
		Constraints: constraints,
		Warnings:    warnings,
	}
}
