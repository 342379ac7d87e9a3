package model

// PlanStep is a single step of a generated operational plan.
type PlanStep struct {
	Step           int    `json:"step,omitempty"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Action         string `json:"action,omitempty"`
	APICall        string `json:"apiCall,omitempty"`
	ExpectedResult string `json:"expectedResult,omitempty"`
	Required       bool   `json:"required,omitempty"`
}

// Plan is the operational plan produced by the upstream plan generator. The
// pipeline only inspects risk-relevant metadata and the presence of rollback
// steps; it never executes a plan.
type Plan struct {
	Summary           string     `json:"summary"`
	RiskLevel         RiskLevel  `json:"riskLevel"`
	RequiresApproval  bool       `json:"requiresApproval"`
	EstimatedDuration string     `json:"estimatedDuration,omitempty"`
	PreChecks         []PlanStep `json:"preChecks,omitempty"`
	Procedure         []PlanStep `json:"procedure,omitempty"`
	Rollback          []PlanStep `json:"rollback,omitempty"`
}

// HasRollback reports whether the plan includes at least one rollback step.
func (p *Plan) HasRollback() bool {
	return p != nil && len(p.Rollback) > 0
}
