package model

// RiskLevel is an ordinal risk category.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Ordinal returns the position of the level in LOW<MEDIUM<HIGH<CRITICAL.
// Unknown levels rank as CRITICAL, so they exceed every bound below it.
func (l RiskLevel) Ordinal() int {
	switch l {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	}
	return 4
}

// Exceeds reports whether l ranks above the supplied bound.
func (l RiskLevel) Exceeds(bound RiskLevel) bool {
	return l.Ordinal() > bound.Ordinal()
}

// RiskFactor is a single weighted contribution to an assessment. Factors are
// ephemeral – they exist only inside the RiskAssessment they were computed for.
type RiskFactor struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`  // 0.0 .. 1.0
	Weight      float64 `json:"weight"` // importance multiplier, > 0
	Description string  `json:"description,omitempty"`
}

// RiskAssessment is the immutable outcome of one risk evaluation.
type RiskAssessment struct {
	RiskLevel        RiskLevel              `json:"riskLevel"`
	Score            float64                `json:"score"`
	Factors          []RiskFactor           `json:"factors"`
	RequiresApproval bool                   `json:"requiresApproval"`
	Constraints      map[string]interface{} `json:"constraints,omitempty"`
}
