package risk

import (
	"fmt"
	"time"

	"github.com/viant/opsgate/internal/clock"
	"github.com/viant/opsgate/model"
)

// Engine computes a weighted multi-factor risk assessment for an operational
// request. It is pure apart from the injected clock and never fails – unknown
// environments, tasks or users fall back to configured default scores.
type Engine struct {
	config Config
	now    func() time.Time
}

// Option customises an Engine.
type Option func(*Engine)

// WithConfig replaces the default scoring tables.
func WithConfig(config Config) Option {
	return func(e *Engine) { e.config = config }
}

// WithClock overrides the wall-clock source used by the timing factor.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine with the default tables and the process clock.
func New(options ...Option) *Engine {
	ret := &Engine{config: DefaultConfig(), now: clock.Now}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Assess evaluates request and classification into an immutable assessment.
func (e *Engine) Assess(request *model.Request, classification *model.Classification) *model.RiskAssessment {
	environment := request.Environment
	taskID := classification.TaskID

	factors := []model.RiskFactor{
		{
			Name:        "Environment Risk",
			Score:       e.config.Environment.Score(environment),
			Weight:      e.config.Environment.Weight,
			Description: fmt.Sprintf("Risk associated with %v environment", environment),
		},
		{
			Name:        "Task Complexity",
			Score:       e.config.Task.Score(taskID),
			Weight:      e.config.Task.Weight,
			Description: fmt.Sprintf("Risk associated with %v operation", taskID),
		},
		{
			Name:        "Timing Risk",
			Score:       e.config.Timing.Score(e.now().Hour()),
			Weight:      e.config.Timing.Weight,
			Description: "Risk based on current time and business hours",
		},
		{
			Name:        "User Experience",
			Score:       e.config.User.Score(request.UserID),
			Weight:      e.config.User.Weight,
			Description: "Risk based on user's operational experience",
		},
	}

	var weightedSum, totalWeight float64
	for _, factor := range factors {
		weightedSum += factor.Score * factor.Weight
		totalWeight += factor.Weight
	}
	score := weightedSum / totalWeight
	level := e.config.Thresholds.Level(score)

	return &model.RiskAssessment{
		RiskLevel:        level,
		Score:            score,
		Factors:          factors,
		RequiresApproval: e.requiresApproval(level, environment, taskID),
		Constraints:      e.buildConstraints(level, environment, taskID),
	}
}

func (e *Engine) requiresApproval(level model.RiskLevel, environment, taskID string) bool {
	// production requires approval for anything above LOW
	if environment == model.EnvProd && level != model.RiskLow {
		return true
	}
	if level == model.RiskHigh || level == model.RiskCritical {
		return true
	}
	// cancellations are irreversible for the customer, gate them early
	if taskID == model.TaskCancelOrder && (environment == model.EnvStaging || environment == model.EnvProd) {
		return true
	}
	return false
}

func (e *Engine) buildConstraints(level model.RiskLevel, environment, taskID string) map[string]interface{} {
	elevated := level == model.RiskHigh || level == model.RiskCritical
	constraints := map[string]interface{}{
		"api_only":              true, // never direct DB access
		"max_retries":           3,
		"timeout_minutes":       30,
		"rollback_required":     elevated,
		"monitoring_required":   level != model.RiskLow,
		"notification_required": elevated,
	}
	if environment == model.EnvProd {
		constraints["max_retries"] = 1
		constraints["timeout_minutes"] = 15
		constraints["backup_required"] = true
		constraints["approval_timeout_hours"] = 24
	}
	if taskID == model.TaskCancelOrder {
		constraints["confirmation_required"] = true
		constraints["audit_trail_required"] = true
	}
	return constraints
}
