package risk

import (
	"strings"

	"github.com/viant/opsgate/model"
)

// Config holds every table the engine scores against. It is treated as
// immutable after construction so the engine stays safe for concurrent use.
// The zero value is not useful – start from DefaultConfig.
type Config struct {
	Environment FactorConfig `json:"environment" yaml:"environment"`
	Task        FactorConfig `json:"task" yaml:"task"`
	Timing      TimingConfig `json:"timing" yaml:"timing"`
	User        UserConfig   `json:"user" yaml:"user"`
	Thresholds  Thresholds   `json:"thresholds" yaml:"thresholds"`
}

// FactorConfig maps enum values to scores with a fallback for unknown values.
type FactorConfig struct {
	Weight       float64            `json:"weight" yaml:"weight"`
	Scores       map[string]float64 `json:"scores" yaml:"scores"`
	DefaultScore float64            `json:"defaultScore" yaml:"defaultScore"`
}

// Score returns the configured score for name, or the default.
func (f *FactorConfig) Score(name string) float64 {
	if score, ok := f.Scores[name]; ok {
		return score
	}
	return f.DefaultScore
}

// TimingConfig scores the local wall-clock hour. Business hours span
// [BusinessStart, BusinessEnd]; extended hours span [ExtendedStart,
// BusinessStart) and (BusinessEnd, ExtendedEnd]; everything else is off-hours.
type TimingConfig struct {
	Weight        float64 `json:"weight" yaml:"weight"`
	BusinessStart int     `json:"businessStart" yaml:"businessStart"`
	BusinessEnd   int     `json:"businessEnd" yaml:"businessEnd"`
	ExtendedStart int     `json:"extendedStart" yaml:"extendedStart"`
	ExtendedEnd   int     `json:"extendedEnd" yaml:"extendedEnd"`
	BusinessScore float64 `json:"businessScore" yaml:"businessScore"`
	ExtendedScore float64 `json:"extendedScore" yaml:"extendedScore"`
	OffHoursScore float64 `json:"offHoursScore" yaml:"offHoursScore"`
}

// Score returns the timing score for the supplied hour.
func (t *TimingConfig) Score(hour int) float64 {
	switch {
	case hour >= t.BusinessStart && hour <= t.BusinessEnd:
		return t.BusinessScore
	case hour >= t.ExtendedStart && hour <= t.ExtendedEnd:
		return t.ExtendedScore
	default:
		return t.OffHoursScore
	}
}

// UserConfig scores the requester by substring markers in the user id – a
// stand-in for a real identity/role lookup.
type UserConfig struct {
	Weight       float64            `json:"weight" yaml:"weight"`
	MarkerScores map[string]float64 `json:"markerScores" yaml:"markerScores"`
	DefaultScore float64            `json:"defaultScore" yaml:"defaultScore"`
}

// Score returns the lowest score among markers present in the user id, so a
// privileged marker always wins over a weaker one regardless of table order.
func (u *UserConfig) Score(userID string) float64 {
	normalized := strings.ToLower(userID)
	score, matched := u.DefaultScore, false
	for marker, markerScore := range u.MarkerScores {
		if !strings.Contains(normalized, strings.ToLower(marker)) {
			continue
		}
		if !matched || markerScore < score {
			score, matched = markerScore, true
		}
	}
	return score
}

// Thresholds are inclusive upper bounds for each level, evaluated in
// ascending order; scores above High resolve to CRITICAL.
type Thresholds struct {
	Low    float64 `json:"low" yaml:"low"`
	Medium float64 `json:"medium" yaml:"medium"`
	High   float64 `json:"high" yaml:"high"`
}

// Level maps a score onto a risk level.
func (t *Thresholds) Level(score float64) model.RiskLevel {
	switch {
	case score <= t.Low:
		return model.RiskLow
	case score <= t.Medium:
		return model.RiskMedium
	case score <= t.High:
		return model.RiskHigh
	default:
		return model.RiskCritical
	}
}

// DefaultConfig returns the built-in scoring tables.
func DefaultConfig() Config {
	return Config{
		Environment: FactorConfig{
			Weight: 2.0,
			Scores: map[string]float64{
				model.EnvDev:     0.1,
				model.EnvStaging: 0.3,
				model.EnvProd:    1.0,
			},
			DefaultScore: 0.5,
		},
		Task: FactorConfig{
			Weight: 1.5,
			Scores: map[string]float64{
				model.TaskCancelOrder:       0.7,
				model.TaskChangeOrderStatus: 0.4,
				model.TaskReconcileData:     0.8,
			},
			DefaultScore: 0.5,
		},
		Timing: TimingConfig{
			Weight:        0.5,
			BusinessStart: 9,
			BusinessEnd:   17,
			ExtendedStart: 6,
			ExtendedEnd:   22,
			BusinessScore: 0.2,
			ExtendedScore: 0.5,
			OffHoursScore: 0.8,
		},
		User: UserConfig{
			Weight: 1.0,
			MarkerScores: map[string]float64{
				"admin":    0.2,
				"ops":      0.2,
				"engineer": 0.4,
			},
			DefaultScore: 0.7,
		},
		Thresholds: Thresholds{
			Low:    0.3,
			Medium: 0.6,
			High:   0.8,
		},
	}
}
