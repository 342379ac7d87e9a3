package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevel_Exceeds(t *testing.T) {
	testCases := []struct {
		name     string
		level    RiskLevel
		bound    RiskLevel
		expected bool
	}{
		{"low within medium", RiskLow, RiskMedium, false},
		{"high exceeds medium", RiskHigh, RiskMedium, true},
		{"critical exceeds high", RiskCritical, RiskHigh, true},
		{"level never exceeds itself", RiskHigh, RiskHigh, false},
		{"unknown level exceeds high", RiskLevel("SEVERE"), RiskHigh, true},
		{"unknown level ranks as critical", RiskLevel("SEVERE"), RiskCritical, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.level.Exceeds(tc.bound))
		})
	}
}
