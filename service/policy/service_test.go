package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/opsgate/model"
)

// tuesdayNoon is a weekday business hour.
func tuesdayNoon() time.Time {
	return time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
}

// saturdayNight is both weekend and outside business hours.
func saturdayNight() time.Time {
	return time.Date(2025, 3, 8, 23, 0, 0, 0, time.UTC)
}

func TestValidator_ValidateRequest(t *testing.T) {
	type testCase struct {
		name             string
		request          *model.Request
		classification   *model.Classification
		now              func() time.Time
		expectAllowed    bool
		expectedPolicies []string
		expectedWarnings int
	}

	testCases := []testCase{
		{
			name:             "unauthorized user denied in prod",
			request:          &model.Request{RequestID: "r1", UserID: "intern_pat", Environment: model.EnvProd},
			classification:   &model.Classification{TaskID: model.TaskChangeOrderStatus},
			now:              tuesdayNoon,
			expectAllowed:    false,
			expectedPolicies: []string{"production_access"},
		},
		{
			name:           "ops user allowed in prod",
			request:        &model.Request{RequestID: "r2", UserID: "ops_alice", Environment: model.EnvProd},
			classification: &model.Classification{TaskID: model.TaskChangeOrderStatus},
			now:            tuesdayNoon,
			expectAllowed:  true,
		},
		{
			name:             "prod cancellation without justification warns but allows",
			request:          &model.Request{RequestID: "r3", UserID: "admin_bob", Environment: model.EnvProd},
			classification:   &model.Classification{TaskID: model.TaskCancelOrder},
			now:              tuesdayNoon,
			expectAllowed:    true,
			expectedPolicies: []string{"business_justification"},
		},
		{
			name: "prod cancellation with justification clean",
			request: &model.Request{
				RequestID: "r4", UserID: "admin_bob", Environment: model.EnvProd,
				Context: map[string]interface{}{"business_justification": "duplicate order"},
			},
			classification: &model.Classification{TaskID: model.TaskCancelOrder},
			now:            tuesdayNoon,
			expectAllowed:  true,
		},
		{
			name:             "weekend night prod attracts advisory warnings only",
			request:          &model.Request{RequestID: "r5", UserID: "ops_alice", Environment: model.EnvProd},
			classification:   &model.Classification{TaskID: model.TaskChangeOrderStatus},
			now:              saturdayNight,
			expectAllowed:    true,
			expectedWarnings: 2,
		},
		{
			name:           "dev request by unknown user allowed",
			request:        &model.Request{RequestID: "r6", UserID: "guest", Environment: model.EnvDev},
			classification: &model.Classification{TaskID: model.TaskCancelOrder},
			now:            tuesdayNoon,
			expectAllowed:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			validator := New(WithClock(tc.now))
			result := validator.ValidateRequest(tc.request, tc.classification, nil)
			assert.Equal(t, tc.expectAllowed, result.Allowed)
			var policies []string
			for _, violation := range result.Violations {
				policies = append(policies, violation.PolicyName)
			}
			assert.Equal(t, tc.expectedPolicies, policies)
			if tc.expectedWarnings > 0 {
				assert.Len(t, result.Warnings, tc.expectedWarnings)
			}
		})
	}
}

func TestValidator_RequestConstraints(t *testing.T) {
	validator := New(WithClock(tuesdayNoon))

	result := validator.ValidateRequest(
		&model.Request{RequestID: "r1", UserID: "ops_alice", Environment: model.EnvProd},
		&model.Classification{TaskID: model.TaskChangeOrderStatus}, nil)
	assert.Equal(t, true, result.Constraints["approval_required"])
	assert.Equal(t, true, result.Constraints["backup_required"])
	assert.Equal(t, model.RiskMedium, result.Constraints["max_risk_level"])

	result = validator.ValidateRequest(
		&model.Request{RequestID: "r2", UserID: "guest", Environment: model.EnvDev},
		&model.Classification{TaskID: model.TaskChangeOrderStatus}, nil)
	assert.Equal(t, false, result.Constraints["approval_required"])
	assert.Equal(t, model.RiskHigh, result.Constraints["max_risk_level"])

	// unknown environment gets the strictest (prod) policy
	result = validator.ValidateRequest(
		&model.Request{RequestID: "r3", UserID: "ops_alice", Environment: "qa"},
		&model.Classification{TaskID: model.TaskChangeOrderStatus}, nil)
	assert.Equal(t, true, result.Constraints["approval_required"])
}

func TestValidator_ValidatePlan(t *testing.T) {
	validator := New(WithClock(tuesdayNoon))
	rollback := []model.PlanStep{{Name: "Restore order status"}}

	type testCase struct {
		name             string
		plan             *model.Plan
		request          *model.Request
		expectAllowed    bool
		expectedPolicies []string
	}

	testCases := []testCase{
		{
			name:          "prod plan with rollback within bound",
			plan:          &model.Plan{Summary: "cancel order", RiskLevel: model.RiskMedium, Rollback: rollback},
			request:       &model.Request{RequestID: "r1", Environment: model.EnvProd},
			expectAllowed: true,
		},
		{
			name:             "prod plan without rollback denied",
			plan:             &model.Plan{Summary: "cancel order", RiskLevel: model.RiskMedium},
			request:          &model.Request{RequestID: "r2", Environment: model.EnvProd},
			expectAllowed:    false,
			expectedPolicies: []string{"rollback_required"},
		},
		{
			name:             "plan risk above environment ceiling denied",
			plan:             &model.Plan{Summary: "reconcile", RiskLevel: model.RiskHigh, Rollback: rollback},
			request:          &model.Request{RequestID: "r3", Environment: model.EnvProd},
			expectAllowed:    false,
			expectedPolicies: []string{"max_risk_level"},
		},
		{
			name:          "staging tolerates high risk without rollback bound check",
			plan:          &model.Plan{Summary: "reconcile", RiskLevel: model.RiskHigh},
			request:       &model.Request{RequestID: "r4", Environment: model.EnvStaging},
			expectAllowed: true,
		},
		{
			name:             "unknown plan risk never passes",
			plan:             &model.Plan{Summary: "mystery", RiskLevel: "SEVERE", Rollback: rollback},
			request:          &model.Request{RequestID: "r5", Environment: model.EnvStaging},
			expectAllowed:    false,
			expectedPolicies: []string{"max_risk_level"},
		},
		{
			name:          "unknown environment bounds plan risk at high",
			plan:          &model.Plan{Summary: "reconcile", RiskLevel: model.RiskHigh},
			request:       &model.Request{RequestID: "r6", Environment: "qa"},
			expectAllowed: true,
		},
		{
			name:             "unknown environment still rejects critical plans",
			plan:             &model.Plan{Summary: "reconcile", RiskLevel: model.RiskCritical},
			request:          &model.Request{RequestID: "r7", Environment: "qa"},
			expectAllowed:    false,
			expectedPolicies: []string{"max_risk_level"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := validator.ValidatePlan(tc.plan, tc.request)
			assert.Equal(t, tc.expectAllowed, result.Allowed)
			var policies []string
			for _, violation := range result.Violations {
				policies = append(policies, violation.PolicyName)
			}
			assert.Equal(t, tc.expectedPolicies, policies)
		})
	}
}

func TestValidator_WarningsNeverBlock(t *testing.T) {
	validator := New(WithClock(saturdayNight))
	result := validator.ValidateRequest(
		&model.Request{RequestID: "r1", UserID: "ops_alice", Environment: model.EnvProd},
		&model.Classification{TaskID: model.TaskCancelOrder}, nil)
	// business_justification violation is WARNING severity
	assert.True(t, result.Allowed)
	assert.NotEmpty(t, result.Violations)
	assert.NotEmpty(t, result.Warnings)
}
