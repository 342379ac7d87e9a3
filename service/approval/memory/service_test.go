package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/opsgate/model"
	approval "github.com/viant/opsgate/service/approval"
	"github.com/viant/opsgate/service/dao"
)

// testClock is a settable clock shared by a test and the service under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func highRiskInput(id string) *approval.CreateInput {
	return &approval.CreateInput{
		RequestID:        id,
		OperationSummary: "Cancel order ORD-2025-001",
		RiskLevel:        model.RiskHigh,
		Requester:        "ops_alice",
		Environment:      model.EnvProd,
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("low risk needs no approval", func(t *testing.T) {
		svc := New(WithClock(newTestClock().Now))
		request, err := svc.Create(ctx, &approval.CreateInput{
			RequestID: "low-1", RiskLevel: model.RiskLow, Requester: "dev_dan",
		})
		assert.NoError(t, err)
		assert.Nil(t, request)
	})

	t.Run("prod high risk escalates approvers", func(t *testing.T) {
		aClock := newTestClock()
		svc := New(WithClock(aClock.Now))
		request, err := svc.Create(ctx, highRiskInput("high-1"))
		assert.NoError(t, err)
		assert.NotNil(t, request)
		assert.Equal(t, approval.StatusPending, request.Status)
		assert.Equal(t, []string{"ops_manager", "engineering_manager", "cto", "vp_engineering"}, request.Approvers)
		assert.Equal(t, 2, request.ApproversNeeded)
		assert.Equal(t, aClock.Now().Add(12*time.Hour), request.ExpiresAt)
	})

	t.Run("staging high risk keeps base approvers", func(t *testing.T) {
		svc := New(WithClock(newTestClock().Now))
		input := highRiskInput("high-2")
		input.Environment = model.EnvStaging
		request, err := svc.Create(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, []string{"ops_manager", "engineering_manager"}, request.Approvers)
	})

	t.Run("repeated create is idempotent", func(t *testing.T) {
		svc := New(WithClock(newTestClock().Now))
		first, err := svc.Create(ctx, highRiskInput("high-3"))
		assert.NoError(t, err)
		second, err := svc.Create(ctx, highRiskInput("high-3"))
		assert.NoError(t, err)
		assert.EqualValues(t, first, second)
	})

	t.Run("unknown level falls back to high policy", func(t *testing.T) {
		svc := New(WithClock(newTestClock().Now))
		request, err := svc.Create(ctx, &approval.CreateInput{
			RequestID: "odd-1", RiskLevel: "SEVERE", Requester: "ops_alice",
		})
		assert.NoError(t, err)
		assert.NotNil(t, request)
		assert.Equal(t, []string{"ops_manager", "engineering_manager"}, request.Approvers)
	})
}

func TestService_CheckStatus(t *testing.T) {
	ctx := context.Background()
	aClock := newTestClock()
	svc := New(WithClock(aClock.Now))

	_, err := svc.CheckStatus(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	created, err := svc.Create(ctx, highRiskInput("req-1"))
	assert.NoError(t, err)

	current, err := svc.CheckStatus(ctx, "req-1")
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusPending, current.Status)
	assert.Equal(t, created.Approvers, current.Approvers)

	// past the deadline the read itself finalizes the record
	aClock.Advance(13 * time.Hour)
	current, err = svc.CheckStatus(ctx, "req-1")
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusExpired, current.Status)

	ok, err := svc.Approve(ctx, "req-1", "ops_manager", "")
	assert.NoError(t, err)
	assert.False(t, ok, "expired request must not be approvable")
}

func TestService_ApproveReject(t *testing.T) {
	ctx := context.Background()

	type testCase struct {
		name           string
		approver       string
		approve        bool
		advance        time.Duration
		expectOK       bool
		expectedStatus approval.Status
	}

	testCases := []testCase{
		{
			name:           "eligible approver approves",
			approver:       "ops_manager",
			approve:        true,
			expectOK:       true,
			expectedStatus: approval.StatusApproved,
		},
		{
			name:           "escalated approver approves",
			approver:       "cto",
			approve:        true,
			expectOK:       true,
			expectedStatus: approval.StatusApproved,
		},
		{
			name:           "eligible approver rejects",
			approver:       "engineering_manager",
			approve:        false,
			expectOK:       true,
			expectedStatus: approval.StatusRejected,
		},
		{
			name:           "ineligible approver is refused",
			approver:       "random_user",
			approve:        true,
			expectOK:       false,
			expectedStatus: approval.StatusPending,
		},
		{
			name:           "decision after expiry finalizes to expired",
			approver:       "ops_manager",
			approve:        true,
			advance:        13 * time.Hour,
			expectOK:       false,
			expectedStatus: approval.StatusExpired,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			aClock := newTestClock()
			svc := New(WithClock(aClock.Now))
			_, err := svc.Create(ctx, highRiskInput("req-1"))
			assert.NoError(t, err)
			aClock.Advance(tc.advance)

			var ok bool
			if tc.approve {
				ok, err = svc.Approve(ctx, "req-1", tc.approver, "looks safe")
			} else {
				ok, err = svc.Reject(ctx, "req-1", tc.approver, "too risky")
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expectOK, ok)

			current, err := svc.CheckStatus(ctx, "req-1")
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedStatus, current.Status)
			if tc.expectedStatus == approval.StatusApproved {
				assert.Equal(t, tc.approver, current.ApprovedBy)
				assert.NotNil(t, current.ApprovedAt)
			}
			if tc.expectedStatus == approval.StatusRejected {
				assert.Equal(t, "too risky", current.RejectionReason)
				assert.Empty(t, current.ApprovedBy)
			}
		})
	}
}

func TestService_TerminalStatesAreFinal(t *testing.T) {
	ctx := context.Background()
	svc := New(WithClock(newTestClock().Now))
	_, err := svc.Create(ctx, highRiskInput("req-1"))
	assert.NoError(t, err)

	ok, err := svc.Approve(ctx, "req-1", "ops_manager", "")
	assert.NoError(t, err)
	assert.True(t, ok)

	// every further transition attempt is a no-op failure
	ok, err = svc.Approve(ctx, "req-1", "cto", "")
	assert.NoError(t, err)
	assert.False(t, ok)
	ok, err = svc.Reject(ctx, "req-1", "cto", "changed my mind")
	assert.NoError(t, err)
	assert.False(t, ok)
	ok, err = svc.Cancel(ctx, "req-1", "ops_alice")
	assert.NoError(t, err)
	assert.False(t, ok)

	current, err := svc.CheckStatus(ctx, "req-1")
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, current.Status)
	assert.Equal(t, "ops_manager", current.ApprovedBy)
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()
	svc := New(WithClock(newTestClock().Now))
	_, err := svc.Create(ctx, highRiskInput("req-1"))
	assert.NoError(t, err)

	ok, err := svc.Cancel(ctx, "req-1", "someone_else")
	assert.NoError(t, err)
	assert.False(t, ok, "only the requester may withdraw")

	ok, err = svc.Cancel(ctx, "req-1", "ops_alice")
	assert.NoError(t, err)
	assert.True(t, ok)

	current, err := svc.CheckStatus(ctx, "req-1")
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusCancelled, current.Status)
}

func TestService_ListPending(t *testing.T) {
	ctx := context.Background()
	aClock := newTestClock()
	svc := New(WithClock(aClock.Now))

	critical := &approval.CreateInput{
		RequestID: "crit-1", OperationSummary: "Reconcile ledgers",
		RiskLevel: model.RiskCritical, Requester: "ops_alice", Environment: model.EnvProd,
	}
	_, err := svc.Create(ctx, critical)
	assert.NoError(t, err)
	_, err = svc.Create(ctx, highRiskInput("high-1"))
	assert.NoError(t, err)
	medium := &approval.CreateInput{
		RequestID: "med-1", OperationSummary: "Change order status",
		RiskLevel: model.RiskMedium, Requester: "dev_dan", Environment: model.EnvStaging,
	}
	_, err = svc.Create(ctx, medium)
	assert.NoError(t, err)

	// cto sees the critical (4h) and escalated high (12h), soonest first
	pending, err := svc.ListPending(ctx, "cto")
	assert.NoError(t, err)
	var ids []string
	for _, request := range pending {
		ids = append(ids, request.RequestID)
	}
	assert.Equal(t, []string{"crit-1", "high-1"}, ids)

	// ops_lead only sees the medium request
	pending, err = svc.ListPending(ctx, "ops_lead")
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, "med-1", pending[0].RequestID)

	// past the critical deadline it drops out of the listing
	aClock.Advance(5 * time.Hour)
	pending, err = svc.ListPending(ctx, "cto")
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, "high-1", pending[0].RequestID)
}

func TestService_ConcurrentDecisionsOneWins(t *testing.T) {
	ctx := context.Background()
	svc := New(WithClock(newTestClock().Now))
	_, err := svc.Create(ctx, highRiskInput("req-1"))
	assert.NoError(t, err)

	const writers = 16
	var wg sync.WaitGroup
	results := make([]bool, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				results[i], _ = svc.Approve(ctx, "req-1", "ops_manager", "")
			} else {
				results[i], _ = svc.Reject(ctx, "req-1", "engineering_manager", "no")
			}
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, ok := range results {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one terminal transition must win")

	current, err := svc.CheckStatus(ctx, "req-1")
	assert.NoError(t, err)
	assert.True(t, current.Status.Terminal())
}

func TestService_EventsPublished(t *testing.T) {
	ctx := context.Background()
	var notified []string
	svc := New(
		WithClock(newTestClock().Now),
		WithNotifier(func(_ context.Context, event *approval.Event) {
			notified = append(notified, event.Topic)
		}))

	_, err := svc.Create(ctx, highRiskInput("req-1"))
	assert.NoError(t, err)
	ok, err := svc.Approve(ctx, "req-1", "ops_manager", "")
	assert.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{approval.TopicRequestCreated, approval.TopicDecisionCreated}, notified)

	msg, err := svc.Queue().Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, approval.TopicRequestCreated, msg.T().Topic)
	assert.NoError(t, msg.Ack())
	msg, err = svc.Queue().Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, approval.TopicDecisionCreated, msg.T().Topic)
	assert.Equal(t, string(approval.StatusApproved), msg.T().Decision)
}
