package approval

import (
	"context"

	"github.com/viant/opsgate/model"
	"github.com/viant/opsgate/service/messaging"
)

// CreateInput carries everything needed to open an approval request.
type CreateInput struct {
	RequestID        string          `json:"requestId"`
	OperationSummary string          `json:"operationSummary"`
	RiskLevel        model.RiskLevel `json:"riskLevel"`
	Requester        string          `json:"requester"`
	Environment      string          `json:"environment"`
}

// Service defines the approval workflow interface.
//
// All mutating operations are linearizable per request id: exactly one
// terminal transition wins under concurrent approve/reject/expiry, and
// operations on different ids never block each other.
type Service interface {
	// Create opens a PENDING approval request when the level policy demands
	// one; it returns (nil, nil) when no approval is required.
	Create(ctx context.Context, input *CreateInput) (*Request, error)

	// CheckStatus returns the request, transitioning PENDING past its
	// deadline to EXPIRED as a read side effect. Unknown ids yield
	// dao.ErrNotFound.
	CheckStatus(ctx context.Context, requestID string) (*Request, error)

	// Approve finalizes a PENDING request before expiry when approver is
	// eligible. It returns false without mutation on any conflict; an absent
	// id additionally carries dao.ErrNotFound.
	Approve(ctx context.Context, requestID, approver, comment string) (bool, error)

	// Reject mirrors Approve with a rejection reason.
	Reject(ctx context.Context, requestID, approver, reason string) (bool, error)

	// Cancel withdraws a PENDING request on behalf of its requester.
	Cancel(ctx context.Context, requestID, requester string) (bool, error)

	// ListPending returns the non-expired PENDING requests the approver is
	// eligible for, soonest-expiring first.
	ListPending(ctx context.Context, approver string) ([]*Request, error)

	// Queue exposes the lifecycle event stream for delivery channels.
	Queue() messaging.Queue[Event]
}

// Notifier is an abstract delivery capability invoked on lifecycle
// transitions. Delivery failures are the notifier's concern; the workflow
// never waits on or fails with it.
type Notifier func(ctx context.Context, event *Event)
