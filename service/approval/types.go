package approval

import (
	"time"

	"github.com/viant/opsgate/model"
)

// Status of an approval request. PENDING is the only non-terminal state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal reports whether no further transition may leave the status.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// Standard event topics published on the approval queue.
const (
	TopicRequestCreated   = "request.created"
	TopicRequestExpired   = "request.expired"
	TopicRequestCancelled = "request.cancelled"
	TopicDecisionCreated  = "decision.created"
)

// Event is the envelope published for every lifecycle transition so that
// delivery channels (chat, email, dashboards) can fan out notifications.
type Event struct {
	Topic     string            `json:"topic"`
	Request   *Request          `json:"request"`
	Decision  string            `json:"decision,omitempty"` // APPROVED | REJECTED | CANCELLED
	Comment   string            `json:"comment,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Request is a time-bounded record tracking whether a human approver has
// authorised a risky operation. Its identifier is the operational request id,
// so one operation maps to at most one approval request.
type Request struct {
	RequestID        string          `json:"requestId"` // primary key
	OperationSummary string          `json:"operationSummary"`
	RiskLevel        model.RiskLevel `json:"riskLevel"`
	Requester        string          `json:"requester"`
	Approvers        []string        `json:"approvers"`
	// ApproversNeeded is advisory policy metadata; the current workflow
	// finalizes on the first eligible response (see DESIGN.md).
	ApproversNeeded int        `json:"approversNeeded,omitempty"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	ExpiresAt       time.Time  `json:"expiresAt"`
	ApprovedBy      string     `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
}

// Eligible reports whether approver belongs to the request's approver set.
func (r *Request) Eligible(approver string) bool {
	for _, candidate := range r.Approvers {
		if candidate == approver {
			return true
		}
	}
	return false
}

// Clone returns a deep copy; mutations are always published as fresh copies
// so that snapshots held by callers stay immutable.
func (r *Request) Clone() *Request {
	clone := *r
	clone.Approvers = append([]string(nil), r.Approvers...)
	if r.ApprovedAt != nil {
		approvedAt := *r.ApprovedAt
		clone.ApprovedAt = &approvedAt
	}
	return &clone
}
