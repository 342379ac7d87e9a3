package model

import "time"

// Decision status values assembled by the orchestrator.
const (
	StatusAwaitingApproval  = "awaiting_approval"
	StatusReadyForExecution = "ready_for_execution"
	StatusDenied            = "denied"
)

// ApprovalInfo is the read-only approval block attached to a decision when an
// approval request was created for the operation.
type ApprovalInfo struct {
	Required  bool       `json:"required"`
	RequestID string     `json:"requestId,omitempty"`
	Status    string     `json:"status,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Approvers []string   `json:"approvers,omitempty"`
}

// Decision is the final record returned to the caller for one operational
// request: the request/classification echo, the risk assessment, the policy
// verdict and, when approval is required, a snapshot of the approval request.
type Decision struct {
	RequestID      string                  `json:"requestId"`
	Status         string                  `json:"status"`
	Request        *Request                `json:"request"`
	Classification *Classification         `json:"classification"`
	Risk           *RiskAssessment         `json:"riskAssessment"`
	Policy         *PolicyValidationResult `json:"policyValidation"`
	Approval       *ApprovalInfo           `json:"approval"`
	CreatedAt      time.Time               `json:"createdAt"`
}
