package model

import "time"

// Environment names recognised by the decision pipeline. Unknown environments
// are tolerated everywhere and fall back to documented defaults.
const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

// Known operational task identifiers. The classifier may emit identifiers
// outside this set; the pipeline treats them with default risk weight.
const (
	TaskCancelOrder       = "CANCEL_ORDER"
	TaskChangeOrderStatus = "CHANGE_ORDER_STATUS"
	TaskReconcileData     = "RECONCILE_ORDER_DATA"
)

// Request represents an inbound operational request, already parsed and
// validated by the upstream gateway.
type Request struct {
	RequestID   string                 `json:"requestId"`
	UserID      string                 `json:"userId"`
	Query       string                 `json:"query"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Environment string                 `json:"environment,omitempty"`
	Timestamp   time.Time              `json:"timestamp,omitempty"`
}

// Classification is the upstream classifier's verdict for a request.
type Classification struct {
	TaskID      string                 `json:"taskId,omitempty"`
	Confidence  float64                `json:"confidence"`
	Entities    map[string]interface{} `json:"extractedEntities,omitempty"`
	Environment string                 `json:"environment,omitempty"`
	Service     string                 `json:"service,omitempty"`
}
