// Package gateway exposes the decision pipeline over HTTP. It is a thin
// surface: JSON parsing, field validation and status mapping only – all
// decision logic lives in the opsgate service, and request classification is
// delegated to an injected Classifier.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/viant/opsgate"
	"github.com/viant/opsgate/internal/idgen"
	"github.com/viant/opsgate/model"
	"github.com/viant/opsgate/service/dao"
)

// Classifier supplies a classification for a natural-language operational
// request. Implementations live upstream (pattern matching, ML, ...).
type Classifier interface {
	Classify(ctx context.Context, request *model.Request) (*model.Classification, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, request *model.Request) (*model.Classification, error)

// Classify implements Classifier.
func (f ClassifierFunc) Classify(ctx context.Context, request *model.Request) (*model.Classification, error) {
	return f(ctx, request)
}

// Service is the HTTP gateway in front of the decision service.
type Service struct {
	decisions  *opsgate.Service
	classifier Classifier
}

// New creates a gateway for the supplied decision service and classifier.
func New(decisions *opsgate.Service, classifier Classifier) *Service {
	return &Service{decisions: decisions, classifier: classifier}
}

// Handler returns the gateway route table.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/request", s.handleRequest)
	mux.HandleFunc("GET /v1/status/{id}", s.handleStatus)
	mux.HandleFunc("POST /v1/approve/{id}", s.handleApproval)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	return mux
}

func (s *Service) handleRequest(w http.ResponseWriter, r *http.Request) {
	var request model.Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if message, ok := validateRequest(&request); !ok {
		writeError(w, http.StatusBadRequest, message)
		return
	}
	if request.RequestID == "" {
		request.RequestID = idgen.New()
	}
	if request.Environment == "" {
		request.Environment = model.EnvDev
	}
	if request.Timestamp.IsZero() {
		request.Timestamp = time.Now()
	}

	classification, err := s.classifier.Classify(r.Context(), &request)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("classification failed: %v", err))
		return
	}

	decision, err := s.decisions.Decide(r.Context(), &request, classification)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status := http.StatusOK
	if decision.Status == model.StatusDenied {
		status = http.StatusForbidden
	}
	writeJSON(w, status, decision)
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")
	request, err := s.decisions.CheckStatus(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no approval request for %v", requestID))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, request)
}

// approvalDecision is the approve/reject payload.
type approvalDecision struct {
	Approver string `json:"approver"`
	Decision string `json:"decision"` // approve | reject
	Comment  string `json:"comment,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type approvalOutcome struct {
	RequestID string `json:"requestId"`
	Success   bool   `json:"success"`
	Status    string `json:"status"`
}

func (s *Service) handleApproval(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")
	var payload approvalDecision
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if payload.Approver == "" {
		writeError(w, http.StatusBadRequest, "approver is required")
		return
	}

	var ok bool
	var err error
	switch payload.Decision {
	case "approve":
		ok, err = s.decisions.Approve(r.Context(), requestID, payload.Approver, payload.Comment)
	case "reject":
		reason := payload.Reason
		if reason == "" {
			reason = payload.Comment
		}
		ok, err = s.decisions.Reject(r.Context(), requestID, payload.Approver, reason)
	default:
		writeError(w, http.StatusBadRequest, "decision must be approve or reject")
		return
	}
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no approval request for %v", requestID))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	current, err := s.decisions.CheckStatus(r.Context(), requestID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	outcome := &approvalOutcome{RequestID: requestID, Success: ok, Status: string(current.Status)}
	if !ok {
		// conflict: non-pending record, expired deadline or ineligible approver
		writeJSON(w, http.StatusConflict, outcome)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"components": map[string]string{
			"risk_assessment":     "active",
			"policy_validation":   "active",
			"approval_management": "active",
		},
	})
}

func (s *Service) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "opsgate",
		"endpoints": map[string]string{
			"POST /v1/request":      "Submit operational request for a decision",
			"GET /v1/status/{id}":   "Check approval status",
			"POST /v1/approve/{id}": "Approve/reject operational request",
			"GET /health":           "Health check",
		},
	})
}

func validateRequest(request *model.Request) (string, bool) {
	switch {
	case request.UserID == "":
		return "userId is required", false
	case request.Query == "":
		return "query is required", false
	}
	return "", true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
