package opsgate

import (
	"context"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/opsgate/internal/clock"
	"github.com/viant/opsgate/model"
	"github.com/viant/opsgate/service/approval"
	amemory "github.com/viant/opsgate/service/approval/memory"
	"github.com/viant/opsgate/service/meta"
	"github.com/viant/opsgate/service/policy"
	"github.com/viant/opsgate/service/risk"
	"github.com/viant/opsgate/tracing"
)

// Service is the decision orchestrator: it sequences risk assessment, policy
// validation and – when the assessment demands it – approval-request creation,
// and assembles the final decision record returned to the caller.
type Service struct {
	config           *Config
	riskEngine       *risk.Engine
	validator        *policy.Validator
	approvalService  approval.Service
	notifier         approval.Notifier
	endpointRegistry policy.EndpointRegistry
	metaService      *meta.Service
	metaBaseURL      string
	metaFsOptions    []storage.Option
	configURI        string
	now              func() time.Time
}

// New creates a fully wired decision service. Omitted collaborators default
// to: built-in config tables, in-memory approval store, process clock.
func New(options ...Option) (*Service, error) {
	ret := &Service{now: clock.Now}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init() error {
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.config == nil {
		if s.configURI != "" {
			config, err := LoadConfig(context.Background(), s.metaService, s.configURI)
			if err != nil {
				return err
			}
			s.config = config
		} else {
			s.config = DefaultConfig()
		}
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.riskEngine == nil {
		s.riskEngine = risk.New(risk.WithConfig(s.config.Risk), risk.WithClock(s.now))
	}
	if s.validator == nil {
		validatorOptions := []policy.Option{policy.WithConfig(s.config.Policy), policy.WithClock(s.now)}
		if s.endpointRegistry != nil {
			validatorOptions = append(validatorOptions, policy.WithEndpointRegistry(s.endpointRegistry))
		}
		s.validator = policy.New(validatorOptions...)
	}
	if s.approvalService == nil {
		approvalOptions := []amemory.Option{
			amemory.WithConfig(s.config.Approval),
			amemory.WithClock(s.now),
		}
		if s.notifier != nil {
			approvalOptions = append(approvalOptions, amemory.WithNotifier(s.notifier))
		}
		s.approvalService = amemory.New(approvalOptions...)
	}
	return nil
}

// Decide runs the decision pipeline for one operational request. Policy
// denial short-circuits before any approval state is created; advisory
// warnings never block.
func (s *Service) Decide(ctx context.Context, request *model.Request, classification *model.Classification) (*model.Decision, error) {
	ctx, span := tracing.StartSpan(ctx, "decision.decide", "INTERNAL")
	span.WithAttributes(map[string]string{
		"requestId":   request.RequestID,
		"environment": request.Environment,
		"taskId":      classification.TaskID,
	})
	decision, err := s.decide(ctx, request, classification)
	tracing.EndSpan(span, err)
	return decision, err
}

func (s *Service) decide(ctx context.Context, request *model.Request, classification *model.Classification) (*model.Decision, error) {
	_, riskSpan := tracing.StartSpan(ctx, "decision.assessRisk", "INTERNAL")
	assessment := s.riskEngine.Assess(request, classification)
	riskSpan.WithAttributes(map[string]string{"riskLevel": string(assessment.RiskLevel)})
	tracing.EndSpan(riskSpan, nil)

	_, policySpan := tracing.StartSpan(ctx, "decision.validatePolicy", "INTERNAL")
	validation := s.validator.ValidateRequest(request, classification, assessment)
	tracing.EndSpan(policySpan, nil)

	decision := &model.Decision{
		RequestID:      request.RequestID,
		Request:        request,
		Classification: classification,
		Risk:           assessment,
		Policy:         validation,
		Approval:       &model.ApprovalInfo{Required: false},
		CreatedAt:      s.now(),
	}

	if !validation.Allowed {
		decision.Status = model.StatusDenied
		return decision, nil
	}

	decision.Status = model.StatusReadyForExecution
	if !assessment.RequiresApproval {
		return decision, nil
	}

	approvalCtx, approvalSpan := tracing.StartSpan(ctx, "decision.requestApproval", "INTERNAL")
	approvalRequest, err := s.approvalService.Create(approvalCtx, &approval.CreateInput{
		RequestID:        request.RequestID,
		OperationSummary: request.Query,
		RiskLevel:        assessment.RiskLevel,
		Requester:        request.UserID,
		Environment:      request.Environment,
	})
	tracing.EndSpan(approvalSpan, err)
	if err != nil {
		return nil, err
	}
	if approvalRequest != nil {
		expiresAt := approvalRequest.ExpiresAt
		decision.Status = model.StatusAwaitingApproval
		decision.Approval = &model.ApprovalInfo{
			Required:  true,
			RequestID: approvalRequest.RequestID,
			Status:    string(approvalRequest.Status),
			ExpiresAt: &expiresAt,
			Approvers: approvalRequest.Approvers,
		}
	}
	return decision, nil
}

// ValidatePlan checks a generated operational plan against policy.
func (s *Service) ValidatePlan(ctx context.Context, plan *model.Plan, request *model.Request) *model.PolicyValidationResult {
	_, span := tracing.StartSpan(ctx, "decision.validatePlan", "INTERNAL")
	result := s.validator.ValidatePlan(plan, request)
	tracing.EndSpan(span, nil)
	return result
}

// CheckStatus returns the approval request for an operational request id.
func (s *Service) CheckStatus(ctx context.Context, requestID string) (*approval.Request, error) {
	return s.approvalService.CheckStatus(ctx, requestID)
}

// Approve records an approval decision on behalf of approver.
func (s *Service) Approve(ctx context.Context, requestID, approver, comment string) (bool, error) {
	return s.approvalService.Approve(ctx, requestID, approver, comment)
}

// Reject records a rejection on behalf of approver.
func (s *Service) Reject(ctx context.Context, requestID, approver, reason string) (bool, error) {
	return s.approvalService.Reject(ctx, requestID, approver, reason)
}

// Cancel withdraws a pending approval request on behalf of its requester.
func (s *Service) Cancel(ctx context.Context, requestID, requester string) (bool, error) {
	return s.approvalService.Cancel(ctx, requestID, requester)
}

// ListPending lists the pending approval requests visible to approver.
func (s *Service) ListPending(ctx context.Context, approver string) ([]*approval.Request, error) {
	return s.approvalService.ListPending(ctx, approver)
}

// Approvals exposes the underlying approval service.
func (s *Service) Approvals() approval.Service { return s.approvalService }

// Config returns the effective configuration.
func (s *Service) Config() *Config { return s.config }
