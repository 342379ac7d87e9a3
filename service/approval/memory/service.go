package memory

import (
	"context"
	"sort"
	"time"

	"github.com/viant/opsgate/internal/clock"
	approval "github.com/viant/opsgate/service/approval"
	"github.com/viant/opsgate/service/dao"
	"github.com/viant/opsgate/service/dao/store"
	"github.com/viant/opsgate/service/messaging"
	qmem "github.com/viant/opsgate/service/messaging/memory"
)

type service struct {
	config   approval.Config
	requests dao.Atomic[string, approval.Request]
	events   messaging.Queue[approval.Event]
	notifier approval.Notifier
	now      func() time.Time
}

// key selector – grab the request id
func requestKey(r *approval.Request) string { return r.RequestID }

// New creates an in-memory approval service with the default policy table.
func New(options ...Option) approval.Service {
	ret := &service{
		config:   approval.DefaultConfig(),
		requests: store.NewMemoryStore[string, approval.Request](requestKey),
		events:   qmem.NewQueue[approval.Event](qmem.DefaultConfig()),
		now:      clock.Now,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *service) Create(ctx context.Context, input *approval.CreateInput) (*approval.Request, error) {
	if input == nil || input.RequestID == "" {
		return nil, dao.ErrInvalidID
	}
	policy := s.config.PolicyFor(input.RiskLevel)
	if !policy.Required {
		return nil, nil
	}
	// idempotent create – a concurrent or repeated submission of the same
	// operational request yields the already opened approval request
	if existing, err := s.requests.Load(ctx, input.RequestID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing.Clone(), nil
	}

	now := s.now()
	request := &approval.Request{
		RequestID:        input.RequestID,
		OperationSummary: input.OperationSummary,
		RiskLevel:        input.RiskLevel,
		Requester:        input.Requester,
		Approvers:        s.config.EligibleApprovers(input.RiskLevel, input.Environment),
		ApproversNeeded:  policy.ApproversNeeded,
		Status:           approval.StatusPending,
		CreatedAt:        now,
		ExpiresAt:        now.Add(policy.Timeout()),
	}
	swapped, err := s.requests.CompareAndSwap(ctx, request.RequestID, nil, request)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// lost a creation race; surface the winner
		existing, err := s.requests.Load(ctx, input.RequestID)
		if err != nil || existing == nil {
			return nil, err
		}
		return existing.Clone(), nil
	}
	s.notify(ctx, &approval.Event{Topic: approval.TopicRequestCreated, Request: request.Clone()})
	return request.Clone(), nil
}

func (s *service) CheckStatus(ctx context.Context, requestID string) (*approval.Request, error) {
	if requestID == "" {
		return nil, dao.ErrInvalidID
	}
	for {
		current, err := s.requests.Load(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, dao.ErrNotFound
		}
		if current.Status != approval.StatusPending || !s.now().After(current.ExpiresAt) {
			return current.Clone(), nil
		}
		expired, err := s.expire(ctx, current)
		if err != nil {
			return nil, err
		}
		if expired != nil {
			return expired.Clone(), nil
		}
		// lost an expiry/decision race, re-read
	}
}

func (s *service) Approve(ctx context.Context, requestID, approver, comment string) (bool, error) {
	return s.decide(ctx, requestID, approver, comment, true)
}

func (s *service) Reject(ctx context.Context, requestID, approver, reason string) (bool, error) {
	return s.decide(ctx, requestID, approver, reason, false)
}

func (s *service) decide(ctx context.Context, requestID, approver, comment string, approve bool) (bool, error) {
	if requestID == "" {
		return false, dao.ErrInvalidID
	}
	for {
		current, err := s.requests.Load(ctx, requestID)
		if err != nil {
			return false, err
		}
		if current == nil {
			return false, dao.ErrNotFound
		}
		if current.Status != approval.StatusPending {
			return false, nil
		}
		if s.now().After(current.ExpiresAt) {
			// expiry is finalized as a side effect of the attempted decision
			if _, err := s.expire(ctx, current); err != nil {
				return false, err
			}
			return false, nil
		}
		if !current.Eligible(approver) {
			return false, nil
		}

		next := current.Clone()
		decision := approval.StatusRejected
		if approve {
			approvedAt := s.now()
			next.Status = approval.StatusApproved
			next.ApprovedBy = approver
			next.ApprovedAt = &approvedAt
			decision = approval.StatusApproved
		} else {
			next.Status = approval.StatusRejected
			next.RejectionReason = comment
		}
		swapped, err := s.requests.CompareAndSwap(ctx, requestID, current, next)
		if err != nil {
			return false, err
		}
		if swapped {
			s.notify(ctx, &approval.Event{
				Topic:    approval.TopicDecisionCreated,
				Request:  next.Clone(),
				Decision: string(decision),
				Comment:  comment,
			})
			return true, nil
		}
		// another decision raced ahead, re-evaluate against its outcome
	}
}

func (s *service) Cancel(ctx context.Context, requestID, requester string) (bool, error) {
	if requestID == "" {
		return false, dao.ErrInvalidID
	}
	for {
		current, err := s.requests.Load(ctx, requestID)
		if err != nil {
			return false, err
		}
		if current == nil {
			return false, dao.ErrNotFound
		}
		if current.Status != approval.StatusPending || current.Requester != requester {
			return false, nil
		}
		next := current.Clone()
		next.Status = approval.StatusCancelled
		swapped, err := s.requests.CompareAndSwap(ctx, requestID, current, next)
		if err != nil {
			return false, err
		}
		if swapped {
			s.notify(ctx, &approval.Event{
				Topic:    approval.TopicRequestCancelled,
				Request:  next.Clone(),
				Decision: string(approval.StatusCancelled),
			})
			return true, nil
		}
	}
}

func (s *service) ListPending(ctx context.Context, approver string) ([]*approval.Request, error) {
	all, err := s.requests.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	pending := make([]*approval.Request, 0, len(all))
	for _, request := range all {
		if request.Status != approval.StatusPending || now.After(request.ExpiresAt) {
			continue
		}
		if !request.Eligible(approver) {
			continue
		}
		pending = append(pending, request.Clone())
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].ExpiresAt.Before(pending[j].ExpiresAt)
	})
	return pending, nil
}

func (s *service) Queue() messaging.Queue[approval.Event] { return s.events }

// expire flips a PENDING request past its deadline to EXPIRED. It returns the
// expired record, or nil when another transition won the race.
func (s *service) expire(ctx context.Context, current *approval.Request) (*approval.Request, error) {
	next := current.Clone()
	next.Status = approval.StatusExpired
	swapped, err := s.requests.CompareAndSwap(ctx, current.RequestID, current, next)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, nil
	}
	s.notify(ctx, &approval.Event{Topic: approval.TopicRequestExpired, Request: next.Clone()})
	return next, nil
}

// notify is fire-and-forget: event delivery never fails an approval decision.
func (s *service) notify(ctx context.Context, event *approval.Event) {
	event.CreatedAt = s.now()
	_ = s.events.Publish(ctx, event)
	if s.notifier != nil {
		s.notifier(ctx, event)
	}
}

var _ approval.Service = (*service)(nil)
