package memory

import (
	"time"

	approval "github.com/viant/opsgate/service/approval"
	"github.com/viant/opsgate/service/dao"
	"github.com/viant/opsgate/service/messaging"
)

type Option func(*service)

// WithConfig replaces the default approval policy table.
func WithConfig(config approval.Config) Option {
	return func(s *service) { s.config = config }
}

// WithStore swaps the request store, e.g. for a durable implementation.
func WithStore(requests dao.Atomic[string, approval.Request]) Option {
	return func(s *service) { s.requests = requests }
}

// WithQueue attaches an externally owned event queue so that several
// components can share one notification stream.
func WithQueue(queue messaging.Queue[approval.Event]) Option {
	return func(s *service) { s.events = queue }
}

// WithNotifier injects a delivery capability invoked on every lifecycle
// transition, in addition to the event queue.
func WithNotifier(notifier approval.Notifier) Option {
	return func(s *service) { s.notifier = notifier }
}

// WithClock overrides the wall-clock source, used by tests to control expiry.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}
