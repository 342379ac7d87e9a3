package approval

import (
	"context"
	"time"
)

// DecisionFunc decides what to do with a pending request.
// Return (true,  "") to approve
//
//	(false, "…") to reject with reason.
type DecisionFunc func(r *Request) (approved bool, reason string)

// AutoDecider starts a goroutine that polls ListPending for the given
// approver and applies fn to every request. It returns stop() – call it (or
// cancel ctx) to exit. Intended for automation and tests; production
// deployments route decisions through a human channel instead.
func AutoDecider(ctx context.Context,
	svc Service,
	approver string,
	fn DecisionFunc,
	interval time.Duration) (stop func()) {

	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				requests, _ := svc.ListPending(ctx, approver)
				for _, request := range requests {
					if ok, reason := fn(request); ok {
						_, _ = svc.Approve(ctx, request.RequestID, approver, "")
					} else {
						_, _ = svc.Reject(ctx, request.RequestID, approver, reason)
					}
				}
			}
		}
	}()
	return func() { close(done) }
}

// AutoApprove automatically approves all pending requests visible to approver.
func AutoApprove(ctx context.Context, svc Service, approver string, interval time.Duration) func() {
	return AutoDecider(ctx, svc, approver,
		func(*Request) (bool, string) { return true, "" }, interval)
}

// AutoReject automatically rejects all pending requests visible to approver
// with the given reason.
func AutoReject(ctx context.Context, svc Service, approver string, reason string, interval time.Duration) func() {
	return AutoDecider(ctx, svc, approver,
		func(*Request) (bool, string) { return false, reason }, interval)
}
