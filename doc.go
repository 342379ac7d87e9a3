// Package opsgate decides whether an already-classified operational request
// may proceed: how risky it is, whether it complies with organisational and
// environment policy, and whether human approval must be obtained first.
//
// The pipeline is composed of three layers:
//
//   - risk      – weighted multi-factor risk scoring
//   - policy    – organisational/environment policy validation
//   - approval  – time-bounded, multi-party approval workflow
//
// Opsgate is designed to be embedded in host applications.  End-users
// typically interact via the high-level Service façade exposed by the root
// package:
//
//	srv, _ := opsgate.New()
//	decision, _ := srv.Decide(ctx, request, classification)
//	if decision.Status == model.StatusAwaitingApproval {
//		ok, _ := srv.Approve(ctx, request.RequestID, "ops_manager", "verified")
//		_ = ok
//	}
//
// Classification, plan generation, notification delivery and durable storage
// are external collaborators – opsgate consumes their outputs and exposes
// injection points for them, but does not implement them.
package opsgate
