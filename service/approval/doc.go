// Package approval implements the human-in-the-loop approval layer of the
// decision pipeline. Risky operations are paused behind a time-bounded
// approval request until an eligible approver records an explicit approve or
// reject decision, or the request expires.
package approval
