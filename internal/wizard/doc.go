// Package wizard drives the three-step sign creation flow.
//
// The flow moves one step at a time between brand name, owner info and
// review. Moving forward is guarded by a per-step completeness check on the
// draft; moving back is always allowed and is a no-op at the first step.
// Submission happens only from the review step, only for an authenticated
// session, and only one at a time. A successful submission clears the draft
// and schedules navigation to the sign listing; a failed one keeps the draft
// so the user can retry.
package wizard
