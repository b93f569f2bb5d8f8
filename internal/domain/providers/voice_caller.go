package providers

import "context"

// VoiceCaller places outbound voice calls that speak a short message. Used by
// the escalation path; failures are logged by the caller's consumers, never
// propagated to the request.
type VoiceCaller interface {
	// PlaceCall dials `to` and speaks `message`, returning the provider call ID.
	PlaceCall(ctx context.Context, to, message string) (string, error)
}
