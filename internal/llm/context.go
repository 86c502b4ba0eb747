package llm

import "context"

// PurposeUnknown labels requests made without WithPurpose.
const PurposeUnknown = "unknown"

type purposeKey struct{}

// WithPurpose labels every request made with ctx, for example "lesson" or
// "chat". The label is stored on llm_request_events and used by
// `linguo llm stats`. An empty purpose leaves ctx unchanged.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	if purpose == "" {
		return ctx
	}
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return PurposeUnknown
}
