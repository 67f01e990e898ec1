package llm

import "context"

type purposeKey struct{}

// PurposeInsight labels dashboard narrative calls.
const PurposeInsight = "insight"

// WithPurpose tags ctx so recorded events can be grouped by caller.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
