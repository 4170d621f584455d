package middleware

import "context"

type contextKey string

const ctxGroupID contextKey = "consumer_group_id"

// GroupIDFromContext returns the consumer group resolved by GroupContext.
func GroupIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxGroupID).(string); ok {
		return v
	}
	return ""
}

// WithGroupID injects the consumer group identifier into the context for downstream handlers.
func WithGroupID(ctx context.Context, groupID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxGroupID, groupID)
}
