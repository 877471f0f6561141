package middleware

import "context"

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxUsername contextKey = "username"
	ctxAccessID contextKey = "access_id"
)

// Identity is what a validated bearer token tells handlers about the caller.
type Identity struct {
	UserID   int64
	Username string
	AccessID string
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(ctxUserID).(int64)
	if !ok {
		return Identity{}, false
	}
	username, _ := ctx.Value(ctxUsername).(string)
	accessID, _ := ctx.Value(ctxAccessID).(string)
	return Identity{UserID: id, Username: username, AccessID: accessID}, true
}

// WithIdentity injects the caller identity into the context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, identity.UserID)
	ctx = context.WithValue(ctx, ctxUsername, identity.Username)
	return context.WithValue(ctx, ctxAccessID, identity.AccessID)
}
