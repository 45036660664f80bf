package testutil

import (
	"context"

	"github.com/upassistify/upassistify/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}

// WithUser returns a context carrying the given authenticated user
func WithUser(ctx context.Context, userID, email string) context.Context {
	ctx = types.SetUserID(ctx, userID)
	return types.SetUserEmail(ctx, email)
}
