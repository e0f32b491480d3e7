package reqctx

import "context"

type key int

const (
	keyRequestID key = iota
	keyAdminID
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok
}

func WithAdminID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, keyAdminID, id)
}

func GetAdminID(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(keyAdminID).(int)
	return v, ok
}
