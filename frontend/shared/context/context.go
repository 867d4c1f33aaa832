package context

import (
	"context"

	"verifyimage/infrastructure/session"
)

type sessionKey struct{}

func NewContextWithSession(ctx context.Context, h *session.Handle) context.Context {
	return context.WithValue(ctx, sessionKey{}, h)
}

func GetSessionFromContext(ctx context.Context) (*session.Handle, bool) {
	h, ok := ctx.Value(sessionKey{}).(*session.Handle)
	return h, ok && h != nil
}
