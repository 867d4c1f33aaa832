package session

import "context"

// Handle is the session bound to the current request.
type Handle struct {
	store *Store
	token string
}

func NewHandle(store *Store, token string) *Handle {
	return &Handle{store: store, token: token}
}

// Token returns the cookie token the handle is bound to.
func (h *Handle) Token() string {
	return h.token
}

func (h *Handle) Get(ctx context.Context, key string) (string, bool, error) {
	return h.store.Get(ctx, h.token, key)
}

func (h *Handle) Set(ctx context.Context, key, value string) error {
	return h.store.Set(ctx, h.token, key, value)
}
