package session

import "context"

// Invalidator drops cached resources owned by a token.
type Invalidator interface {
	Invalidate(ctx context.Context, token string, resources ...string) error
}

// Session carries the bearer token of one signed-in customer and the cache
// invalidation hook scoped to it.
type Session struct {
	Token string
	cache Invalidator
}

func New(token string, cache Invalidator) Session {
	return Session{Token: token, cache: cache}
}

func (s Session) Authenticated() bool { return s.Token != "" }

// Invalidate drops the given resources for this session's token. It is a
// no-op without a cache.
func (s Session) Invalidate(ctx context.Context, resources ...string) error {
	if s.cache == nil || s.Token == "" {
		return nil
	}
	return s.cache.Invalidate(ctx, s.Token, resources...)
}

type ctxKey struct{}

func WithContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok && s.Authenticated()
}
