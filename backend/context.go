package backend

import "context"

type tokenKey struct{}

// WithToken returns a context carrying the bearer credential for subsequent
// backend calls. Request middleware and session-bound background flows both
// inject the token this way so a single shared client can serve every caller.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext extracts the bearer credential, if any.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// ContextCredentials resolves the credential from the call context.
type ContextCredentials struct{}

func (ContextCredentials) Token(ctx context.Context) (string, error) {
	token, ok := TokenFromContext(ctx)
	if !ok {
		return "", ErrNoCredential
	}
	return token, nil
}
