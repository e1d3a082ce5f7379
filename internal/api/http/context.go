package http

import (
	"context"

	"rentdesk-backend/internal/domain"
)

type principalKey struct{}

// withPrincipal stores the authenticated principal for downstream handlers.
func withPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the principal placed by the auth middleware.
func PrincipalFromContext(ctx context.Context) (domain.Principal, error) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	if !ok || !p.Valid() {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}
