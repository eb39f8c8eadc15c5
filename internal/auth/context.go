package auth

import (
	"context"
	"errors"
)

type ctxKey int

const (
	ctxIdentity ctxKey = iota
	ctxBearer
)

// WithIdentity stores the verified identity and the raw bearer token in ctx.
// The raw token is kept so upstream calls can forward the caller's credential.
func WithIdentity(ctx context.Context, id Identity, bearer string) context.Context {
	ctx = context.WithValue(ctx, ctxIdentity, id)
	ctx = context.WithValue(ctx, ctxBearer, bearer)
	return ctx
}

func IdentityFrom(ctx context.Context) (Identity, error) {
	if id, ok := ctx.Value(ctxIdentity).(Identity); ok && id.ID != "" {
		return id, nil
	}
	return Identity{}, errors.New("identity not in context")
}

func BearerFrom(ctx context.Context) (string, error) {
	if s, ok := ctx.Value(ctxBearer).(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("bearer token not in context")
}

func Role(ctx context.Context) (string, error) {
	id, err := IdentityFrom(ctx)
	if err != nil {
		return "", err
	}
	if id.Role == "" {
		return "", errors.New("role not in context")
	}
	return id.Role, nil
}
