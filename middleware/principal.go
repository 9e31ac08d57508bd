// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/luxfi/ids"

	"github.com/danielhkuo/quickly-ballot/auth"
	"github.com/danielhkuo/quickly-ballot/models"
)

var ErrMissingPrincipal = errors.New(models.HeaderPrincipalToken + " header required")

type principalKey struct{}

// PrincipalFromRequest derives the caller's principal ID from the token header
func PrincipalFromRequest(r *http.Request, salt string) (ids.ShortID, error) {
	token := r.Header.Get(models.HeaderPrincipalToken)
	if token == "" {
		return ids.ShortEmpty, ErrMissingPrincipal
	}
	return auth.DerivePrincipalID(token, salt)
}

// RequirePrincipal rejects requests without a valid principal token and
// stores the caller's principal ID in the request context.
func RequirePrincipal(salt string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := PrincipalFromRequest(r, salt)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}
		next(w, r.WithContext(WithPrincipal(r.Context(), id)))
	}
}

// WithPrincipal returns a copy of ctx carrying the caller's principal ID
func WithPrincipal(ctx context.Context, id ids.ShortID) context.Context {
	return context.WithValue(ctx, principalKey{}, id)
}

// Principal returns the caller stored by RequirePrincipal
func Principal(ctx context.Context) (ids.ShortID, bool) {
	id, ok := ctx.Value(principalKey{}).(ids.ShortID)
	return id, ok
}
