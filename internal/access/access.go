// Package access holds every role and ownership rule in the portal.
package access

import (
	"context"
	"net/http"
	"slices"

	"asceta/portal/internal/apperr"
	"asceta/portal/internal/model"
)

type Role = model.Role

var (
	Staff     = []Role{model.RoleLecturer, model.RoleAdmin}
	AdminOnly = []Role{model.RoleAdmin}
)

func RequireRole(account model.Account, allowed ...Role) error {
	if slices.Contains(allowed, account.Role) {
		return nil
	}
	return apperr.ErrForbidden
}

// RequireOwnerOrRole allows the resource owner or any holder of an allowed role.
func RequireOwnerOrRole(account model.Account, ownerID string, allowed ...Role) error {
	if account.ID != "" && account.ID == ownerID {
		return nil
	}
	return RequireRole(account, allowed...)
}

type accountKey struct{}

func WithAccount(ctx context.Context, account model.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, account)
}

func AccountFrom(ctx context.Context) (model.Account, bool) {
	account, ok := ctx.Value(accountKey{}).(model.Account)
	return account, ok
}

// Middleware rejects requests whose authenticated account lacks an allowed
// role. It must run after authentication has stored the account.
func Middleware(deny func(http.ResponseWriter, *http.Request, error), allowed ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, ok := AccountFrom(r.Context())
			if !ok {
				deny(w, r, apperr.ErrUnauthenticated)
				return
			}
			if err := RequireRole(account, allowed...); err != nil {
				deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
