package middleware

import (
	"context"
	"net/http"
	"strings"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
)

// Resolver maps the token's email claim to the current employee record.
// *employee.Service satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, email string) (employee.Employee, error)
}

// Auth parses the bearer token and resolves its email claim against the
// directory on every request, so role and manager changes take effect
// immediately rather than at next login. Requests without a valid token pass
// through unauthenticated; handlers decide what requires a user.
func Auth(secret string, resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.Resolve(r.Context(), claims.Email)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
