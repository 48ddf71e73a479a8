package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth"

	"github.com/soniclabel/media-admin/pkg/mediaadmin"
)

type contextKey string

const principalKey contextKey = "principal"

// PrincipalResolver turns verified JWT claims into an explicit
// Principal and stores it on the request context. Requests without a
// valid token proceed with no principal; the service fails those closed
// on its own capability check.
func PrincipalResolver(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || claims == nil {
			next.ServeHTTP(w, r)
			return
		}

		p := &mediaadmin.Principal{}
		if sub, ok := claims["sub"].(string); ok {
			p.UserID = sub
		}
		if role, ok := claims["role"].(string); ok {
			p.Role = mediaadmin.Role(role)
		}

		ctx := context.WithValue(r.Context(), principalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFromContext returns the request's principal, or nil when the
// caller presented no valid session.
func PrincipalFromContext(ctx context.Context) *mediaadmin.Principal {
	p, _ := ctx.Value(principalKey).(*mediaadmin.Principal)
	return p
}
