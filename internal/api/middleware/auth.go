package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/auth"
)

const (
	msgMissingToken = "authentication required"
	msgInvalidToken = "invalid or expired token"
)

type actorKey struct{}

// TokenVerifier checks a bearer token
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth requires "Authorization: Bearer <token>" and stores the caller in the context
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			claims, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			actor := domain.Actor{UserID: claims.UserID, Role: domain.Role(claims.Role)}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor caller stored by Auth
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

// GetUserID id of the authenticated caller
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	return actor.UserID, ok
}
