package auth

import (
	"context"
	"net/http"

	"ms-storefront/internal/utils"
)

// SessionLookup resolves a session id to the caller's token and user id.
type SessionLookup interface {
	Resolve(ctx context.Context, sessionID string) (token, userID string, ok bool)
}

func unauthorized(w http.ResponseWriter, msg string) {
	utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Faça login para continuar.", msg))
}

// Middleware rejects requests without a live storefront session and stores the
// session id, token and user id in the request context.
func Middleware(sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := ExtractSessionID(r)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}

			token, userID, ok := sessions.Resolve(r.Context(), sessionID)
			if !ok {
				unauthorized(w, "session not found or expired")
				return
			}

			ctx := WithSessionID(r.Context(), sessionID)
			ctx = WithToken(ctx, token)
			ctx = WithUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
