package server

import (
	"context"
	"net/http"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "session_token"

type contextKey string

const userIDKey contextKey = "userID"

// resolveSession extracts and verifies the session cookie. It returns 0 when
// the request carries no valid session.
func (s *Server) resolveSession(r *http.Request) uint {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return 0
	}
	userID, err := s.authService.VerifySession(cookie.Value)
	if err != nil {
		return 0
	}
	return userID
}

// requireSession guards API routes: requests without a valid session cookie
// get a 401 JSON body, never a redirect.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := s.resolveSession(r)
		if userID == 0 {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ownerFromContext returns the user id requireSession stored. Handlers behind
// the middleware may assume it is set.
func ownerFromContext(ctx context.Context) uint {
	userID, _ := ctx.Value(userIDKey).(uint)
	return userID
}
