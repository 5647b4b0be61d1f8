package server

import (
	"net/http"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
	"go.uber.org/zap"
)

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.tokens.Validate(auth.BearerToken(r.Header.Get("Authorization")))
		if err != nil {
			s.logger.Debug("Rejected request", zap.String("path", r.URL.Path), zap.Error(err))
			w.Header().Set("WWW-Authenticate", `Bearer realm="agrimove"`)
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}

// requireRole lets only callers holding role through.
func requireRole(role store.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.FromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if claims.Role != role {
			respondError(w, http.StatusForbidden, "Only "+string(role)+" accounts can do this")
			return
		}
		next(w, r)
	}
}

func callerFrom(r *http.Request) *auth.Claims {
	claims, _ := auth.FromContext(r.Context())
	return claims
}
