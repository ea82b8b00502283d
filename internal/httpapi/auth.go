package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/bundlecore/signer-core/internal/signertypes"
)

type contextKey int

const moduleIDContextKey contextKey = 0

// ModuleIDFromContext returns the caller module resolved by jwtAuth.
func ModuleIDFromContext(ctx context.Context) (signertypes.ModuleID, bool) {
	id, ok := ctx.Value(moduleIDContextKey).(signertypes.ModuleID)
	return id, ok
}

// jwtAuth resolves "Authorization: Bearer <token>" against the
// module-token map and attaches the resolved module identity to the
// request context. A missing or unrecognized token is rejected with
// 401 before the wrapped handler ever runs.
func (s *Server) jwtAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(w, r, signertypes.ErrUnauthorized())
			return
		}

		moduleID, ok := s.tokens[token]
		if !ok {
			s.writeError(w, r, signertypes.ErrUnauthorized())
			return
		}

		ctx := context.WithValue(r.Context(), moduleIDContextKey, moduleID)
		next(w, r.WithContext(ctx))
	}
}
