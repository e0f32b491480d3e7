package middleware

import (
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/permissions"
	"net/http"

	"go.uber.org/zap"
)

// RequireCapability — единственная точка, где admin-операция проходит
// через Permission Gate. Должен стоять ПОСЛЕ JWTAuth, чтобы роль уже
// была в контексте. Отказ — 403 с сообщением, не жёсткий fault.
func RequireCapability(cap permissions.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleStr, ok := RoleFromContext(r.Context())
			if !ok {
				http.Error(w, "Не удалось определить роль", http.StatusForbidden)
				return
			}

			role, ok := permissions.ParseRole(roleStr)
			if !ok || !permissions.Allowed(role, cap) {
				logger.WithCtx(r.Context()).Warn("Доступ запрещён",
					zap.String("role", roleStr),
					zap.String("capability", string(cap)),
					zap.String("path", r.URL.Path),
				)
				http.Error(w, "Доступ запрещён", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
