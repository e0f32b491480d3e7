package middleware

import (
	"context"
	"dhrubfoundation/internal/config"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type ContextKey string

const (
	ContextAdminID   ContextKey = "admin_id"
	ContextRole      ContextKey = "role"
	ContextRequestID ContextKey = "request_id"
)

type AdminReader interface {
	GetAdminByID(ctx context.Context, id int) (*models.Admin, error)
}

// JWTAuth проверяет access-токен и кладёт admin_id/role в контекст.
// Роль берём из БД, а не из claims: отключённый или пониженный в роли
// админ теряет доступ сразу, не дожидаясь истечения токена.
func JWTAuth(admins AdminReader, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		cfg, _ := config.LoadConfig()
		authHeader := r.Header.Get("Authorization")

		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует access token")
			http.Error(w, "Отсутствует access token", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен", zap.Error(err))
			http.Error(w, "Неверный или просроченный токен", http.StatusUnauthorized)
			return
		}

		if tt, _ := claims["token_type"].(string); tt != "access" {
			logger.WithCtx(r.Context()).Warn("JWTAuth: токен не является access-токеном")
			http.Error(w, "Неверный или просроченный токен", http.StatusUnauthorized)
			return
		}

		adminID, ok := claims["admin_id"].(float64)
		if !ok {
			logger.WithCtx(r.Context()).Warn("JWTAuth: недопустимый payload", zap.Any("claims", claims))
			http.Error(w, "Недопустимый payload", http.StatusUnauthorized)
			return
		}

		admin, err := admins.GetAdminByID(r.Context(), int(adminID))
		if err != nil || admin == nil {
			logger.WithCtx(r.Context()).Warn("JWTAuth: админ не найден", zap.Int("admin_id", int(adminID)))
			http.Error(w, "Неверный или просроченный токен", http.StatusUnauthorized)
			return
		}
		if !admin.IsActive {
			logger.WithCtx(r.Context()).Warn("JWTAuth: учётка отключена", zap.Int("admin_id", admin.ID))
			http.Error(w, "Учётная запись отключена", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextAdminID, admin.ID)
		ctx = context.WithValue(ctx, ContextRole, admin.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func AdminIDFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(ContextAdminID).(int)
	return v, ok
}

func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextRole).(string)
	return v, ok
}
