package middleware

import (
	"context"
	"dhrubfoundation/internal/reqctx"
	"net/http"

	"github.com/google/uuid"
)

// RequestID присваивает каждому запросу uuid и кладёт его в оба
// контекстных ключа: наш (для logger.WithCtx) и middleware-ключ.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), ContextRequestID, rid)
		ctx = reqctx.WithRequestID(ctx, rid)

		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
