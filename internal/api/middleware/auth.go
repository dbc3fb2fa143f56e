package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ChargingService/internal/api/handlers"
)

// UserIDHeader заголовок с идентификатором пользователя, выставляется API gateway
const UserIDHeader = "X-User-ID"

const msgMissingUser = "не указан пользователь (заголовок X-User-ID)"

type ctxKey struct{}

// Auth требует заголовок X-User-ID и кладет его значение в контекст.
// Подлинность идентификатора не проверяется: это делает gateway.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			handlers.RespondUnauthorized(w, msgMissingUser)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID кладет идентификатор пользователя в контекст
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext идентификатор пользователя, положенный Auth
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ctxKey{}).(string)
	return userID, ok && userID != ""
}
