package middleware

import (
	"context"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// RoleSource отдает роль пользователя
type RoleSource interface {
	GetRole(ctx context.Context, id int64) (domain.UserRole, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RequireRole пропускает только пользователей с одной из перечисленных ролей.
// Вешается после Auth. Незарегистрированный пользователь получает 403.
func RequireRole(roles RoleSource, logger Logger, allowed ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserID(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, "требуется заголовок X-User-ID")
				return
			}

			role, err := roles.GetRole(r.Context(), userID)
			if err != nil {
				logger.Warn("rbac: failed to get role for user=%d: %v", userID, err)
				handlers.RespondForbidden(w, "доступ запрещен")
				return
			}

			for _, a := range allowed {
				if role == a {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("rbac: user=%d with role=%s denied access to %s %s",
				userID, role, r.Method, r.URL.Path)
			handlers.RespondForbidden(w, "доступ запрещен")
		})
	}
}
