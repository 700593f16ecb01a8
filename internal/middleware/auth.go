package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/naufalaufa/zipal-app/internal/auth"
	"github.com/naufalaufa/zipal-app/internal/httputil"
	"github.com/naufalaufa/zipal-app/internal/logger"
	"github.com/naufalaufa/zipal-app/internal/models"
	"github.com/naufalaufa/zipal-app/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contextKey int

const claimsContextKey contextKey = 0

// ClaimsFromContext returns the verified token identity set by Authenticated.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}

// Authenticated rejects requests without a valid bearer access token. A
// missing token and an invalid/expired one are reported with distinct codes
// so clients can tell "log in" from "refresh and retry".
func Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeTokenMissing, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeTokenMissing, "invalid authorization header")
			return
		}

		claims, err := auth.VerifyAccess(parts[1])
		if err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeTokenInvalid, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly gates a route on the caller's current persisted role. The role
// claim inside a long-lived token may be stale, so the user row is re-read
// on every privileged request.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeTokenMissing, "not authenticated")
			return
		}

		var user models.User
		if err := store.DB.First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httputil.WriteError(w, http.StatusForbidden, httputil.CodeForbidden, "account no longer exists")
				return
			}
			logger.Log.Error("failed to re-read caller role", zap.Error(err))
			httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to verify role")
			return
		}
		if user.Role != models.RoleAdmin {
			httputil.WriteError(w, http.StatusForbidden, httputil.CodeForbidden, "admin role required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
