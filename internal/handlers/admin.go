package handlers

import (
	"net/http"
	"time"

	"github.com/naufalaufa/zipal-app/internal/httputil"
	"github.com/naufalaufa/zipal-app/internal/logger"
	"github.com/naufalaufa/zipal-app/internal/seed"
	"github.com/naufalaufa/zipal-app/internal/store"
	"go.uber.org/zap"
)

type ActivityLogRow struct {
	ID       uint64    `json:"id"`
	UserID   uint64    `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	LoginAt  time.Time `json:"login_at"`
	Avatar   string    `json:"avatar"`
}

// ActivityLogsHandler returns the login audit trail joined with each user's
// current avatar, newest first. Admin gating happens in the route middleware.
func ActivityLogsHandler(w http.ResponseWriter, r *http.Request) {
	var rows []ActivityLogRow
	err := store.DB.
		Table("login_activities").
		Select("login_activities.id, login_activities.user_id, login_activities.username, login_activities.role, login_activities.login_at, users.avatar").
		Joins("LEFT JOIN users ON users.id = login_activities.user_id").
		Order("login_activities.login_at DESC, login_activities.id DESC").
		Scan(&rows).Error
	if err != nil {
		logger.Log.Error("failed to fetch activity logs", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to fetch activity logs")
		return
	}
	httputil.WriteSuccess(w, "", rows)
}

// SyncTestDataHandler wipes the ledger and goals and repopulates them with
// the sample fixture set. Destructive; admin-gated maintenance only.
func SyncTestDataHandler(w http.ResponseWriter, r *http.Request) {
	if err := seed.Reseed(); err != nil {
		logger.Log.Error("test data reseed failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "reseed failed")
		return
	}
	httputil.WriteSuccess(w, "test data reseeded", nil)
}
