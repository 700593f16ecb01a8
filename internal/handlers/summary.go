package handlers

import (
	"net/http"

	"github.com/naufalaufa/zipal-app/internal/httputil"
	"github.com/naufalaufa/zipal-app/internal/logger"
	"github.com/naufalaufa/zipal-app/internal/models"
	"github.com/naufalaufa/zipal-app/internal/store"
	"github.com/naufalaufa/zipal-app/internal/summary"
	"go.uber.org/zap"
)

func SummaryHandler(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := store.DB.Find(&users).Error; err != nil {
		logger.Log.Error("failed to fetch users for summary", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to build summary")
		return
	}

	var txs []models.Transaction
	if err := store.DB.Find(&txs).Error; err != nil {
		logger.Log.Error("failed to fetch transactions for summary", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to build summary")
		return
	}

	httputil.WriteSuccess(w, "", summary.Build(users, txs))
}
