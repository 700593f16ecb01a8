package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/naufalaufa/zipal-app/internal/httputil"
	"github.com/naufalaufa/zipal-app/internal/logger"
	"github.com/naufalaufa/zipal-app/internal/models"
	"github.com/naufalaufa/zipal-app/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GoalRequest struct {
	Title           string           `json:"title"`
	TargetAmount    *decimal.Decimal `json:"target_amount"`
	CollectedAmount *decimal.Decimal `json:"collected_amount"`
	Description     string           `json:"description"`
}

type goalWithPercent struct {
	models.FinancialGoal
	PercentComplete float64 `json:"percent_complete"`
}

func ListGoalsHandler(w http.ResponseWriter, r *http.Request) {
	var goals []models.FinancialGoal
	if err := store.DB.Order("id ASC").Find(&goals).Error; err != nil {
		logger.Log.Error("failed to fetch goals", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to fetch goals")
		return
	}

	out := make([]goalWithPercent, 0, len(goals))
	for _, g := range goals {
		out = append(out, goalWithPercent{FinancialGoal: g, PercentComplete: g.PercentComplete()})
	}
	httputil.WriteSuccess(w, "", out)
}

func CreateGoalHandler(w http.ResponseWriter, r *http.Request) {
	var req GoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "invalid request body")
		return
	}
	if req.Title == "" || req.TargetAmount == nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "title and target_amount are required")
		return
	}

	collected := decimal.Zero
	if req.CollectedAmount != nil {
		collected = *req.CollectedAmount
	}
	goal := models.FinancialGoal{
		Title:           req.Title,
		TargetAmount:    *req.TargetAmount,
		CollectedAmount: collected,
		Description:     req.Description,
	}
	if err := store.DB.Create(&goal).Error; err != nil {
		logger.Log.Error("failed to create goal", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to create goal")
		return
	}
	httputil.WriteSuccess(w, "goal created", goal)
}

func UpdateGoalHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req GoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "invalid request body")
		return
	}
	if req.Title == "" || req.TargetAmount == nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "title and target_amount are required")
		return
	}

	// a read establishes existence; MySQL's changed-rows count would report
	// a no-op update on an existing goal as a miss
	var existing models.FinancialGoal
	if err := store.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httputil.WriteError(w, http.StatusNotFound, httputil.CodeNotFound, "goal not found")
			return
		}
		logger.Log.Error("failed to fetch goal", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to update goal")
		return
	}

	collected := decimal.Zero
	if req.CollectedAmount != nil {
		collected = *req.CollectedAmount
	}
	err := store.DB.Model(&models.FinancialGoal{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":            req.Title,
			"target_amount":    *req.TargetAmount,
			"collected_amount": collected,
			"description":      req.Description,
		}).Error
	if err != nil {
		logger.Log.Error("failed to update goal", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to update goal")
		return
	}
	httputil.WriteSuccess(w, "goal updated", nil)
}

func DeleteGoalHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res := store.DB.Delete(&models.FinancialGoal{}, "id = ?", id)
	if res.Error != nil {
		logger.Log.Error("failed to delete goal", zap.Error(res.Error))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to delete goal")
		return
	}
	if res.RowsAffected == 0 {
		httputil.WriteError(w, http.StatusNotFound, httputil.CodeNotFound, "goal not found")
		return
	}
	httputil.WriteSuccess(w, "goal deleted", nil)
}
