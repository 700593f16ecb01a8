package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/naufalaufa/zipal-app/internal/httputil"
	"github.com/naufalaufa/zipal-app/internal/logger"
	"github.com/naufalaufa/zipal-app/internal/middleware"
	"github.com/naufalaufa/zipal-app/internal/models"
	"github.com/naufalaufa/zipal-app/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateTransactionRequest struct {
	Username    string          `json:"username"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (req CreateTransactionRequest) validate() error {
	if req.Username == "" {
		return errors.New("username is required")
	}
	if err := validateTxType(req.Type); err != nil {
		return err
	}
	if req.Amount.IsNegative() {
		return errors.New("amount must not be negative")
	}
	return nil
}

func validateTxType(txType string) error {
	if txType != models.TxDeposit && txType != models.TxWithdraw {
		return errors.New("type must be deposit or withdraw")
	}
	return nil
}

// canRecordFor reports whether a caller with the given persisted role may
// write a ledger row under an account with ownerRole. Rows under the
// investment identity move shared money out, so only the current admin may
// record them.
func canRecordFor(ownerRole, callerRole string) bool {
	return ownerRole != models.RoleAdmin || callerRole == models.RoleAdmin
}

func CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeTokenMissing, "not authenticated")
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, err.Error())
		return
	}

	// ledger rows only ever belong to a known account; anything else would
	// fall out of the summary while still polluting history
	var owner models.User
	if err := store.DB.Where("username = ?", req.Username).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "unknown username")
			return
		}
		logger.Log.Error("failed to look up transaction owner", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to save transaction")
		return
	}

	if owner.Role == models.RoleAdmin {
		// the role claim in a long-lived token may be stale; re-read the
		// caller's row before letting anyone move money into investment
		var caller models.User
		if err := store.DB.First(&caller, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httputil.WriteError(w, http.StatusForbidden, httputil.CodeForbidden, "account no longer exists")
				return
			}
			logger.Log.Error("failed to look up caller role", zap.Error(err))
			httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to save transaction")
			return
		}
		if !canRecordFor(owner.Role, caller.Role) {
			httputil.WriteError(w, http.StatusForbidden, httputil.CodeForbidden, "only the admin may record investment transactions")
			return
		}
	}

	now := time.Now()
	tx := models.Transaction{
		Username:    req.Username,
		Type:        req.Type,
		Amount:      req.Amount,
		Date:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Description: req.Description,
	}
	if err := store.DB.Create(&tx).Error; err != nil {
		logger.Log.Error("failed to save transaction", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to save transaction")
		return
	}
	httputil.WriteSuccess(w, "transaction saved", tx)
}

func HistoryHandler(w http.ResponseWriter, r *http.Request) {
	txs, err := store.ListTransactions()
	if err != nil {
		logger.Log.Error("failed to fetch history", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to fetch history")
		return
	}
	httputil.WriteSuccess(w, "", txs)
}

func LastTransactionHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	txType := r.URL.Query().Get("type")
	if err := validateTxType(txType); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, err.Error())
		return
	}

	tx, err := store.LastTransaction(username, txType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httputil.WriteError(w, http.StatusNotFound, httputil.CodeNotFound, "no "+txType+" found for "+username)
			return
		}
		logger.Log.Error("failed to fetch last transaction", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to fetch last transaction")
		return
	}
	httputil.WriteSuccess(w, "", tx)
}

type UpdateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func UpdateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "invalid request body")
		return
	}
	if req.Amount.IsNegative() {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "amount must not be negative")
		return
	}

	// existence is established with a read instead of the update's row
	// count: MySQL reports changed rows, so a no-op update on an existing
	// row would look like a miss
	var existing models.Transaction
	if err := store.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httputil.WriteError(w, http.StatusNotFound, httputil.CodeNotFound, "transaction not found")
			return
		}
		logger.Log.Error("failed to fetch transaction", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to update transaction")
		return
	}

	err := store.DB.Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]any{"amount": req.Amount, "description": req.Description}).Error
	if err != nil {
		logger.Log.Error("failed to update transaction", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to update transaction")
		return
	}

	// re-fetch is a second independent read; a concurrent delete in between
	// surfaces as not found, not a crash
	var tx models.Transaction
	if err := store.DB.First(&tx, "id = ?", id).Error; err != nil {
		httputil.WriteError(w, http.StatusNotFound, httputil.CodeNotFound, "transaction not found")
		return
	}
	httputil.WriteSuccess(w, "transaction updated", tx)
}

func DeleteTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res := store.DB.Delete(&models.Transaction{}, "id = ?", id)
	if res.Error != nil {
		logger.Log.Error("failed to delete transaction", zap.Error(res.Error))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to delete transaction")
		return
	}
	if res.RowsAffected == 0 {
		httputil.WriteError(w, http.StatusNotFound, httputil.CodeNotFound, "transaction not found")
		return
	}
	httputil.WriteSuccess(w, "transaction deleted", nil)
}

// CancelLastTransactionHandler removes the caller-chosen user's most recent
// entry of the given type, using the same recency order as history.
func CancelLastTransactionHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	txType := r.URL.Query().Get("type")
	if err := validateTxType(txType); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, err.Error())
		return
	}

	tx, err := store.LastTransaction(username, txType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httputil.WriteError(w, http.StatusNotFound, httputil.CodeNotFound, "no "+txType+" found for "+username)
			return
		}
		logger.Log.Error("failed to fetch last transaction", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to cancel transaction")
		return
	}

	if err := store.DB.Delete(&models.Transaction{}, "id = ?", tx.ID).Error; err != nil {
		logger.Log.Error("failed to delete transaction", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to cancel transaction")
		return
	}
	httputil.WriteSuccess(w, "last "+txType+" cancelled", tx)
}

func InvestmentsHandler(w http.ResponseWriter, r *http.Request) {
	txs, err := store.InvestmentWithdrawals()
	if err != nil {
		logger.Log.Error("failed to fetch investments", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to fetch investments")
		return
	}
	httputil.WriteSuccess(w, "", txs)
}
