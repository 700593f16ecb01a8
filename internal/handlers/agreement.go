package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/naufalaufa/zipal-app/internal/httputil"
	"github.com/naufalaufa/zipal-app/internal/logger"
	"github.com/naufalaufa/zipal-app/internal/middleware"
	"github.com/naufalaufa/zipal-app/internal/models"
	"github.com/naufalaufa/zipal-app/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AgreementStatusResponse struct {
	Signed    bool                       `json:"signed"`
	Signature *models.AgreementSignature `json:"signature,omitempty"`
}

func AgreementStatusHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeTokenMissing, "not authenticated")
		return
	}

	var sig models.AgreementSignature
	err := store.DB.Where("user_id = ?", claims.UserID).First(&sig).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httputil.WriteSuccess(w, "", AgreementStatusResponse{Signed: false})
		return
	}
	if err != nil {
		logger.Log.Error("failed to fetch agreement signature", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to fetch agreement status")
		return
	}
	httputil.WriteSuccess(w, "", AgreementStatusResponse{Signed: true, Signature: &sig})
}

type SignAgreementRequest struct {
	SignatureImage string `json:"signatureImage"`
}

// SignAgreementHandler upserts the caller's single agreement row; re-signing
// replaces the stored image and timestamp.
func SignAgreementHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeTokenMissing, "not authenticated")
		return
	}

	var req SignAgreementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SignatureImage == "" {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "signatureImage is required")
		return
	}

	sig := models.AgreementSignature{
		UserID:         claims.UserID,
		SignatureImage: req.SignatureImage,
		SignedAt:       time.Now(),
	}
	err := store.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"signature_image", "signed_at"}),
	}).Create(&sig).Error
	if err != nil {
		logger.Log.Error("failed to save agreement signature", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to save signature")
		return
	}
	httputil.WriteSuccess(w, "agreement signed", sig)
}
