package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/naufalaufa/zipal-app/internal/auth"
	"github.com/naufalaufa/zipal-app/internal/httputil"
	"github.com/naufalaufa/zipal-app/internal/logger"
	"github.com/naufalaufa/zipal-app/internal/middleware"
	"github.com/naufalaufa/zipal-app/internal/models"
	"github.com/naufalaufa/zipal-app/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         models.User `json:"user"`
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "username and password are required")
		return
	}

	var user models.User
	if err := store.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeInvalidCredentials, "invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeInvalidCredentials, "invalid username or password")
		return
	}

	pair, err := auth.IssuePair(user)
	if err != nil {
		logger.Log.Error("failed to sign jwt", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to create token")
		return
	}

	// audit row only after the credentials checked out
	activity := models.LoginActivity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		LoginAt:  time.Now(),
	}
	if err := store.DB.Create(&activity).Error; err != nil {
		logger.Log.Error("failed to record login activity", zap.Error(err))
	}

	httputil.WriteSuccess(w, "login successful", LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshHandler exchanges a refresh token for a fresh pair. The user row is
// re-read so the new tokens carry the current role, not the one from login
// time.
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "refreshToken is required")
		return
	}

	claims, err := auth.VerifyRefresh(req.RefreshToken)
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeTokenInvalid, "invalid or expired refresh token")
		return
	}

	var user models.User
	if err := store.DB.First(&user, claims.UserID).Error; err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeTokenInvalid, "account no longer exists")
		return
	}

	pair, err := auth.IssuePair(user)
	if err != nil {
		logger.Log.Error("failed to sign jwt", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to create token")
		return
	}
	httputil.WriteSuccess(w, "token refreshed", pair)
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeTokenMissing, "not authenticated")
		return
	}
	var user models.User
	if err := store.DB.First(&user, claims.UserID).Error; err != nil {
		httputil.WriteError(w, http.StatusNotFound, httputil.CodeNotFound, "user not found")
		return
	}
	httputil.WriteSuccess(w, "", user)
}
