package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/naufalaufa/zipal-app/configs"
	"github.com/naufalaufa/zipal-app/internal/httputil"
	"github.com/naufalaufa/zipal-app/internal/logger"
	"github.com/naufalaufa/zipal-app/internal/middleware"
	"github.com/naufalaufa/zipal-app/internal/models"
	"github.com/naufalaufa/zipal-app/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxAvatarUploadBytes = 10 << 20

// UpdateProfileHandler handles the multipart profile form: username, an
// optional new password and an optional avatar image. Callers can only edit
// their own record.
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeTokenMissing, "not authenticated")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarUploadBytes); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "invalid multipart form")
		return
	}

	idField := r.FormValue("id")
	if idField == "" {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "id is required")
		return
	}
	id, err := strconv.ParseUint(idField, 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "id must be numeric")
		return
	}
	if id != claims.UserID {
		httputil.WriteError(w, http.StatusForbidden, httputil.CodeForbidden, "cannot edit another user's profile")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	if username == "" {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "username is required")
		return
	}

	// existence check up front; MySQL's changed-rows count would make a
	// no-op resubmit of the form look like a missing user
	var existing models.User
	if err := store.DB.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httputil.WriteError(w, http.StatusNotFound, httputil.CodeNotFound, "user not found")
			return
		}
		logger.Log.Error("failed to fetch user", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to update profile")
		return
	}

	updates := map[string]any{"username": username}

	if password := strings.TrimSpace(r.FormValue("password")); password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			logger.Log.Error("failed to hash password", zap.Error(err))
			httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to update profile")
			return
		}
		updates["password"] = string(hash)
	}

	file, header, err := r.FormFile("avatar")
	switch {
	case err == nil:
		defer file.Close()
		filename, err := saveAvatar(file, header)
		if err != nil {
			logger.Log.Error("failed to store avatar", zap.Error(err))
			httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to store avatar")
			return
		}
		updates["avatar"] = filename
	case errors.Is(err, http.ErrMissingFile):
		// avatar unchanged
	default:
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeValidationFailed, "invalid avatar upload")
		return
	}

	if err := store.DB.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		logger.Log.Error("failed to update profile", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeStorageError, "failed to update profile")
		return
	}

	var user models.User
	if err := store.DB.First(&user, id).Error; err != nil {
		httputil.WriteError(w, http.StatusNotFound, httputil.CodeNotFound, "user not found")
		return
	}
	httputil.WriteSuccess(w, "profile updated", user)
}

func saveAvatar(file multipart.File, header *multipart.FileHeader) (string, error) {
	dir := configs.AppConfig.Uploads.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	filename := "avatar-" + uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return filename, nil
}
