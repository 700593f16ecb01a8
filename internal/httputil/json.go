package httputil

import (
	"encoding/json"
	"net/http"
)

// Machine-readable outcome codes carried next to the human message.
const (
	CodeValidationFailed   = "validation_failed"
	CodeInvalidCredentials = "invalid_credentials"
	CodeTokenMissing       = "token_missing"
	CodeTokenInvalid       = "token_invalid"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeStorageError       = "storage_error"
)

type Response struct {
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func WriteSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{Status: "success", Message: message, Data: data})
}

func WriteError(w http.ResponseWriter, httpCode int, code, msg string) {
	status := "fail"
	if httpCode >= http.StatusInternalServerError {
		status = "error"
	}
	writeJSON(w, httpCode, Response{Status: status, Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, httpCode int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	json.NewEncoder(w).Encode(body)
}
