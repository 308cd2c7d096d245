// File: internal/handlers/response.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/iyunix/go-chatrelay/internal/dtos"
	"github.com/iyunix/go-chatrelay/internal/services"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError sends the {"detail": ...} body every error response uses.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, dtos.ErrorResponseDTO{Detail: detail})
}

// writeServiceError maps a service failure to its status. Storage failures
// carry prefix followed by the underlying message.
func writeServiceError(w http.ResponseWriter, err error, prefix string) {
	switch services.ErrorTypeOf(err) {
	case services.ErrTypeValidation:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case services.ErrTypeNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, prefix+": "+err.Error())
	}
}
