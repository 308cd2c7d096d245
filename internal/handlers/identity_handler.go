package handlers

import (
	"net/http"

	"github.com/iyunix/go-chatrelay/internal/dtos"
	"github.com/iyunix/go-chatrelay/internal/middleware"
)

// Identity echoes the caller decoded by the auth gate.
func Identity(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	writeJSON(w, http.StatusOK, dtos.IdentityResponseDTO{
		Message:     "Access granted",
		UserID:      user.UserID,
		Email:       user.Email,
		FullPayload: user.Claims,
	})
}
