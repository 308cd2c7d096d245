// File: internal/middleware/ratelimit.go
package middleware

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/iyunix/go-chatrelay/internal/ratelimit"
)

// rejectBanned answers a client that failed authentication too often.
func rejectBanned(w http.ResponseWriter, log logrus.FieldLogger, clientIP string, info ratelimit.Info) {
	log.WithFields(logrus.Fields{
		"client_ip":   clientIP,
		"retry_after": info.RetryAfter.String(),
	}).Warn("request blocked after repeated authentication failures")

	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%.0f", info.RetryAfter.Seconds()))
	}
	writeDetail(w, http.StatusTooManyRequests, fmt.Sprintf(
		"Too many failed authentication attempts. Try again in %d minutes.",
		int(info.RetryAfter.Minutes())+1,
	))
}
