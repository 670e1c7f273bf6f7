package dashboard

import (
	"strings"

	interrors "github.com/aionx/connect-dashboard/internal/errors"
)

// userMessage converts a controller-boundary error into a user-facing
// message. Errors never propagate past the controllers to crash rendering.
func userMessage(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case interrors.Is(err, interrors.ErrValidation):
		msg := err.Error()
		if idx := strings.Index(msg, ": "); idx != -1 {
			msg = msg[idx+2:]
		}
		return strings.ToUpper(msg[:1]) + msg[1:]
	case interrors.Is(err, interrors.ErrNotConfigured):
		return "The backend is not configured. Set the service URL and API key."
	case interrors.Is(err, interrors.ErrSessionExpired):
		return "Your session has expired. Please sign in again."
	case interrors.Is(err, interrors.ErrNotFound):
		return "The connection no longer exists."
	default:
		return fallback
	}
}
