package response

import (
	"ticketly/internal/shared/errs"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError maps a categorized service error onto the standard envelope.
// The error kind is exposed in the errors field so clients can branch on it
// without parsing messages.
func RespondError(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	RespondJSON(c, "error", errs.HTTPStatus(kind), userMessage(kind), nil, gin.H{
		"kind":   string(kind),
		"detail": err.Error(),
	})
}

func userMessage(kind errs.Kind) string {
	switch kind {
	case errs.KindSeatConflict:
		return "Seat is no longer available. Please choose another."
	case errs.KindInvalidState:
		return "This event is not currently available for booking."
	case errs.KindNotFound:
		return "Not found"
	case errs.KindInvalidInput:
		return "Invalid request data"
	case errs.KindUnauthorized:
		return "You do not have access to this resource"
	case errs.KindUnauthenticated:
		return "Authentication required"
	case errs.KindExternalUnavailable:
		return "A downstream service is unavailable, please retry"
	default:
		return "Internal server error"
	}
}
