package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campusconnect/venue-booking/internal/booking"
)

// getUserID extracts the user_id stored by the JWT middleware and
// converts it to uint64.  The claim arrives as whatever type the JSON
// decoder produced, so several representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int64:
		if t > 0 {
			return uint64(t), nil
		}
	case float64:
		if t > 0 {
			return uint64(t), nil
		}
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseUint(s, 10, 64); err == nil && n > 0 {
			return n, nil
		}
	}
	return 0, errors.New("missing or invalid user_id")
}

// respondBookingError maps the booking error taxonomy onto HTTP status
// codes.  Every response carries the machine-readable code plus a
// human-readable message so clients can distinguish "pick a different
// time" (conflict) from "pick a different venue" (no_capacity) from
// "wait until the policy window opens" (lead_time).
func respondBookingError(c echo.Context, err error) error {
	if be, ok := booking.AsError(err); ok {
		status := http.StatusInternalServerError
		switch be.Kind {
		case booking.KindInvalidRequest:
			status = http.StatusBadRequest
		case booking.KindNotFound:
			status = http.StatusNotFound
		case booking.KindPolicyViolation:
			status = http.StatusUnprocessableEntity
		case booking.KindConflict:
			status = http.StatusConflict
		}
		return c.JSON(status, map[string]string{"error": be.Code, "message": be.Message})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal", "message": "internal server error"})
}
