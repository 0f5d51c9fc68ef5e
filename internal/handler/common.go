// Package handler implements the HTTP layer.  Handlers bind and
// validate request bodies, call repositories or the booking service,
// and translate domain errors into status codes.  They never embed
// business rules of their own.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-booking/internal/booking"
	"github.com/iliyamo/ev-charge-booking/internal/repository"
)

// getUserID extracts the authenticated user id stored by the JWT
// middleware.  Numeric JWT claims arrive as float64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the named path parameter as an id.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// parsePositiveInt parses s as an int greater than zero.
func parsePositiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// writeBookingErr maps booking domain errors onto HTTP responses.  The
// mapping is shared by the driver and operator booking handlers so both
// surfaces answer identically.
func writeBookingErr(c echo.Context, err error) error {
	var it *booking.InvalidTransitionError
	switch {
	case errors.Is(err, booking.ErrInvalidDuration),
		errors.Is(err, booking.ErrStartTimeInPast):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, booking.ErrPortNotFound),
		errors.Is(err, booking.ErrUserNotFound),
		errors.Is(err, booking.ErrCarNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrSlotUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot unavailable"})
	case errors.Is(err, booking.ErrBookingAlreadyStarted):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already started"})
	case errors.As(err, &it):
		return c.JSON(http.StatusConflict, echo.Map{"error": it.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	default:
		c.Logger().Errorf("booking operation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
