package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-booking/internal/booking"
	"github.com/iliyamo/ev-charge-booking/internal/model"
)

type createBookingReq struct {
	CarID           uint64    `json:"car_id"`
	PortID          uint64    `json:"port_id"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	// Status is not settable by clients.  The field exists only so a
	// request that tries to smuggle one is rejected instead of silently
	// ignored.
	Status *string `json:"status,omitempty"`
}

// CreateBooking reserves a port window for one of the driver's cars.
// Every booking starts as PENDING; requests naming a status are
// rejected.
func (h *DriverHandler) CreateBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status cannot be set on creation"})
	}
	if req.CarID == 0 || req.PortID == 0 || req.StartTime.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "car_id, port_id and start_time required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Bookings.Create(ctx, booking.CreateRequest{
		UserID:          uid,
		CarID:           req.CarID,
		PortID:          req.PortID,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return writeBookingErr(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// ListBookings returns the calling driver's bookings, newest first.
func (h *DriverHandler) ListBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return writeBookingErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GetBooking returns one of the driver's bookings.
func (h *DriverHandler) GetBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.Get(ctx, id)
	if err != nil {
		return writeBookingErr(c, err)
	}
	if b.UserID != uid {
		// Hide other drivers' bookings entirely.
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusOK, b)
}

// CancelBooking cancels one of the driver's PENDING bookings before its
// window starts.
func (h *DriverHandler) CancelBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Bookings.Get(ctx, id)
	if err != nil {
		return writeBookingErr(c, err)
	}
	if b.UserID != uid {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if err := h.Bookings.Cancel(ctx, id); err != nil {
		return writeBookingErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// TransitionBooking moves one of the driver's bookings to a new status
// through the regular guard (e.g. ACTIVE when plugging in, COMPLETED
// when done).
func (h *DriverHandler) TransitionBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status, ok := model.ParseBookingStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Bookings.Get(ctx, id)
	if err != nil {
		return writeBookingErr(c, err)
	}
	if b.UserID != uid {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	out, err := h.Bookings.Transition(ctx, id, status)
	if err != nil {
		return writeBookingErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// PortAvailability previews the PENDING and ACTIVE bookings on a port
// that would conflict with the given window.  An empty list means the
// window is free at the time of the check; Create re-verifies under the
// port's lock.
func (h *DriverHandler) PortAvailability(c echo.Context) error {
	portID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid port id"})
	}
	start, err := time.Parse(time.RFC3339, c.QueryParam("start_time"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_time"})
	}
	duration, ok := parsePositiveInt(c.QueryParam("duration_minutes"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid duration_minutes"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	conflicts, err := h.Bookings.Conflicts(ctx, portID, start, duration)
	if err != nil {
		return writeBookingErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"available": len(conflicts) == 0,
		"conflicts": conflicts,
	})
}
