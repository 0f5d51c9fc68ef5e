package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-booking/internal/model"
	"github.com/iliyamo/ev-charge-booking/internal/repository"
)

type transitionReq struct {
	Status string `json:"status"`
}

// ListPortBookings returns the bookings on one of the operator's ports
// whose window intersects the [from, to) query range.  Without a range
// the coming 24 hours are shown.
func (h *OperatorHandler) ListPortBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	portID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid port id"})
	}

	from := time.Now().UTC()
	to := from.Add(24 * time.Hour)
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from"})
		}
		from = t.UTC()
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to"})
		}
		to = t.UTC()
	}
	if !from.Before(to) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must precede to"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Ports.GetByIDAndOperator(ctx, portID, uid); err != nil {
		if errors.Is(err, repository.ErrPortNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "port not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load port failed"})
	}
	out, err := h.Bookings.ListByPortAndRange(ctx, portID, from, to)
	if err != nil {
		return writeBookingErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// TransitionBooking moves a booking on one of the operator's ports to a
// new status (typically ACTIVE when charging starts and COMPLETED when
// the car unplugs).  Completion credits the port's energy counter.
func (h *OperatorHandler) TransitionBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status, ok := model.ParseBookingStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.Get(ctx, bookingID)
	if err != nil {
		return writeBookingErr(c, err)
	}
	if _, err := h.Ports.GetByIDAndOperator(ctx, b.PortID, uid); err != nil {
		if errors.Is(err, repository.ErrPortNotFound) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load port failed"})
	}

	out, err := h.Bookings.Transition(ctx, bookingID, status)
	if err != nil {
		return writeBookingErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
