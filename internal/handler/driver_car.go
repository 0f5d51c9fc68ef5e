package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-booking/internal/booking"
	"github.com/iliyamo/ev-charge-booking/internal/repository"
)

// DriverHandler bundles the repositories and the booking service the
// driver surface needs.
type DriverHandler struct {
	Cars     *repository.CarRepo
	Bookings *booking.Service
}

func NewDriverHandler(cars *repository.CarRepo, bookings *booking.Service) *DriverHandler {
	if cars == nil || bookings == nil {
		panic("nil dependency passed to NewDriverHandler")
	}
	return &DriverHandler{Cars: cars, Bookings: bookings}
}

type carReq struct {
	Plate string `json:"plate"`
	Model string `json:"model"`
}

// CreateCar registers a car under the calling driver.
func (h *DriverHandler) CreateCar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req carReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Plate = strings.ToUpper(strings.TrimSpace(req.Plate))
	req.Model = strings.TrimSpace(req.Model)
	if req.Plate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plate required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, err := h.Cars.Create(ctx, uid, req.Plate, req.Model)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create car failed"})
	}
	return c.JSON(http.StatusCreated, car)
}

// ListCars returns the calling driver's cars.
func (h *DriverHandler) ListCars(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Cars.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list cars failed"})
	}
	return c.JSON(http.StatusOK, out)
}

// GetCar returns one of the driver's cars.
func (h *DriverHandler) GetCar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, err := h.Cars.GetByIDAndUser(ctx, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load car failed"})
	}
	return c.JSON(http.StatusOK, car)
}

// DeleteCar removes one of the driver's cars.  Cars referenced by
// bookings cannot be deleted.
func (h *DriverHandler) DeleteCar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cars.Delete(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrCarNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "car has bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete car failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
