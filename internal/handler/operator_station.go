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

// OperatorHandler bundles the repositories and the booking service the
// operator surface needs.
type OperatorHandler struct {
	Stations *repository.StationRepo
	Ports    *repository.PortRepo
	Bookings *booking.Service
}

func NewOperatorHandler(stations *repository.StationRepo, ports *repository.PortRepo, bookings *booking.Service) *OperatorHandler {
	if stations == nil || ports == nil || bookings == nil {
		panic("nil dependency passed to NewOperatorHandler")
	}
	return &OperatorHandler{Stations: stations, Ports: ports, Bookings: bookings}
}

type stationReq struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// CreateStation registers a station under the calling operator.
func (h *OperatorHandler) CreateStation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req stationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Stations.Create(ctx, uid, req.Name, strings.TrimSpace(req.Address))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create station failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

// ListStations returns the stations owned by the calling operator.
func (h *OperatorHandler) ListStations(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Stations.ListByOperator(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list stations failed"})
	}
	return c.JSON(http.StatusOK, out)
}

// GetStation returns one station owned by the calling operator.
func (h *OperatorHandler) GetStation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid station id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Stations.GetByIDAndOperator(ctx, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load station failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// UpdateStation modifies name, address and active flag of a station.
func (h *OperatorHandler) UpdateStation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid station id"})
	}
	var req stationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Stations.Update(ctx, id, uid, req.Name, strings.TrimSpace(req.Address), active)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update station failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteStation removes an empty station.
func (h *OperatorHandler) DeleteStation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid station id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Stations.Delete(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrStationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "station has ports"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete station failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
