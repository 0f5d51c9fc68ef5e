package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-booking/internal/repository"
)

type portReq struct {
	Label         string  `json:"label"`
	ConnectorType string  `json:"connector_type"`
	PowerKW       float64 `json:"power_kw"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (r *portReq) normalize() error {
	r.Label = strings.TrimSpace(r.Label)
	r.ConnectorType = strings.ToUpper(strings.TrimSpace(r.ConnectorType))
	if r.Label == "" || r.ConnectorType == "" {
		return errors.New("label and connector_type required")
	}
	if r.PowerKW <= 0 {
		return errors.New("power_kw must be positive")
	}
	return nil
}

// CreatePort attaches a charging port to one of the operator's stations.
func (h *OperatorHandler) CreatePort(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	stationID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid station id"})
	}
	var req portReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Ports.Create(ctx, stationID, uid, req.Label, req.ConnectorType, req.PowerKW)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create port failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// ListPorts lists the ports of one of the operator's stations.
func (h *OperatorHandler) ListPorts(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	stationID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid station id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Ownership gate before listing.
	if _, err := h.Stations.GetByIDAndOperator(ctx, stationID, uid); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load station failed"})
	}
	out, err := h.Ports.ListByStation(ctx, stationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list ports failed"})
	}
	return c.JSON(http.StatusOK, out)
}

// GetPort returns one port owned (via its station) by the operator.
func (h *OperatorHandler) GetPort(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid port id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Ports.GetByIDAndOperator(ctx, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrPortNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "port not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load port failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// UpdatePort modifies a port's label, connector type, power and active
// flag.  The energy counter cannot be edited here.
func (h *OperatorHandler) UpdatePort(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid port id"})
	}
	var req portReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Ports.Update(ctx, id, uid, req.Label, req.ConnectorType, req.PowerKW, active)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPortNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "port not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update port failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// DeletePort removes a port with no booking history.
func (h *OperatorHandler) DeletePort(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid port id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Ports.Delete(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrPortNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "port not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "port has bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete port failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
