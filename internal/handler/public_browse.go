package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-booking/internal/model"
	"github.com/iliyamo/ev-charge-booking/internal/repository"
)

// PublicHandler serves the unauthenticated browsing endpoints.  The
// responses are sanitized: operator ids and energy counters are not
// exposed to guests.
type PublicHandler struct {
	Stations *repository.StationRepo
	Ports    *repository.PortRepo
}

func NewPublicHandler(stations *repository.StationRepo, ports *repository.PortRepo) *PublicHandler {
	return &PublicHandler{Stations: stations, Ports: ports}
}

type publicStation struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type publicPort struct {
	ID            uint64  `json:"id"`
	StationID     uint64  `json:"station_id"`
	Label         string  `json:"label"`
	ConnectorType string  `json:"connector_type"`
	PowerKW       float64 `json:"power_kw"`
}

// GetStations lists all active stations.
func (h *PublicHandler) GetStations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stations, err := h.Stations.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list stations failed"})
	}
	out := make([]publicStation, 0, len(stations))
	for _, s := range stations {
		out = append(out, publicStation{ID: s.ID, Name: s.Name, Address: s.Address})
	}
	return c.JSON(http.StatusOK, out)
}

// GetStationPorts lists the active ports of an active station.
func (h *PublicHandler) GetStationPorts(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid station id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Stations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load station failed"})
	}
	if !s.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
	}

	ports, err := h.Ports.ListByStation(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list ports failed"})
	}
	out := make([]publicPort, 0, len(ports))
	for _, p := range ports {
		if !p.IsActive {
			continue
		}
		out = append(out, toPublicPort(p))
	}
	return c.JSON(http.StatusOK, out)
}

func toPublicPort(p model.ChargingPort) publicPort {
	return publicPort{
		ID:            p.ID,
		StationID:     p.StationID,
		Label:         p.Label,
		ConnectorType: p.ConnectorType,
		PowerKW:       p.PowerKW,
	}
}
