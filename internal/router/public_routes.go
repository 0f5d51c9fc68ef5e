package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-booking/internal/handler"
)

// RegisterPublic registers the guest browsing endpoints.  cacheMW is
// the Redis response cache; pass nil to serve uncached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheMW echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cacheMW != nil {
		mws = append(mws, cacheMW)
	}
	e.GET("/v1/stations", p.GetStations, mws...)
	e.GET("/v1/stations/:id/ports", p.GetStationPorts, mws...)
}
