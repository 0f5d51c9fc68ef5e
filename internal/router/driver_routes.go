package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-booking/internal/handler"
	"github.com/iliyamo/ev-charge-booking/internal/middleware"
	"github.com/iliyamo/ev-charge-booking/internal/model"
)

// RegisterDriver registers the driver surface under /v1.  rateMW is the
// token-bucket limiter applied to the booking mutation endpoints; pass
// nil to serve unlimited.
func RegisterDriver(e *echo.Echo, d *handler.DriverHandler, jwtSecret string, rateMW echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleDriver))

	g.POST("/cars", d.CreateCar)
	g.GET("/cars", d.ListCars)
	g.GET("/cars/:id", d.GetCar)
	g.DELETE("/cars/:id", d.DeleteCar)

	g.GET("/bookings", d.ListBookings)
	g.GET("/bookings/:id", d.GetBooking)
	g.GET("/ports/:id/availability", d.PortAvailability)

	// Mutations carry the rate limiter so a misbehaving client cannot
	// hammer the overlap check.
	mws := []echo.MiddlewareFunc{}
	if rateMW != nil {
		mws = append(mws, rateMW)
	}
	g.POST("/bookings", d.CreateBooking, mws...)
	g.POST("/bookings/:id/cancel", d.CancelBooking, mws...)
	g.POST("/bookings/:id/transition", d.TransitionBooking, mws...)
}
