package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-booking/internal/handler"
	"github.com/iliyamo/ev-charge-booking/internal/middleware"
	"github.com/iliyamo/ev-charge-booking/internal/model"
)

// RegisterOperator registers the operator surface under /v1/operator.
func RegisterOperator(e *echo.Echo, o *handler.OperatorHandler, jwtSecret string) {
	g := e.Group("/v1/operator")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleOperator))

	g.POST("/stations", o.CreateStation)
	g.GET("/stations", o.ListStations)
	g.GET("/stations/:id", o.GetStation)
	g.PUT("/stations/:id", o.UpdateStation)
	g.DELETE("/stations/:id", o.DeleteStation)

	g.POST("/stations/:id/ports", o.CreatePort)
	g.GET("/stations/:id/ports", o.ListPorts)
	g.GET("/ports/:id", o.GetPort)
	g.PUT("/ports/:id", o.UpdatePort)
	g.DELETE("/ports/:id", o.DeletePort)

	g.GET("/ports/:id/bookings", o.ListPortBookings)
	g.POST("/bookings/:id/transition", o.TransitionBooking)
}
