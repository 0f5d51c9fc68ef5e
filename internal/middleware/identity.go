package middleware

// identity.go holds the claim extraction helpers shared by the rate
// limiter and cache key builders.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a printable identifier of the authenticated
// user for key building, or "anon" when the request carries no token.
// JWT numeric claims decode as float64, so the value is formatted
// rather than type-asserted.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return fmt.Sprintf("%.0f", t)
	case uint64:
		return fmt.Sprintf("%d", t)
	}
	return "anon"
}
