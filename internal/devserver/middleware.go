package devserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/arkamedika/billing-console/pkg/utils"
)

const contextKeyClaims = "claims"

// JWTMiddleware guards the API with a Bearer token check and stores the
// validated claims on the request context.
func JWTMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"success": false,
					"message": "Authorization header missing",
				})
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"success": false,
					"message": "Invalid authorization header",
				})
			}
			claims, err := utils.ValidateJWTToken(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"success": false,
					"message": "Invalid token: " + err.Error(),
				})
			}
			c.Set(contextKeyClaims, claims)
			return next(c)
		}
	}
}
