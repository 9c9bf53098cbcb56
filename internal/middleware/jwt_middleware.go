package middleware

import (
	"log/slog"
	"net/url"

	"inventory/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthCookieName is the cookie holding the session JWT.
const AuthCookieName = "auth_token"

// AuthRequired is a Fiber middleware to check for a valid JWT in the auth
// cookie. Requests without one are redirected to loginPath with the original
// URL in return_url.
func AuthRequired(authService *services.AuthService, loginPath string, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(AuthCookieName)
		if tokenString == "" {
			return redirectToLogin(c, loginPath)
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			logger.DebugContext(c.UserContext(), "JWT validation failed", slog.String("error", err.Error()))
			c.ClearCookie(AuthCookieName)
			return redirectToLogin(c, loginPath)
		}

		// Store claims in Fiber context for handlers and views
		c.Locals("user_id", claims.UserID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}

func redirectToLogin(c *fiber.Ctx, loginPath string) error {
	return c.Redirect(loginPath+"?return_url="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
}
