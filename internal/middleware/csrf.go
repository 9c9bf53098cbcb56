package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

// CSRF names shared with the views and the JavaScript delete call.
const (
	CSRFCookieName = "csrf_"
	CSRFFormField  = "_csrf"
	CSRFHeader     = "X-Csrf-Token"
	CSRFContextKey = "csrf"
)

// CSRF rejects unsafe requests whose token does not match the csrf cookie.
// The token is read from the X-Csrf-Token header, then from the _csrf form
// field. storage may be nil for in-process storage.
func CSRF(storage fiber.Storage, secure bool) fiber.Handler {
	fromHeader := csrf.CsrfFromHeader(CSRFHeader)
	fromForm := csrf.CsrfFromForm(CSRFFormField)

	return csrf.New(csrf.Config{
		CookieName:     CSRFCookieName,
		CookieSameSite: "Lax",
		CookieSecure:   secure,
		Expiration:     2 * time.Hour,
		ContextKey:     CSRFContextKey,
		Storage:        storage,
		Extractor: func(c *fiber.Ctx) (string, error) {
			if token, err := fromHeader(c); err == nil {
				return token, nil
			}
			return fromForm(c)
		},
	})
}
