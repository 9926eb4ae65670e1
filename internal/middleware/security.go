package middleware

import (
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityHeaders adds security headers to responses. Requests below
// exportPath are workbook downloads and are sent as attachments.
func SecurityHeaders(exportPath string) echo.MiddlewareFunc {
	exportPrefix := ""
	if trimmed := strings.Trim(exportPath, "/"); trimmed != "" {
		exportPrefix = "/" + trimmed + "/"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			h.Set("Content-Security-Policy", "default-src 'self'")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			// Report links expire, so nothing may be cached
			h.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")

			reqPath := c.Request().URL.Path
			if exportPrefix != "" && strings.HasPrefix(reqPath, exportPrefix) {
				h.Set("Content-Disposition", `attachment; filename="`+path.Base(reqPath)+`"`)
			}

			return next(c)
		}
	}
}
