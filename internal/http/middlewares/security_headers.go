package middlewares

import "github.com/gin-gonic/gin"

// The API only serves JSON and file attachments, so nothing may be framed or
// loaded from the responses.
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// SecurityHeaders sets response hardening headers. hsts should only be
// enabled behind TLS.
func SecurityHeaders(hsts bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", apiCSP)
		// employee data and salary reports must not sit in shared caches
		h.Set("Cache-Control", "private, no-cache")
		if hsts {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
