package gecko

import (
	"net/http"
	"strconv"
	"strings"
)

// CorsConfig controls the CORS middleware.
type CorsConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// DefaultCorsConfig allows every origin with the common methods and headers.
func DefaultCorsConfig() CorsConfig {
	return CorsConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}
}

// CORS returns middleware that sets the cross-origin headers for allowed
// origins and short-circuits preflight requests with 204.
func CORS(cfg CorsConfig) MiddlewareFunc {
	return func(c *Context) {
		origin := c.Request().Header.Get("Origin")

		allowed := ""
		for _, allowedOrigin := range cfg.AllowedOrigins {
			if allowedOrigin == origin || allowedOrigin == "*" {
				allowed = allowedOrigin
				break
			}
		}

		if allowed != "" {
			c.Header("Access-Control-Allow-Origin", allowed)
			c.Header("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
			c.Header("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
		}

		// A preflight carries Access-Control-Request-Method; a plain OPTIONS
		// request does not, and may have a registered route of its own.
		if c.Request().Method == http.MethodOptions &&
			c.Request().Header.Get("Access-Control-Request-Method") != "" {
			if cfg.MaxAge > 0 {
				c.Header("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
			}
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// UseCors adds the CORS middleware to the whole engine.
func (e *Engine) UseCors(cfg CorsConfig) {
	e.UseMiddleware(CORS(cfg))
}
