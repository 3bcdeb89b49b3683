package gecko

import (
	"net/http"
	"strings"
)

// TokenValidator checks a bearer token and returns the authenticated
// subject. Validation lives behind this callback so the chain never knows
// whether tokens come from a JWT library, a database or a remote service.
type TokenValidator func(token string) (subject string, ok bool)

// BearerAuth returns middleware that requires a valid Authorization: Bearer
// header. On success the subject is stored as the "auth_subject" item;
// otherwise the chain is short-circuited with 401.
func BearerAuth(validate TokenValidator) MiddlewareFunc {
	return func(c *Context) {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			c.SendJSON(http.StatusUnauthorized, map[string]string{"error": "missing authorization token"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.SendJSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header"})
			return
		}

		subject, ok := validate(parts[1])
		if !ok {
			c.SendJSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			return
		}

		c.SetItem("auth_subject", subject)
		c.Next()
	}
}
