package gecko

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Logger returns middleware that logs every request after the rest of the
// chain finishes: method, status, route and duration, plus extracted
// parameters when present. In development mode the output is colorized.
func Logger() MiddlewareFunc {
	return func(c *Context) {
		start := time.Now()
		c.Next()
		logRequest(c, time.Since(start))
	}
}

func logRequest(c *Context, elapsed time.Duration) {
	timestamp := time.Now().Format("2006/01/02 15:04:05")
	method := c.Request().Method
	route := c.Request().URL.Path
	statusCode := statusForLog(c)

	if c.engine != nil && c.engine.development {
		// **Colorized Logging (For Dev Mode)**
		statusColor := getStatusColor(statusCode)
		methodColor := "\033[1;35m" // Magenta for method
		routeColor := "\033[1;34m"  // Blue for route
		reset := "\033[0m"

		// Format parameters only if they exist
		var paramsString string
		if len(c.params) > 0 {
			paramParts := []string{}
			for _, p := range c.params {
				paramParts = append(paramParts, fmt.Sprintf("\033[1;33m%s: \033[1;32m%s\033[0m", p.Key, p.Value))
			}
			paramsString = " | Params: " + strings.Join(paramParts, ", ")
		}

		fmt.Printf("\033[1;31m%s\033[0m | Method: %s%s%s | Status: %s%d%s | Route: %s%s%s | %v%s\n",
			timestamp,
			methodColor, method, reset,
			statusColor, statusCode, reset,
			routeColor, route, reset,
			elapsed,
			paramsString,
		)
		return
	}

	// **Plain Logging (Production Mode)**
	if len(c.params) > 0 {
		paramParts := make([]string, 0, len(c.params))
		for _, p := range c.params {
			paramParts = append(paramParts, p.Key+"="+p.Value)
		}
		fmt.Printf("[%s] Method: %s | Status: %d | Route: %s | %v | Params: %s\n",
			timestamp, method, statusCode, route, elapsed, strings.Join(paramParts, " "))
	} else {
		fmt.Printf("[%s] Method: %s | Status: %d | Route: %s | %v\n",
			timestamp, method, statusCode, route, elapsed)
	}
}

// statusForLog returns the committed status. When the chain below the
// logger never wrote anything the engine will answer 500 afterwards, so
// log that instead of a zero.
func statusForLog(c *Context) int {
	if status := c.StatusCode(); status != 0 {
		return status
	}
	return http.StatusInternalServerError
}

// Helper function to colorize status codes
func getStatusColor(status int) string {
	if status >= 200 && status < 300 {
		return "\033[1;32m" // Green for 2xx Success
	}
	if status >= 400 && status < 500 {
		return "\033[1;33m" // Yellow for 4xx Client Errors
	}
	return "\033[1;31m" // Red for 5xx Server Errors
}
