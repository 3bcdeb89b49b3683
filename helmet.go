package gecko

// Helmet sets a baseline of security response headers. Headers are set
// before the rest of the chain runs, since they cannot be added once the
// response has been committed.
func Helmet() MiddlewareFunc {
	return func(c *Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "0")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}
