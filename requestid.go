package gecko

import (
	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying the per-request identifier.
const RequestIDHeader = "X-Request-Id"

// RequestID returns middleware that tags every request with a unique id.
// An id supplied by the client is kept, so the header survives proxies.
// The id is exposed on the response and stored as the "request_id" item.
func RequestID() MiddlewareFunc {
	return func(c *Context) {
		id := c.Request().Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.SetItem("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
