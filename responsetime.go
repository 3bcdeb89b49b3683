package gecko

import (
	"net/http"
	"strconv"
	"time"
)

// ResponseTimeHeader is the header carrying the time spent in the chain.
const ResponseTimeHeader = "X-Response-Time"

// ResponseTime reports how long the request spent in the chain, measured
// from the moment this middleware runs until the response is committed.
// The header is stamped just before the status line goes out, so later
// units and the handler are all included.
func ResponseTime() MiddlewareFunc {
	return func(c *Context) {
		c.writer.ResponseWriter = &responseTimeWriter{
			ResponseWriter: c.writer.ResponseWriter,
			start:          time.Now(),
		}
		c.Next()
	}
}

type responseTimeWriter struct {
	http.ResponseWriter
	start time.Time
}

func (w *responseTimeWriter) WriteHeader(code int) {
	elapsed := time.Since(w.start).Milliseconds()
	w.Header().Set(ResponseTimeHeader, strconv.FormatInt(elapsed, 10)+"ms")
	w.ResponseWriter.WriteHeader(code)
}
