package gecko

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout returns middleware that races the rest of the chain against a
// deadline. The inner chain writes into a buffer; if it finishes in time the
// buffer is flushed to the client, otherwise a 504 is sent and any late
// writes are discarded. The derived request context is cancelled on expiry
// so handlers holding resources can release them.
func Timeout(d time.Duration) MiddlewareFunc {
	return func(c *Context) {
		ctx, cancel := context.WithTimeout(c.Request().Context(), d)
		defer cancel()

		// The inner chain gets its own copy of the items map: on expiry the
		// abandoned goroutine keeps running, and it must not touch state the
		// outer chain still reads.
		var items map[string]any
		if c.items != nil {
			items = make(map[string]any, len(c.items))
			for k, v := range c.items {
				items[k] = v
			}
		}

		tw := &timeoutWriter{header: make(http.Header)}
		inner := &Context{
			writer:  &responseWriter{ResponseWriter: tw},
			request: c.Request().WithContext(ctx),
			Headers: c.Headers,
			engine:  c.engine,
			params:  c.params,
			pattern: c.pattern,
			chain:   c.chain,
			index:   c.index,
			items:   items,
		}

		done := make(chan struct{})
		panicChan := make(chan any, 1)
		go func() {
			defer func() {
				if rec := recover(); rec != nil {
					panicChan <- rec
				}
			}()
			inner.Next()
			close(done)
		}()

		select {
		case rec := <-panicChan:
			panic(rec)
		case <-done:
			tw.flush(c.writer)
			c.index = len(c.chain)
			if inner.aborted {
				c.aborted = true
			}
			// The inner goroutine is finished, so merging its items back is
			// ordered by the channel receive.
			c.items = inner.items
		case <-ctx.Done():
			tw.discard()
			c.Abort()
			c.SendJSON(http.StatusGatewayTimeout, map[string]string{"error": "request timed out"})
		}
	}
}

// timeoutWriter buffers the inner chain's response. Once discard is called
// the buffer is dead and writes from the abandoned goroutine are dropped.
type timeoutWriter struct {
	mu       sync.Mutex
	header   http.Header
	buf      bytes.Buffer
	status   int
	timedOut bool
}

func (w *timeoutWriter) Header() http.Header {
	return w.header
}

func (w *timeoutWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut || w.status != 0 {
		return
	}
	w.status = code
}

func (w *timeoutWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return len(b), nil
	}
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.buf.Write(b)
}

func (w *timeoutWriter) flush(dst *responseWriter) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status == 0 && w.buf.Len() == 0 {
		return // inner chain produced nothing; the engine handles the fault
	}
	header := dst.Header()
	for key, values := range w.header {
		for _, value := range values {
			header.Add(key, value)
		}
	}
	dst.WriteHeader(w.status)
	if w.buf.Len() > 0 {
		dst.Write(w.buf.Bytes())
	}
}

func (w *timeoutWriter) discard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timedOut = true
}
