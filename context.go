package gecko

import (
	"encoding/json"
	"net/http"
)

// responseWriter wraps the transport's writer and records whether a
// response has been committed. The engine's fault handling relies on it.
type responseWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *responseWriter) WriteHeader(code int) {
	if w.wrote {
		return
	}
	w.status = code
	w.wrote = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Context represents request context. One Context is owned by exactly one
// request's goroutine; it is never shared and never reused.
type Context struct {
	writer  *responseWriter
	request *http.Request
	Headers http.Header
	engine  *Engine

	params  []Param
	pattern string

	chain   []MiddlewareFunc
	index   int
	aborted bool

	items map[string]any
}

// Next hands control to the next unit in the middleware chain. Each call
// runs exactly one unit; logic after Next returns runs in reverse
// registration order, giving the onion shape.
func (c *Context) Next() {
	if c.aborted || c.index >= len(c.chain) {
		return
	}
	unit := c.chain[c.index]
	c.index++
	unit(c)
}

// Abort prevents any further Next call from advancing the chain.
func (c *Context) Abort() {
	c.aborted = true
}

// Param gets a path parameter extracted from the matched pattern.
func (c *Context) Param(key string) string {
	for _, p := range c.params {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Params returns all extracted path parameters in pattern order.
func (c *Context) Params() []Param {
	return c.params
}

// Pattern returns the route pattern that matched this request.
func (c *Context) Pattern() string {
	return c.pattern
}

// Query gets a query value.
func (c *Context) Query(key string) string {
	return c.request.URL.Query().Get(key)
}

// PostForm gets a post form value with the given key.
func (c *Context) PostForm(key string) string {
	if err := c.request.ParseForm(); err != nil {
		return ""
	}
	return c.request.PostFormValue(key)
}

// BindJSON decodes the request body into v.
func (c *Context) BindJSON(v any) error {
	decoder := json.NewDecoder(c.request.Body)
	defer c.request.Body.Close()
	return decoder.Decode(v)
}

// SetItem stores a per-request value under the given key.
func (c *Context) SetItem(key string, item any) {
	if c.items == nil {
		c.items = make(map[string]any)
	}
	c.items[key] = item
}

// GetItem returns a per-request value stored under the given key.
func (c *Context) GetItem(key string) any {
	return c.items[key]
}

// Header sets a response header.
func (c *Context) Header(key, value string) {
	c.writer.Header().Set(key, value)
}

// Status commits the response with the given status code and no body.
func (c *Context) Status(code int) {
	c.writer.WriteHeader(code)
}

// SendJSON sends a JSON response with the given status code.
func (c *Context) SendJSON(code int, v any) {
	c.writer.Header().Set("Content-Type", "application/json")
	c.writer.WriteHeader(code)
	json.NewEncoder(c.writer).Encode(v)
}

// SendString sends a plain text response with the given status code.
func (c *Context) SendString(code int, body string) {
	c.writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.writer.WriteHeader(code)
	c.writer.Write([]byte(body))
}

// Redirect redirects to the given url with the chosen status code.
func (c *Context) Redirect(url string, code int) {
	http.Redirect(c.writer, c.request, url, code)
}

// Request returns the underlying request.
func (c *Context) Request() *http.Request {
	return c.request
}

// SetRequest replaces the underlying request. Used by middleware that
// derives a new request context, such as Timeout.
func (c *Context) SetRequest(r *http.Request) {
	c.request = r
}

// Writer returns the response writer, for handlers that need to take over
// the connection (for example a WebSocket upgrade).
func (c *Context) Writer() http.ResponseWriter {
	return c.writer
}

// Written reports whether a response has been committed.
func (c *Context) Written() bool {
	return c.writer.wrote
}

// StatusCode returns the committed response status, or zero if nothing has
// been written yet.
func (c *Context) StatusCode() int {
	return c.writer.status
}
