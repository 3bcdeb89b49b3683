package gecko

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
)

// Engine represents the main engine of the web server. Routes and middleware
// are registered single-threaded during setup; once Run is called the engine
// is sealed and its route trees are read concurrently without locking.
type Engine struct {
	trees      map[string]*node
	middleware []MiddlewareFunc
	routes     []Route

	notFound    HandlerFunc
	development bool
	sealed      bool

	// Err holds the first registration error, if any. Run refuses to start
	// while it is set, so a conflicting route can never be served silently.
	Err error
}

// NewEngine creates a new Engine.
func NewEngine() *Engine {
	return &Engine{
		trees:    make(map[string]*node),
		notFound: defaultNotFound,
	}
}

// IsDevelopment switches the engine into development mode, which enables
// colorized request logging.
func (e *Engine) IsDevelopment() {
	e.development = true
}

// UseMiddleware appends middleware to the engine-wide chain. It applies to
// every route registered afterwards, so call it before the routes.
func (e *Engine) UseMiddleware(middleware MiddlewareFunc) {
	e.middleware = append(e.middleware, middleware)
}

// NotFound replaces the default 404 handler.
func (e *Engine) NotFound(handler HandlerFunc) {
	e.notFound = handler
}

// Get adds a GET route to the engine.
func (e *Engine) Get(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	e.record(e.Handle(http.MethodGet, pattern, handler, middleware...))
}

// Post adds a POST route to the engine.
func (e *Engine) Post(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	e.record(e.Handle(http.MethodPost, pattern, handler, middleware...))
}

// Put adds a PUT route to the engine.
func (e *Engine) Put(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	e.record(e.Handle(http.MethodPut, pattern, handler, middleware...))
}

// Patch adds a PATCH route to the engine.
func (e *Engine) Patch(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	e.record(e.Handle(http.MethodPatch, pattern, handler, middleware...))
}

// Delete adds a DELETE route to the engine.
func (e *Engine) Delete(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	e.record(e.Handle(http.MethodDelete, pattern, handler, middleware...))
}

// Options adds an OPTIONS route to the engine.
func (e *Engine) Options(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	e.record(e.Handle(http.MethodOptions, pattern, handler, middleware...))
}

// Head adds a HEAD route to the engine.
func (e *Engine) Head(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	e.record(e.Handle(http.MethodHead, pattern, handler, middleware...))
}

// Handle registers a route and reports registration errors directly. The
// convenience methods above record the first error in e.Err instead.
func (e *Engine) Handle(method, pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) error {
	if e.sealed {
		return ErrEngineSealed
	}
	if handler == nil {
		return ErrNilHandler
	}

	segments, err := parsePattern(pattern)
	if err != nil {
		if conflict, ok := err.(*ConflictError); ok {
			conflict.Method = method
		}
		return err
	}

	root := e.trees[method]
	if root == nil {
		root = &node{}
		e.trees[method] = root
	}

	entry := &routeEntry{
		pattern: pattern,
		chain:   composeChain(e.middleware, middleware, handler),
	}
	if err := root.insert(method, pattern, segments, entry); err != nil {
		return err
	}

	e.routes = append(e.routes, Route{Method: method, Pattern: pattern})
	return nil
}

// Routes lists the registered routes in registration order.
func (e *Engine) Routes() []Route {
	return e.routes
}

func (e *Engine) record(err error) {
	if err != nil && e.Err == nil {
		e.Err = err
	}
}

// ServeHTTP handles the request: match the route, then walk the middleware
// chain. Matching reads only immutable state, so concurrent requests need
// no coordination.
func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rw := &responseWriter{ResponseWriter: w}
	c := &Context{
		writer:  rw,
		request: r,
		Headers: r.Header,
		engine:  e,
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("gecko: panic handling %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
			if !rw.wrote {
				c.SendJSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}
	}()

	segments, ok := splitPath(r.URL.EscapedPath())
	if !ok {
		c.SendJSON(http.StatusBadRequest, map[string]string{"error": "bad request path"})
		return
	}

	var entry *routeEntry
	var params []Param
	if root := e.trees[r.Method]; root != nil {
		entry, params = root.match(segments, nil)
	}

	if entry == nil {
		c.chain = composeChain(e.middleware, nil, e.notFound)
		c.Next()
		if !rw.wrote {
			c.SendJSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}
		return
	}

	c.params = params
	c.pattern = entry.pattern
	c.chain = entry.chain
	c.Next()

	if !rw.wrote {
		// A unit neither delegated nor produced a response. Answer with a
		// default error instead of leaving the client hanging.
		log.Printf("gecko: middleware fault on %s %s: chain stalled at unit %d of %d",
			r.Method, entry.pattern, c.index, len(c.chain))
		c.SendJSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// Run starts the web server.
func (e *Engine) Run(addr string) error {
	if e.Err != nil {
		return e.Err
	}
	e.sealed = true

	fmt.Println("Gecko engine starting with the following routes:")
	for _, route := range e.routes {
		if route.Method != http.MethodOptions {
			fmt.Printf("%s %s\n", route.Method, route.Pattern)
		}
	}
	fmt.Printf("Listening on %s\n", addr)
	return http.ListenAndServe(addr, e)
}

// Seal marks setup as finished without starting the built-in listener, for
// integrations that mount the engine on their own http.Server.
func (e *Engine) Seal() error {
	if e.Err != nil {
		return e.Err
	}
	e.sealed = true
	return nil
}

func defaultNotFound(c *Context) {
	c.SendJSON(http.StatusNotFound, map[string]string{"error": "not found"})
}

// composeChain builds the full per-route chain once, at registration time:
// engine middleware first, then the route's own, then the handler.
func composeChain(global, route []MiddlewareFunc, handler HandlerFunc) []MiddlewareFunc {
	chain := make([]MiddlewareFunc, 0, len(global)+len(route)+1)
	chain = append(chain, global...)
	chain = append(chain, route...)
	chain = append(chain, handlerToMiddleware(handler))
	return chain
}

func handlerToMiddleware(h HandlerFunc) MiddlewareFunc {
	return func(c *Context) {
		h(c)
	}
}
