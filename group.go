package gecko

import "net/http"

// RouteGroup registers routes under a shared path prefix with shared
// middleware. Groups nest; a route gets every ancestor's prefix and
// middleware, topmost parent first.
type RouteGroup struct {
	engine     *Engine
	parent     *RouteGroup
	basePath   string
	middleware []MiddlewareFunc
}

// Group creates a new RouteGroup.
func (e *Engine) Group(basePath string) *RouteGroup {
	return &RouteGroup{
		engine:   e,
		basePath: basePath,
	}
}

// Group creates a nested RouteGroup under this one.
func (g *RouteGroup) Group(basePath string) *RouteGroup {
	return &RouteGroup{
		engine:   g.engine,
		parent:   g,
		basePath: basePath,
	}
}

// UseMiddleware appends middleware that applies to every route registered
// through this group afterwards.
func (g *RouteGroup) UseMiddleware(middleware MiddlewareFunc) {
	g.middleware = append(g.middleware, middleware)
}

// Get adds a GET route to the group.
func (g *RouteGroup) Get(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	g.handle(http.MethodGet, pattern, handler, middleware)
}

// Post adds a POST route to the group.
func (g *RouteGroup) Post(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	g.handle(http.MethodPost, pattern, handler, middleware)
}

// Put adds a PUT route to the group.
func (g *RouteGroup) Put(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	g.handle(http.MethodPut, pattern, handler, middleware)
}

// Patch adds a PATCH route to the group.
func (g *RouteGroup) Patch(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	g.handle(http.MethodPatch, pattern, handler, middleware)
}

// Delete adds a DELETE route to the group.
func (g *RouteGroup) Delete(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	g.handle(http.MethodDelete, pattern, handler, middleware)
}

// Options adds an OPTIONS route to the group.
func (g *RouteGroup) Options(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	g.handle(http.MethodOptions, pattern, handler, middleware)
}

// Head adds a HEAD route to the group.
func (g *RouteGroup) Head(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	g.handle(http.MethodHead, pattern, handler, middleware)
}

// Handle adds a route to the group under an arbitrary method.
func (g *RouteGroup) Handle(method, pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	g.handle(method, pattern, handler, middleware)
}

func (g *RouteGroup) handle(method, pattern string, handler HandlerFunc, middleware []MiddlewareFunc) {
	fullPath := pattern
	var inherited []MiddlewareFunc

	// Walk up the hierarchy, prepending each parent's basePath and middleware.
	for p := g; p != nil; p = p.parent {
		fullPath = joinPattern(p.basePath, fullPath)
		inherited = append(append([]MiddlewareFunc{}, p.middleware...), inherited...)
	}

	merged := append(inherited, middleware...)
	g.engine.record(g.engine.Handle(method, fullPath, handler, merged...))
}

// Router is a standalone collection of routes that can be mounted on an
// Engine under a prefix. It lets a package describe its routes without
// holding a reference to the application.
type Router struct {
	middleware []MiddlewareFunc
	entries    []routerEntry

	// Err holds the first registration error, mirroring Engine.Err.
	Err error
}

type routerEntry struct {
	method     string
	pattern    string
	handler    HandlerFunc
	middleware []MiddlewareFunc
}

// NewRouter creates an empty sub-router.
func NewRouter() *Router {
	return &Router{}
}

// UseMiddleware appends middleware that applies to every route in this
// sub-router once mounted.
func (r *Router) UseMiddleware(middleware MiddlewareFunc) {
	r.middleware = append(r.middleware, middleware)
}

// Handle adds a route to the sub-router. Pattern validation happens here;
// conflicts with the rest of the application surface at mount time.
func (r *Router) Handle(method, pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) error {
	if handler == nil {
		return ErrNilHandler
	}
	if _, err := parsePattern(pattern); err != nil {
		if conflict, ok := err.(*ConflictError); ok {
			conflict.Method = method
		}
		return err
	}
	r.entries = append(r.entries, routerEntry{
		method:     method,
		pattern:    pattern,
		handler:    handler,
		middleware: middleware,
	})
	return nil
}

// Get adds a GET route to the sub-router.
func (r *Router) Get(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	r.record(r.Handle(http.MethodGet, pattern, handler, middleware...))
}

// Post adds a POST route to the sub-router.
func (r *Router) Post(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	r.record(r.Handle(http.MethodPost, pattern, handler, middleware...))
}

// Put adds a PUT route to the sub-router.
func (r *Router) Put(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	r.record(r.Handle(http.MethodPut, pattern, handler, middleware...))
}

// Patch adds a PATCH route to the sub-router.
func (r *Router) Patch(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	r.record(r.Handle(http.MethodPatch, pattern, handler, middleware...))
}

// Delete adds a DELETE route to the sub-router.
func (r *Router) Delete(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	r.record(r.Handle(http.MethodDelete, pattern, handler, middleware...))
}

// Options adds an OPTIONS route to the sub-router.
func (r *Router) Options(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	r.record(r.Handle(http.MethodOptions, pattern, handler, middleware...))
}

// Head adds a HEAD route to the sub-router.
func (r *Router) Head(pattern string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	r.record(r.Handle(http.MethodHead, pattern, handler, middleware...))
}

func (r *Router) record(err error) {
	if err != nil && r.Err == nil {
		r.Err = err
	}
}

// Mount registers every route of a sub-router under the given prefix. The
// prefix may itself contain parameters; a parameter name used by both the
// prefix and a sub-route is a ConflictError.
func (e *Engine) Mount(prefix string, r *Router) error {
	if r.Err != nil {
		e.record(r.Err)
		return r.Err
	}
	for _, entry := range r.entries {
		pattern := joinPattern(prefix, entry.pattern)
		middleware := append(append([]MiddlewareFunc{}, r.middleware...), entry.middleware...)
		if err := e.Handle(entry.method, pattern, entry.handler, middleware...); err != nil {
			e.record(err)
			return err
		}
	}
	return nil
}
