package gecko

import (
	"errors"
	"net/http"
	"reflect"
	"testing"
)

func TestGroup_NestedPrefixes(t *testing.T) {
	e := NewEngine()
	api := e.Group("/api")
	v1 := api.Group("/v1")
	v1.Get("/users/:id", func(c *Context) {
		c.SendString(http.StatusOK, c.Param("id"))
	})

	w := performRequest(e, "GET", "/api/v1/users/9")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "9" {
		t.Errorf("Expected param through nested group, got %q", w.Body.String())
	}
}

func TestGroup_MiddlewareTopmostFirst(t *testing.T) {
	var log []string
	e := NewEngine()
	e.UseMiddleware(tagMiddleware(&log, "engine"))

	api := e.Group("/api")
	api.UseMiddleware(tagMiddleware(&log, "api"))
	v1 := api.Group("/v1")
	v1.UseMiddleware(tagMiddleware(&log, "v1"))

	v1.Get("/ping", func(c *Context) {
		log = append(log, "H")
		c.Status(http.StatusOK)
	})

	performRequest(e, "GET", "/api/v1/ping")

	want := []string{
		"engine-before", "api-before", "v1-before",
		"H",
		"v1-after", "api-after", "engine-after",
	}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("Expected order %v, got %v", want, log)
	}
}

func TestGroup_OptionsAndHead(t *testing.T) {
	e := NewEngine()
	api := e.Group("/api")
	api.Options("/things", func(c *Context) {
		c.Header("Allow", "GET, OPTIONS")
		c.Status(http.StatusNoContent)
	})
	api.Head("/things", func(c *Context) {
		c.Header("X-Total", "3")
		c.Status(http.StatusOK)
	})
	api.Handle(http.MethodTrace, "/things", func(c *Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(e, "OPTIONS", "/api/things")
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}
	if w.Header().Get("Allow") != "GET, OPTIONS" {
		t.Errorf("Expected Allow header from OPTIONS route, got %q", w.Header().Get("Allow"))
	}

	w = performRequest(e, "HEAD", "/api/things")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("X-Total") != "3" {
		t.Errorf("Expected header from HEAD route, got %q", w.Header().Get("X-Total"))
	}

	w = performRequest(e, "TRACE", "/api/things")
	if w.Code != http.StatusOK {
		t.Errorf("Expected Handle to register arbitrary methods, got %d", w.Code)
	}
}

func TestRouter_OptionsAndHead(t *testing.T) {
	sub := NewRouter()
	sub.Options("/x", func(c *Context) { c.Status(http.StatusNoContent) })
	sub.Head("/x", func(c *Context) { c.Status(http.StatusOK) })

	e := NewEngine()
	if err := e.Mount("/m", sub); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}

	if w := performRequest(e, "OPTIONS", "/m/x"); w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w := performRequest(e, "HEAD", "/m/x"); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestRouter_Mount(t *testing.T) {
	users := NewRouter()
	users.Get("/", func(c *Context) { c.SendString(http.StatusOK, "list:"+c.Param("tenant")) })
	users.Get("/:id", func(c *Context) {
		c.SendString(http.StatusOK, c.Param("tenant")+"/"+c.Param("id"))
	})

	e := NewEngine()
	if err := e.Mount("/t/:tenant/users", users); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}

	w := performRequest(e, "GET", "/t/acme/users")
	if w.Body.String() != "list:acme" {
		t.Errorf("Expected prefix param in sub-route, got %q", w.Body.String())
	}

	w = performRequest(e, "GET", "/t/acme/users/5")
	if w.Body.String() != "acme/5" {
		t.Errorf("Expected combined params, got %q", w.Body.String())
	}
}

func TestRouter_MountParamNameClash(t *testing.T) {
	sub := NewRouter()
	sub.Get("/:id/history", func(c *Context) { c.Status(http.StatusOK) })

	e := NewEngine()
	err := e.Mount("/records/:id", sub)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError for clashing param names, got %v", err)
	}
	if e.Err == nil {
		t.Error("Expected mount failure to be recorded on the engine")
	}
}

func TestRouter_MountMiddleware(t *testing.T) {
	var log []string
	sub := NewRouter()
	sub.UseMiddleware(tagMiddleware(&log, "sub"))
	sub.Get("/x", func(c *Context) {
		log = append(log, "H")
		c.Status(http.StatusOK)
	}, tagMiddleware(&log, "route"))

	e := NewEngine()
	e.UseMiddleware(tagMiddleware(&log, "engine"))
	if err := e.Mount("/m", sub); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}

	performRequest(e, "GET", "/m/x")

	want := []string{
		"engine-before", "sub-before", "route-before",
		"H",
		"route-after", "sub-after", "engine-after",
	}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("Expected order %v, got %v", want, log)
	}
}

func TestRouter_BadPatternRecorded(t *testing.T) {
	sub := NewRouter()
	sub.Get("no-slash", func(c *Context) { c.Status(http.StatusOK) })

	if sub.Err == nil {
		t.Fatal("Expected sub-router to record the pattern error")
	}

	e := NewEngine()
	if err := e.Mount("/m", sub); err == nil {
		t.Error("Expected Mount to surface the recorded error")
	}
}
