package gecko

import (
	"strings"
)

// HandlerFunc is the terminal handler for a matched route.
type HandlerFunc func(c *Context)

// MiddlewareFunc wraps request handling. A middleware must either call
// c.Next() to hand control to the next unit or write a response itself;
// doing neither is treated as a fault by the engine.
type MiddlewareFunc func(c *Context)

// Param is a single extracted path parameter. Params keep the order in which
// their segments appear in the pattern.
type Param struct {
	Key   string
	Value string
}

// Route describes a registered route. Exposed for startup listings only.
type Route struct {
	Method  string
	Pattern string
}

type segmentKind int

const (
	segStatic segmentKind = iota
	segParam
	segWildcard
)

type segment struct {
	kind segmentKind
	// literal text for static segments, parameter name otherwise
	value string
}

// parsePattern splits a route pattern into segments and validates it.
// Named parameters use ":name" and a trailing wildcard uses "*name".
func parsePattern(pattern string) ([]segment, error) {
	if len(pattern) == 0 || pattern[0] != '/' {
		return nil, ErrPatternMustStartWithSlash
	}

	// Repeated and trailing slashes contribute nothing; request paths are
	// split the same way, so "/users//x" and "/users/x" are one pattern.
	parts := make([]string, 0, strings.Count(pattern, "/"))
	for _, part := range strings.Split(pattern, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}

	segments := make([]segment, 0, len(parts))
	seen := make(map[string]struct{})

	for i, part := range parts {
		switch {
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" {
				return nil, ErrEmptyParamName
			}
			if _, dup := seen[name]; dup {
				return nil, &ConflictError{Pattern: pattern, Reason: "duplicate parameter name :" + name}
			}
			seen[name] = struct{}{}
			segments = append(segments, segment{kind: segParam, value: name})
		case strings.HasPrefix(part, "*"):
			name := part[1:]
			if name == "" {
				return nil, ErrEmptyParamName
			}
			if i != len(parts)-1 {
				return nil, ErrWildcardNotLast
			}
			if _, dup := seen[name]; dup {
				return nil, &ConflictError{Pattern: pattern, Reason: "duplicate parameter name *" + name}
			}
			segments = append(segments, segment{kind: segWildcard, value: name})
		default:
			segments = append(segments, segment{kind: segStatic, value: part})
		}
	}

	return segments, nil
}

// joinPattern concatenates a mount prefix and a sub-route pattern into one
// normalized pattern string.
func joinPattern(prefix, pattern string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if pattern == "/" || pattern == "" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	return prefix + pattern
}
