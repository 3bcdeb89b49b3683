package gecko

import (
	"net/url"
	"strings"
)

// routeEntry is the value stored at a terminal trie node. The middleware
// chain is composed once at registration time, not per request.
type routeEntry struct {
	pattern string
	chain   []MiddlewareFunc
}

// node is a single segment of the route trie. Each method owns one tree.
// Static children, the parameter child and the wildcard child coexist;
// matching tries them in that order, so a literal always wins over :param
// and *wildcard only fires when nothing more specific matched.
type node struct {
	static       map[string]*node
	param        *node
	paramName    string
	wildcard     *routeEntry
	wildcardName string
	entry        *routeEntry
}

func (n *node) insert(method, pattern string, segments []segment, entry *routeEntry) error {
	cur := n
	for _, seg := range segments {
		switch seg.kind {
		case segStatic:
			if cur.static == nil {
				cur.static = make(map[string]*node)
			}
			child := cur.static[seg.value]
			if child == nil {
				child = &node{}
				cur.static[seg.value] = child
			}
			cur = child
		case segParam:
			if cur.param == nil {
				cur.param = &node{}
				cur.paramName = seg.value
			} else if cur.paramName != seg.value {
				return &ConflictError{
					Method:  method,
					Pattern: pattern,
					Reason:  "parameter :" + seg.value + " conflicts with existing :" + cur.paramName,
				}
			}
			cur = cur.param
		case segWildcard:
			if cur.wildcard != nil {
				return &ConflictError{
					Method:  method,
					Pattern: pattern,
					Reason:  "wildcard already registered as pattern " + cur.wildcard.pattern,
				}
			}
			cur.wildcard = entry
			cur.wildcardName = seg.value
			return nil
		}
	}

	if cur.entry != nil {
		return &ConflictError{
			Method:  method,
			Pattern: pattern,
			Reason:  "duplicate of pattern " + cur.entry.pattern,
		}
	}
	cur.entry = entry
	return nil
}

// match walks the tree with backtracking: static child first, then the
// parameter child, then the wildcard. A wildcard consumes at least one
// segment.
func (n *node) match(segments []string, params []Param) (*routeEntry, []Param) {
	if len(segments) == 0 {
		if n.entry != nil {
			return n.entry, params
		}
		return nil, nil
	}

	if n.static != nil {
		if child, ok := n.static[segments[0]]; ok {
			if entry, p := child.match(segments[1:], params); entry != nil {
				return entry, p
			}
		}
	}

	if n.param != nil {
		p := append(params, Param{Key: n.paramName, Value: segments[0]})
		if entry, p := n.param.match(segments[1:], p); entry != nil {
			return entry, p
		}
	}

	if n.wildcard != nil {
		return n.wildcard, append(params, Param{Key: n.wildcardName, Value: strings.Join(segments, "/")})
	}

	return nil, nil
}

// splitPath splits a raw (still escaped) request path into segments and
// percent-decodes each one. Decoding happens here, after splitting, exactly
// once; handlers only ever see decoded values. Empty segments from repeated
// or trailing slashes are dropped, so a parameter can never capture an empty
// string. An undecodable segment makes the whole path unmatchable.
func splitPath(escaped string) ([]string, bool) {
	var segments []string
	for _, part := range strings.Split(escaped, "/") {
		if part == "" {
			continue
		}
		decoded, err := url.PathUnescape(part)
		if err != nil {
			return nil, false
		}
		segments = append(segments, decoded)
	}
	return segments, true
}
