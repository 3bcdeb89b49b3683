package gecko

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
)

// StaticConfig controls static file serving.
type StaticConfig struct {
	// Root directory that files are served from.
	Root string
	// Index file served for directory requests. Empty disables it.
	Index string
	// MaxAge for the Cache-Control header, in seconds.
	MaxAge int
}

// Static serves files below root under the given prefix, with index.html
// for directories.
func (e *Engine) Static(prefix, root string) {
	e.StaticWithConfig(prefix, StaticConfig{Root: root, Index: "index.html"})
}

// StaticWithConfig serves files below cfg.Root under the given prefix.
// It registers a wildcard GET route, so more specific routes under the same
// prefix still win.
func (e *Engine) StaticWithConfig(prefix string, cfg StaticConfig) {
	handler := staticHandler(cfg)
	e.Get(joinPattern(prefix, "/*filepath"), handler)
	e.Get(prefix, handler)
}

func staticHandler(cfg StaticConfig) HandlerFunc {
	return func(c *Context) {
		// Rooted clean keeps the request inside cfg.Root.
		rel := path.Clean("/" + c.Param("filepath"))
		full := filepath.Join(cfg.Root, filepath.FromSlash(rel))

		info, err := os.Stat(full)
		if err != nil {
			c.SendJSON(http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}

		if info.IsDir() {
			if cfg.Index == "" {
				c.SendJSON(http.StatusNotFound, map[string]string{"error": "not found"})
				return
			}
			full = filepath.Join(full, cfg.Index)
			if _, err := os.Stat(full); err != nil {
				c.SendJSON(http.StatusNotFound, map[string]string{"error": "not found"})
				return
			}
		}

		if cfg.MaxAge > 0 {
			c.Header("Cache-Control", "public, max-age="+strconv.Itoa(cfg.MaxAge))
		}
		http.ServeFile(c.Writer(), c.Request(), full)
	}
}
