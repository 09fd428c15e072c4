package security

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// CORS makes the API reachable from browser clients served on other
// hosts (landing page and dashboard both run on their own origins).
type CORS struct {
	allowedOrigins []string
}

func NewCORS(allowedOrigins []string) *CORS {
	return &CORS{allowedOrigins: allowedOrigins}
}

// Middleware attaches the CORS headers to every matched route.
func (c *CORS) Middleware() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		c.applyHeaders(e)
		if e.Request.Method == http.MethodOptions {
			return e.NoContent(http.StatusNoContent)
		}
		return e.Next()
	}
}

// FallbackHandler answers preflight requests for any path and turns
// everything else into a 404. Registered as the catch-all route so
// OPTIONS requests never miss the middleware chain.
func (c *CORS) FallbackHandler() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		c.applyHeaders(e)
		if e.Request.Method == http.MethodOptions {
			return e.NoContent(http.StatusNoContent)
		}
		return e.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
}

func (c *CORS) applyHeaders(e *core.RequestEvent) {
	header := e.Response.Header()
	header.Set("Vary", "Origin")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type")

	origin := e.Request.Header.Get("Origin")
	switch {
	case c.allowsAll():
		header.Set("Access-Control-Allow-Origin", "*")
	case c.originAllowed(origin):
		header.Set("Access-Control-Allow-Origin", origin)
		header.Set("Access-Control-Allow-Credentials", "true")
	}
}

func (c *CORS) allowsAll() bool {
	for _, allowed := range c.allowedOrigins {
		if allowed == "*" {
			return true
		}
	}
	return false
}

func (c *CORS) originAllowed(origin string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range c.allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
