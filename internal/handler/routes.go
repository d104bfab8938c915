package handler

import (
	"net/http"
	"net/url"
	"strings"

	"obsidian-relay/internal/deeplink"
	"obsidian-relay/internal/middleware"

	"github.com/gorilla/mux"
)

// Route pairs a request predicate with the handler serving it. Routes are
// tried in order and the first match wins.
type Route struct {
	Name    string
	Match   func(r *http.Request) bool
	Handler http.Handler
}

type RouteDeps struct {
	Redirects    *RedirectHandler
	Pages        *PageHandler
	Publish      *PublishHandler
	PublishToken string
	TokenHash    string
}

// Routes returns the dispatch table. Note and API paths come before the
// /<vault>/<file> shorthand, which would otherwise claim them.
func Routes(deps RouteDeps) []Route {
	protect := middleware.PublishTokenMiddleware(deps.PublishToken, deps.TokenHash)

	return []Route{
		{
			Name:    "health",
			Match:   methodPath(http.MethodGet, "/health"),
			Handler: http.HandlerFunc(deps.Redirects.Health),
		},
		{
			Name:    "note",
			Match:   methodPrefix(http.MethodGet, "/s/"),
			Handler: http.HandlerFunc(deps.Pages.View),
		},
		{
			Name:    "publish",
			Match:   methodPath(http.MethodPut, "/api/publish"),
			Handler: protect(http.HandlerFunc(deps.Publish.Publish)),
		},
		{
			Name:    "unpublish",
			Match:   methodUnder(http.MethodDelete, "/api/publish/"),
			Handler: protect(http.HandlerFunc(deps.Publish.Unpublish)),
		},
		{
			Name:    "published",
			Match:   methodPath(http.MethodGet, "/api/published"),
			Handler: protect(http.HandlerFunc(deps.Publish.List)),
		},
		{
			Name:    "open",
			Match:   methodPath(http.MethodGet, "/open"),
			Handler: http.HandlerFunc(deps.Redirects.Open),
		},
		{
			Name:    "shorthand",
			Match:   isShorthand,
			Handler: http.HandlerFunc(deps.Redirects.Shorthand),
		},
		{
			Name:    "usage",
			Match:   func(*http.Request) bool { return true },
			Handler: http.HandlerFunc(deps.Redirects.Usage),
		},
	}
}

// NewRouter mounts routes on a gorilla/mux router in table order. Paths are
// matched in their escaped form so %2F inside a file path survives.
func NewRouter(routes []Route, mws ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.SkipClean(true)
	r.UseEncodedPath()

	for _, route := range routes {
		match := route.Match
		r.MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
			return match(req)
		}).Handler(route.Handler).Name(route.Name)
	}

	r.Use(mws...)
	return r
}

// Match returns the first route accepting r.
func Match(routes []Route, r *http.Request) (Route, bool) {
	for _, route := range routes {
		if route.Match(r) {
			return route, true
		}
	}
	return Route{}, false
}

func methodPath(method, path string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		return r.Method == method && r.URL.EscapedPath() == path
	}
}

// methodPrefix matches prefix followed by exactly one non-empty segment.
func methodPrefix(method, prefix string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if r.Method != method {
			return false
		}
		_, ok := trailingSegment(r, prefix)
		return ok
	}
}

// methodUnder matches every path below prefix, including the bare prefix,
// so the handler decides how to reject a malformed tail.
func methodUnder(method, prefix string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		return r.Method == method && strings.HasPrefix(r.URL.EscapedPath(), prefix)
	}
}

func isShorthand(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	_, _, ok := deeplink.SplitShorthand(r.URL.EscapedPath())
	return ok
}

func trailingSegment(r *http.Request, prefix string) (string, bool) {
	path := r.URL.EscapedPath()
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	segment := strings.TrimPrefix(path, prefix)
	if segment == "" || strings.Contains(segment, "/") {
		return "", false
	}
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", false
	}
	return decoded, true
}
