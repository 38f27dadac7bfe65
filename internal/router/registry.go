package router

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/pterm/pterm"

	"github.com/thushan/olla-explorer/internal/core/constants"
	"github.com/thushan/olla-explorer/internal/logger"
	"github.com/thushan/olla-explorer/internal/util"
)

const (
	errMethodNotAllowed = "Method not allowed"
	errNotFound         = "Not found"
)

type RouteInfo struct {
	Handler     http.HandlerFunc
	Description string
	Method      string
	Order       int
	Secured     bool
}

// RouteRegistry collects our routes so they can be wired onto a mux in one go
// and printed as a table at startup.
type RouteRegistry struct {
	routes   map[string]RouteInfo
	logger   logger.StyledLogger
	out      io.Writer
	orderSeq int
}

func NewRouteRegistry(log logger.StyledLogger) *RouteRegistry {
	return &RouteRegistry{
		routes: make(map[string]RouteInfo),
		logger: log,
		out:    os.Stdout,
	}
}

// WithOutput redirects the startup route table, tests send it to io.Discard.
func (r *RouteRegistry) WithOutput(w io.Writer) *RouteRegistry {
	r.out = w
	return r
}

func (r *RouteRegistry) Register(route string, handler http.HandlerFunc, description string) {
	r.RegisterWithMethod(route, handler, description, http.MethodGet)
}

func (r *RouteRegistry) RegisterWithMethod(route string, handler http.HandlerFunc, description, method string) {
	r.register(route, handler, description, method, false)
}

// RegisterSecured marks the route to run behind the security chain handed to WireUp.
func (r *RouteRegistry) RegisterSecured(route string, handler http.HandlerFunc, description, method string) {
	r.register(route, handler, description, method, true)
}

func (r *RouteRegistry) register(route string, handler http.HandlerFunc, description, method string, secured bool) {
	r.routes[route] = RouteInfo{
		Handler:     handler,
		Description: description,
		Method:      method,
		Order:       r.orderSeq,
		Secured:     secured,
	}
	r.orderSeq++
}

// WireUp mounts every route on mux. Method mismatches get a JSON 405 before
// the security chain runs so they never burn a rate limit token, anything
// unregistered falls through to a JSON 404.
func (r *RouteRegistry) WireUp(mux *http.ServeMux, security func(http.Handler) http.Handler) {
	for route, info := range r.routes {
		var handler http.Handler = info.Handler
		if info.Secured && security != nil {
			handler = security(handler)
		}
		mux.Handle(pattern(route), methodGuard(info.Method, handler))
	}

	mux.HandleFunc(constants.PathIndex, NotFound)

	r.logRoutesTable()
}

// the root route should only answer "/", not act as the mux's catch-all
func pattern(route string) string {
	if route == constants.PathIndex {
		return "/{$}"
	}
	return route
}

func methodGuard(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method == method || (method == http.MethodGet && req.Method == http.MethodHead) {
			next.ServeHTTP(w, req)
			return
		}
		w.Header().Set("Allow", method)
		util.WriteJSONError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
	})
}

func NotFound(w http.ResponseWriter, _ *http.Request) {
	util.WriteJSONError(w, http.StatusNotFound, errNotFound)
}

func (r *RouteRegistry) logRoutesTable() {
	if len(r.routes) == 0 {
		return
	}

	type routeEntry struct {
		path   string
		method string
		desc   string
		order  int
	}

	entries := make([]routeEntry, 0, len(r.routes))
	for route, info := range r.routes {
		method := info.Method
		if info.Secured {
			method += " *"
		}
		entries = append(entries, routeEntry{
			path:   route,
			method: method,
			desc:   info.Description,
			order:  info.Order,
		})
	}

	slices.SortFunc(entries, func(a, b routeEntry) int {
		return a.order - b.order
	})

	tableData := [][]string{
		{"ROUTE", "METHOD", "DESCRIPTION"},
	}
	for _, entry := range entries {
		tableData = append(tableData, []string{entry.path, entry.method, entry.desc})
	}

	r.logger.InfoWithCount("Registered web routes", len(entries))
	tableString, err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
	if err != nil {
		r.logger.Debug("Unable to render route table", "error", err)
		return
	}
	fmt.Fprint(r.out, strings.TrimRight(tableString, "\n")+"\n")
}

func (r *RouteRegistry) GetRoutes() map[string]RouteInfo {
	return r.routes
}
