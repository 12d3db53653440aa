package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tdex-network/token-launcher/internal/interfaces/http/permissions"
	"github.com/tdex-network/token-launcher/pkg/macaroons"
)

// Middlewares returns the chain of middlewares to plug into the router, in
// order of execution: logging, metrics (only if reg is defined) and
// macaroon auth (only if macaroonSvc is defined).
func Middlewares(
	macaroonSvc *macaroons.Service, reg prometheus.Registerer,
) ([]mux.MiddlewareFunc, error) {
	mws := []mux.MiddlewareFunc{logger}

	if reg != nil {
		m, err := newMetrics(reg)
		if err != nil {
			return nil, err
		}
		mws = append(mws, m.handler)
	}

	if macaroonSvc != nil {
		mws = append(mws, authHandler(
			macaroonSvc,
			permissions.Whitelist(),
			permissions.AllPermissionsByRoute(),
		))
	}

	return mws, nil
}

// currentRoute returns the method and path template matched by the router.
func currentRoute(r *http.Request) permissions.Route {
	route := permissions.Route{Method: r.Method, Path: r.URL.Path}
	if current := mux.CurrentRoute(r); current != nil {
		if tpl, err := current.GetPathTemplate(); err == nil {
			route.Path = tpl
		}
	}
	return route
}
