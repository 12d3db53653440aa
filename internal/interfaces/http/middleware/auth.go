package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tdex-network/token-launcher/internal/interfaces/http/permissions"
	"github.com/tdex-network/token-launcher/pkg/macaroons"
	"gopkg.in/macaroon-bakery.v2/bakery"
)

// macaroonQueryKey lets browser websocket clients, which can't set custom
// headers, authenticate through the query string.
const macaroonQueryKey = "macaroon"

func authHandler(
	macaroonSvc *macaroons.Service,
	whitelist map[permissions.Route]struct{},
	permissionMap map[permissions.Route][]bakery.Op,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := currentRoute(r)
			if _, ok := whitelist[route]; ok {
				next.ServeHTTP(w, r)
				return
			}

			routePermissions, ok := permissionMap[route]
			if !ok {
				unauthorized(w, fmt.Errorf(
					"%s: unknown permissions required for route", route,
				))
				return
			}

			macBytes, err := macaroonFromRequest(r)
			if err != nil {
				unauthorized(w, err)
				return
			}
			if err := macaroonSvc.ValidateMacaroon(
				r.Context(), macBytes, routePermissions,
			); err != nil {
				unauthorized(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func macaroonFromRequest(r *http.Request) ([]byte, error) {
	macBytes, err := macaroons.FromHeader(r.Header)
	if err == macaroons.ErrMissingMacaroon {
		if encoded := r.URL.Query().Get(macaroonQueryKey); len(encoded) > 0 {
			header := http.Header{}
			header.Set(macaroons.HeaderKey, encoded)
			return macaroons.FromHeader(header)
		}
	}
	return macBytes, err
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	// nolint
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}
