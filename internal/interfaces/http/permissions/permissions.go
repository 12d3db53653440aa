package permissions

import (
	"fmt"
	"net/http"

	"gopkg.in/macaroon-bakery.v2/bakery"
)

const (
	EntityToken   = "token"
	EntityGuest   = "guest"
	EntityIntent  = "intent"
	EntityWebhook = "webhook"
	EntityEvents  = "events"

	ActionRead  = "read"
	ActionWrite = "write"
)

var entities = []string{
	EntityToken, EntityGuest, EntityIntent, EntityWebhook, EntityEvents,
}

// Route identifies an endpoint by method and path template.
type Route struct {
	Method string
	Path   string
}

func (r Route) String() string {
	return fmt.Sprintf("%s %s", r.Method, r.Path)
}

// ReadOnlyPermissions returns the permissions of the macaroon readonly.macaroon.
// This grants access to the read action for all entities.
func ReadOnlyPermissions() []bakery.Op {
	ops := make([]bakery.Op, 0, len(entities))
	for _, entity := range entities {
		ops = append(ops, bakery.Op{Entity: entity, Action: ActionRead})
	}
	return ops
}

// AdminPermissions returns the permissions of the macaroon admin.macaroon.
// This grants access to all actions for all entities.
func AdminPermissions() []bakery.Op {
	ops := make([]bakery.Op, 0, 2*len(entities))
	for _, entity := range entities {
		ops = append(
			ops,
			bakery.Op{Entity: entity, Action: ActionRead},
			bakery.Op{Entity: entity, Action: ActionWrite},
		)
	}
	return ops
}

// Whitelist returns the routes that don't require a macaroon. Some of them
// are guarded by an access key proof instead.
func Whitelist() map[Route]struct{} {
	return map[Route]struct{}{
		{http.MethodPost, "/balance-of"}:         {},
		{http.MethodPost, "/total-supply"}:       {},
		{http.MethodPost, "/storage-balance-of"}: {},
		{http.MethodPost, "/get-guest"}:          {},
		{http.MethodPost, "/storage-deposit"}:    {},
		{http.MethodPost, "/has-access-key"}:     {},
		{http.MethodGet, "/metrics"}:             {},
	}
}

// AllPermissionsByRoute returns the permissions required by every restricted
// route.
func AllPermissionsByRoute() map[Route][]bakery.Op {
	return map[Route][]bakery.Op{
		{http.MethodPost, "/launch-token"}: {{
			Entity: EntityToken,
			Action: ActionWrite,
		}},
		{http.MethodPost, "/transfer-tokens"}: {{
			Entity: EntityToken,
			Action: ActionWrite,
		}},
		{http.MethodPost, "/mint"}: {{
			Entity: EntityToken,
			Action: ActionWrite,
		}},
		{http.MethodPost, "/update-drop-amount"}: {{
			Entity: EntityToken,
			Action: ActionWrite,
		}},
		{http.MethodPost, "/add-key"}: {{
			Entity: EntityToken,
			Action: ActionWrite,
		}},
		{http.MethodPost, "/delete-access-keys"}: {{
			Entity: EntityToken,
			Action: ActionWrite,
		}},
		{http.MethodGet, "/tokens"}: {{
			Entity: EntityToken,
			Action: ActionRead,
		}},
		{http.MethodPost, "/add-guest"}: {{
			Entity: EntityGuest,
			Action: ActionWrite,
		}},
		{http.MethodPost, "/remove-guest"}: {{
			Entity: EntityGuest,
			Action: ActionWrite,
		}},
		{http.MethodPost, "/guests/reconcile"}: {{
			Entity: EntityGuest,
			Action: ActionWrite,
		}},
		{http.MethodGet, "/guests"}: {{
			Entity: EntityGuest,
			Action: ActionRead,
		}},
		{http.MethodGet, "/intents"}: {{
			Entity: EntityIntent,
			Action: ActionRead,
		}},
		{http.MethodPost, "/intents/resolve"}: {{
			Entity: EntityIntent,
			Action: ActionWrite,
		}},
		{http.MethodPost, "/webhooks"}: {{
			Entity: EntityWebhook,
			Action: ActionWrite,
		}},
		{http.MethodDelete, "/webhooks/{id}"}: {{
			Entity: EntityWebhook,
			Action: ActionWrite,
		}},
		{http.MethodGet, "/webhooks"}: {{
			Entity: EntityWebhook,
			Action: ActionRead,
		}},
		{http.MethodGet, "/events"}: {{
			Entity: EntityEvents,
			Action: ActionRead,
		}},
	}
}
