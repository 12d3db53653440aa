package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/token-launcher/internal/interfaces/http/permissions"
)

func TestRestrictedRoutesAreNotWhitelisted(t *testing.T) {
	whitelist := permissions.Whitelist()
	for route, ops := range permissions.AllPermissionsByRoute() {
		_, ok := whitelist[route]
		require.False(t, ok, route.String())
		require.NotEmpty(t, ops, route.String())
	}
}

func TestReadOnlyCannotWrite(t *testing.T) {
	for _, op := range permissions.ReadOnlyPermissions() {
		require.Equal(t, permissions.ActionRead, op.Action)
	}
	require.Len(
		t, permissions.AdminPermissions(), 2*len(permissions.ReadOnlyPermissions()),
	)
}
