package ftcontract_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/token-launcher/pkg/ftcontract"
)

func TestCreateTokenArgs(t *testing.T) {
	args := ftcontract.CreateTokenArgs{
		TokenAccountID: "tkn.factory.testnet",
		InitArgs: ftcontract.NewInitArgs(
			"owner.testnet", "tkn", "TKN", "1000",
		),
	}
	buf, err := json.Marshal(args)
	require.NoError(t, err)

	m := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf, &m))
	require.Equal(t, "tkn.factory.testnet", m["token_account_id"])
	require.Equal(t, "owner.testnet", m["owner_id"])
	require.Equal(t, "1000", m["total_supply"])
	require.Equal(t, float64(24), m["decimals"])
	require.Equal(t, ftcontract.ReferenceHash, m["reference_hash"])
}

func TestChangeMethods(t *testing.T) {
	methods := ftcontract.ChangeMethods()
	require.Len(t, methods, 9)
	methods[0] = "changed"
	require.Equal(t, ftcontract.MethodNew, ftcontract.ChangeMethods()[0])
	require.Equal(
		t,
		"new,create_token,add_guest,claim_drop,upgrade_guest,get_predecessor,ft_transfer,ft_transfer_guest,storage_deposit",
		ftcontract.JoinedChangeMethods(),
	)
}
