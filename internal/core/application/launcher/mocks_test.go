package launcher_test

import (
	"context"
	"math/big"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/tdex-network/token-launcher/pkg/near"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) FunctionCall(
	ctx context.Context, signer ports.Signer, contractID, method string,
	args interface{}, deposit *big.Int,
) (*ports.Outcome, error) {
	a := m.Called(ctx, signer, contractID, method, args, deposit)
	var res *ports.Outcome
	if r := a.Get(0); r != nil {
		res = r.(*ports.Outcome)
	}
	return res, a.Error(1)
}

func (m *mockLedger) ViewFunction(
	ctx context.Context, contractID, method string, args interface{},
) ([]byte, error) {
	a := m.Called(ctx, contractID, method, args)
	var res []byte
	if r := a.Get(0); r != nil {
		res = r.([]byte)
	}
	return res, a.Error(1)
}

func (m *mockLedger) AddFunctionCallKey(
	ctx context.Context, signer ports.Signer, publicKey, receiverID string,
	methodNames []string, allowance *big.Int,
) (*ports.Outcome, error) {
	a := m.Called(ctx, signer, publicKey, receiverID, methodNames, allowance)
	var res *ports.Outcome
	if r := a.Get(0); r != nil {
		res = r.(*ports.Outcome)
	}
	return res, a.Error(1)
}

func (m *mockLedger) DeleteKey(
	ctx context.Context, signer ports.Signer, publicKey string,
) (*ports.Outcome, error) {
	a := m.Called(ctx, signer, publicKey)
	var res *ports.Outcome
	if r := a.Get(0); r != nil {
		res = r.(*ports.Outcome)
	}
	return res, a.Error(1)
}

func (m *mockLedger) CreateAccount(
	ctx context.Context, signer ports.Signer, accountID, publicKey string,
	amount *big.Int,
) (*ports.Outcome, error) {
	a := m.Called(ctx, signer, accountID, publicKey, amount)
	var res *ports.Outcome
	if r := a.Get(0); r != nil {
		res = r.(*ports.Outcome)
	}
	return res, a.Error(1)
}

func (m *mockLedger) DeployAndInit(
	ctx context.Context, signer ports.Signer, code []byte, initArgs interface{},
) (*ports.Outcome, error) {
	a := m.Called(ctx, signer, code, initArgs)
	var res *ports.Outcome
	if r := a.Get(0); r != nil {
		res = r.(*ports.Outcome)
	}
	return res, a.Error(1)
}

func (m *mockLedger) AccountExists(
	ctx context.Context, accountID string,
) (bool, error) {
	a := m.Called(ctx, accountID)
	return a.Bool(0), a.Error(1)
}

func (m *mockLedger) HasAccessKey(
	ctx context.Context, accountID, publicKey string,
) (bool, error) {
	a := m.Called(ctx, accountID, publicKey)
	return a.Bool(0), a.Error(1)
}

func (m *mockLedger) LatestBlockHeight(ctx context.Context) (uint64, error) {
	a := m.Called(ctx)
	return a.Get(0).(uint64), a.Error(1)
}

func (m *mockLedger) ListAccessKeys(
	ctx context.Context, accountID string,
) ([]ports.AccessKey, error) {
	a := m.Called(ctx, accountID)
	var res []ports.AccessKey
	if r := a.Get(0); r != nil {
		res = r.([]ports.AccessKey)
	}
	return res, a.Error(1)
}

type keystoreStub struct {
	owner   string
	key     *near.KeyPair
	sponsor *near.KeyPair
}

func newKeystoreStub(owner string) *keystoreStub {
	key, _ := near.GenerateKeyPair()
	sponsor, _ := near.GenerateKeyPair()
	return &keystoreStub{owner, key, sponsor}
}

func (k *keystoreStub) OwnerAccountID() string {
	return k.owner
}

func (k *keystoreStub) OwnerSigner() ports.Signer {
	return ports.Signer{AccountID: k.owner, Key: k.key}
}

func (k *keystoreStub) SponsorSigner() ports.Signer {
	return ports.Signer{AccountID: "guests." + k.owner, Key: k.sponsor}
}

func (k *keystoreStub) SignerFor(accountID string) ports.Signer {
	return ports.Signer{AccountID: accountID, Key: k.key}
}
