package domain

import (
	"strings"
	"time"
)

type GuestStatus string

const (
	GuestActive   GuestStatus = "ACTIVE"
	GuestUpgraded GuestStatus = "UPGRADED"
	GuestRemoved  GuestStatus = "REMOVED"
)

// Guest mirrors an entry of a token contract guest registry. The contract is
// the source of truth, records are reconciled against it on demand.
type Guest struct {
	PublicKey string
	AccountID string
	TokenID   string
	Status    GuestStatus
	IntentID  string
	CreatedAt int64
	UpdatedAt int64
}

// ValidateGuestAccountID checks that accountID is a direct sub-account of
// the token account.
func ValidateGuestAccountID(accountID, tokenID string) error {
	name := strings.TrimSuffix(accountID, "."+tokenID)
	if name == accountID || !accountSegmentRegexp.MatchString(name) {
		return ErrGuestInvalidAccountID
	}
	return nil
}

func NewGuest(tokenID, accountID, publicKey string) (*Guest, error) {
	if len(tokenID) <= 0 {
		return nil, ErrGuestMissingToken
	}
	if len(publicKey) <= 0 {
		return nil, ErrGuestMissingPublicKey
	}
	if err := ValidateGuestAccountID(accountID, tokenID); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	return &Guest{
		PublicKey: publicKey,
		AccountID: accountID,
		TokenID:   tokenID,
		Status:    GuestActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Key uniquely identifies the guest across tokens.
func (g *Guest) Key() string {
	return GuestKey(g.TokenID, g.PublicKey)
}

func GuestKey(tokenID, publicKey string) string {
	return tokenID + ":" + publicKey
}

func (g *Guest) IsActive() bool {
	return g.Status == GuestActive
}

func (g *Guest) MarkUpgraded() error {
	if !g.IsActive() {
		return ErrGuestNotActive
	}
	g.Status = GuestUpgraded
	g.UpdatedAt = time.Now().Unix()
	return nil
}

func (g *Guest) MarkRemoved() error {
	if !g.IsActive() {
		return ErrGuestNotActive
	}
	g.Status = GuestRemoved
	g.UpdatedAt = time.Now().Unix()
	return nil
}

// Reactivate brings a removed guest back to the registry, possibly under a
// different account id.
func (g *Guest) Reactivate(accountID, intentID string) error {
	if g.Status != GuestRemoved {
		return ErrGuestAlreadyExists
	}
	if err := ValidateGuestAccountID(accountID, g.TokenID); err != nil {
		return err
	}
	g.AccountID = accountID
	g.IntentID = intentID
	g.Status = GuestActive
	g.UpdatedAt = time.Now().Unix()
	return nil
}
