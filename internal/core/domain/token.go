package domain

import (
	"math/big"
	"regexp"
	"strings"
	"time"
)

var accountSegmentRegexp = regexp.MustCompile(`^[a-z0-9]+([-_][a-z0-9]+)*$`)

// TokenAccountID returns the id of the account hosting the token contract
// named name, ie. a direct sub-account of the owner.
func TokenAccountID(name, ownerID string) string {
	return name + "." + ownerID
}

// GuestsAccountID returns the id of the account sponsoring the guests of
// the given owner.
func GuestsAccountID(ownerID string) string {
	return "guests." + ownerID
}

// Token is a fungible token contract launched by the daemon.
type Token struct {
	ID          string
	Name        string
	Symbol      string
	TotalSupply string
	Continuous  bool
	OwnerID     string
	IntentID    string
	CreatedAt   int64
}

func NewToken(
	name, symbol, totalSupply string, continuous bool, ownerID string,
) (*Token, error) {
	if !accountSegmentRegexp.MatchString(name) {
		return nil, ErrTokenInvalidName
	}
	if len(strings.TrimSpace(symbol)) <= 0 {
		return nil, ErrTokenMissingSymbol
	}
	if !isPositiveInteger(totalSupply) {
		return nil, ErrTokenInvalidSupply
	}
	if len(ownerID) <= 0 {
		return nil, ErrTokenMissingOwner
	}

	return &Token{
		ID:          TokenAccountID(name, ownerID),
		Name:        name,
		Symbol:      symbol,
		TotalSupply: totalSupply,
		Continuous:  continuous,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().Unix(),
	}, nil
}

func isPositiveInteger(str string) bool {
	v, ok := new(big.Int).SetString(str, 10)
	return ok && v.Sign() > 0
}
