package guestwallet

// Entry is a guest account cached on disk. SeedPhrase is encrypted with
// the wallet password.
type Entry struct {
	AccountID  string `json:"accountId"`
	PublicKey  string `json:"publicKey"`
	SeedPhrase string `json:"seedPhrase"`
	Balance    string `json:"balance"`
	Upgraded   bool   `json:"upgraded"`
	Stale      bool   `json:"stale"`
	Created    int64  `json:"created"`
}

// canSignAsGuest tells whether the entry key is still a guest key of the
// sponsor account.
func (e Entry) canSignAsGuest() error {
	if e.Upgraded {
		return ErrGuestUpgraded
	}
	if e.Stale {
		return ErrGuestStale
	}
	return nil
}
