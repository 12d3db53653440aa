package ports

// Keystore hands out the signing contexts of the accounts controlled by the
// daemon. Every call returns a fresh value, signers are never shared between
// calls.
type Keystore interface {
	// OwnerAccountID returns the id of the account owning tokens.
	OwnerAccountID() string
	// OwnerSigner signs as the owner account.
	OwnerSigner() Signer
	// SponsorSigner signs as the guest sponsor account guests.<owner>.
	SponsorSigner() Signer
	// SignerFor signs as accountID with the owner key. Used for sub-accounts
	// created by the owner, like token accounts.
	SignerFor(accountID string) Signer
}
