package keystore

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/tdex-network/token-launcher/pkg/near"
)

// Credentials is the content of a credentials file, as written by the ledger
// CLI tools in <dir>/<network>/<account>.json.
type Credentials struct {
	AccountID  string `json:"account_id"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// ReadCredentials loads and validates the credentials file at path.
func ReadCredentials(path string) (*Credentials, *near.KeyPair, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	creds := &Credentials{}
	if err := json.Unmarshal(buf, creds); err != nil {
		return nil, nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	key, err := near.ParseKeyPair(creds.PrivateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid private key in credentials: %w", err)
	}
	if len(creds.PublicKey) > 0 {
		pk, err := near.ParsePublicKey(creds.PublicKey)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid public key in credentials: %w", err)
		}
		if pk != key.PublicKey() {
			return nil, nil, fmt.Errorf("credentials public key does not match private key")
		}
	}
	return creds, key, nil
}

// WriteCredentials stores the credentials of accountID at path.
func WriteCredentials(path, accountID string, key *near.KeyPair) error {
	buf, _ := json.MarshalIndent(Credentials{
		AccountID:  accountID,
		PublicKey:  key.PublicKey().String(),
		PrivateKey: key.SecretKey(),
	}, "", "  ")
	return os.WriteFile(path, buf, 0600)
}

type keystore struct {
	ownerAccountID string
	ownerKey       *near.KeyPair
	sponsorKey     *near.KeyPair
}

// NewKeystore loads the owner credentials from file and the sponsor key from
// its secret. Keys are loaded once and never change at runtime.
func NewKeystore(
	credentialsFile, ownerAccountID, guestsAccountSecret string,
) (ports.Keystore, error) {
	if len(ownerAccountID) <= 0 {
		return nil, fmt.Errorf("missing owner account id")
	}
	if len(guestsAccountSecret) <= 0 {
		return nil, fmt.Errorf("missing guests account secret")
	}

	creds, ownerKey, err := ReadCredentials(credentialsFile)
	if err != nil {
		return nil, err
	}
	if len(creds.AccountID) > 0 && creds.AccountID != ownerAccountID {
		return nil, fmt.Errorf(
			"credentials file belongs to %s, expected %s",
			creds.AccountID, ownerAccountID,
		)
	}

	sponsorKey, err := near.ParseKeyPair(guestsAccountSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid guests account secret: %w", err)
	}

	log.Infof("loaded owner key %s for account %s", ownerKey.PublicKey(), ownerAccountID)
	log.Infof(
		"loaded sponsor key %s for account %s",
		sponsorKey.PublicKey(), domain.GuestsAccountID(ownerAccountID),
	)

	return newKeystore(ownerAccountID, ownerKey, sponsorKey), nil
}

func newKeystore(
	ownerAccountID string, ownerKey, sponsorKey *near.KeyPair,
) *keystore {
	return &keystore{ownerAccountID, ownerKey, sponsorKey}
}

func (k *keystore) OwnerAccountID() string {
	return k.ownerAccountID
}

func (k *keystore) OwnerSigner() ports.Signer {
	return near.Signer{AccountID: k.ownerAccountID, Key: k.ownerKey}
}

func (k *keystore) SponsorSigner() ports.Signer {
	return near.Signer{
		AccountID: domain.GuestsAccountID(k.ownerAccountID),
		Key:       k.sponsorKey,
	}
}

func (k *keystore) SignerFor(accountID string) ports.Signer {
	return near.Signer{AccountID: accountID, Key: k.ownerKey}
}
