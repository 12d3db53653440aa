package near

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
)

const (
	// KeyTypeED25519 is the only curve supported by this package.
	KeyTypeED25519 byte = 0

	ed25519Prefix = "ed25519:"
)

// PublicKey is a raw ed25519 public key. Its string form is
// `ed25519:<base58>`, the one used by the ledger RPC.
type PublicKey [ed25519.PublicKeySize]byte

// ParsePublicKey accepts both the prefixed and the raw base58 encoding.
func ParsePublicKey(str string) (PublicKey, error) {
	var pk PublicKey
	buf, err := decodeKeyString(str)
	if err != nil {
		return pk, err
	}
	if len(buf) != ed25519.PublicKeySize {
		return pk, ErrInvalidPublicKey
	}
	copy(pk[:], buf)
	return pk, nil
}

func (p PublicKey) String() string {
	return ed25519Prefix + base58.Encode(p[:])
}

// IsZero returns whether the key was never set.
func (p PublicKey) IsZero() bool {
	return p == PublicKey{}
}

func (p PublicKey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PublicKey) UnmarshalText(text []byte) error {
	pk, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*p = pk
	return nil
}

// KeyPair wraps an ed25519 private key.
type KeyPair struct {
	priv ed25519.PrivateKey
}

// GenerateKeyPair returns a new random keypair.
func GenerateKeyPair() (*KeyPair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &KeyPair{priv}, nil
}

// NewKeyPairFromSeed builds a keypair out of a 32-byte ed25519 seed.
func NewKeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, ErrInvalidSecretKey
	}
	return &KeyPair{ed25519.NewKeyFromSeed(seed)}, nil
}

// ParseKeyPair parses a secret key in the format stored in credential files,
// `ed25519:<base58(seed||pubkey)>`. The prefix is optional and a bare 32-byte
// seed is accepted as well.
func ParseKeyPair(secret string) (*KeyPair, error) {
	buf, err := decodeKeyString(secret)
	if err != nil {
		return nil, err
	}
	switch len(buf) {
	case ed25519.SeedSize:
		return NewKeyPairFromSeed(buf)
	case ed25519.PrivateKeySize:
		kp, _ := NewKeyPairFromSeed(buf[:ed25519.SeedSize])
		pub := kp.PublicKey()
		if string(pub[:]) != string(buf[ed25519.SeedSize:]) {
			return nil, ErrInvalidSecretKey
		}
		return kp, nil
	default:
		return nil, ErrInvalidSecretKey
	}
}

func (k *KeyPair) PublicKey() PublicKey {
	var pk PublicKey
	copy(pk[:], k.priv.Public().(ed25519.PublicKey))
	return pk
}

// SecretKey returns the prefixed base58 encoding of the private key.
func (k *KeyPair) SecretKey() string {
	return ed25519Prefix + base58.Encode(k.priv)
}

func (k *KeyPair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.priv, msg)
}

func (k *KeyPair) Verify(msg, sig []byte) bool {
	return VerifySignature(k.PublicKey(), msg, sig)
}

// VerifySignature checks an ed25519 signature against the given public key.
func VerifySignature(pk PublicKey, msg, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pk[:]), msg, sig)
}

// Signer is the signing context of a single remote call: the account the
// transaction is issued by and the key authorizing it.
type Signer struct {
	AccountID string
	Key       *KeyPair
}

func (s Signer) validate() error {
	if len(s.AccountID) <= 0 {
		return ErrMissingSignerAccount
	}
	if s.Key == nil {
		return ErrMissingSignerKey
	}
	return nil
}

func (s Signer) String() string {
	if s.Key == nil {
		return s.AccountID
	}
	return fmt.Sprintf("%s (%s)", s.AccountID, s.Key.PublicKey())
}

func decodeKeyString(str string) ([]byte, error) {
	str = strings.TrimSpace(str)
	if i := strings.Index(str, ":"); i >= 0 {
		if str[:i+1] != ed25519Prefix {
			return nil, ErrUnsupportedKeyType
		}
		str = str[i+1:]
	}
	if len(str) <= 0 {
		return nil, ErrInvalidKeyEncoding
	}
	buf := base58.Decode(str)
	if len(buf) <= 0 {
		return nil, ErrInvalidKeyEncoding
	}
	return buf, nil
}
