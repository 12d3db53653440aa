package near

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"strings"

	"github.com/vulpemventures/go-bip39"
)

const hardenedKeyStart uint32 = 0x80000000

// DerivationPath is the SLIP-10 path used by wallets of the ledger,
// m/44'/397'/0'.
var DerivationPath = []uint32{
	44 + hardenedKeyStart,
	397 + hardenedKeyStart,
	0 + hardenedKeyStart,
}

type SeedPhrase struct {
	Phrase  string
	KeyPair *KeyPair
}

// GenerateSeedPhrase returns a new 12-words mnemonic and the keypair
// derived from it.
func GenerateSeedPhrase() (*SeedPhrase, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return nil, err
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, err
	}
	kp, err := KeyPairFromSeedPhrase(mnemonic)
	if err != nil {
		return nil, err
	}
	return &SeedPhrase{mnemonic, kp}, nil
}

// KeyPairFromSeedPhrase derives the ed25519 keypair for the given mnemonic.
func KeyPairFromSeedPhrase(phrase string) (*KeyPair, error) {
	mnemonic := normalizeSeedPhrase(phrase)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidSeedPhrase
	}
	seed := bip39.NewSeed(mnemonic, "")
	key := deriveEd25519(seed, DerivationPath)
	return NewKeyPairFromSeed(key)
}

func normalizeSeedPhrase(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

// deriveEd25519 implements SLIP-10 private derivation for ed25519, where
// only hardened children exist.
func deriveEd25519(seed []byte, path []uint32) []byte {
	mac := hmac.New(sha512.New, []byte("ed25519 seed"))
	mac.Write(seed)
	sum := mac.Sum(nil)
	key, chainCode := sum[:32], sum[32:]

	for _, index := range path {
		if index < hardenedKeyStart {
			index += hardenedKeyStart
		}
		data := make([]byte, 0, 37)
		data = append(data, 0)
		data = append(data, key...)
		var idx [4]byte
		binary.BigEndian.PutUint32(idx[:], index)
		data = append(data, idx[:]...)

		mac = hmac.New(sha512.New, chainCode)
		mac.Write(data)
		sum = mac.Sum(nil)
		key, chainCode = sum[:32], sum[32:]
	}
	return key
}
