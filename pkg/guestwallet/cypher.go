package guestwallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/crypto/scrypt"
)

const saltLen = 32

// scryptN is the CPU/memory cost of the key derivation.
var scryptN = 1 << 15

// Encrypt encrypts (with AES-256-GCM) a plaintext with a key derived from
// the password. The random salt is appended to the returned cyphertext.
func Encrypt(plaintext, password string) (string, error) {
	if len(plaintext) <= 0 {
		return "", ErrNullPlainText
	}
	if len(password) <= 0 {
		return "", ErrNullPassword
	}

	key, salt, err := deriveKey([]byte(password), nil)
	if err != nil {
		return "", err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		return "", err
	}

	cyphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	cyphertext = append(cyphertext, salt...)

	return base64.StdEncoding.EncodeToString(cyphertext), nil
}

// Decrypt reverts Encrypt. A wrong password makes the authentication of
// the cyphertext fail.
func Decrypt(cyphertext, password string) (string, error) {
	if len(cyphertext) <= 0 {
		return "", ErrNullCypherText
	}
	if len(password) <= 0 {
		return "", ErrNullPassword
	}
	data, err := base64.StdEncoding.DecodeString(cyphertext)
	if err != nil || len(data) <= saltLen {
		return "", ErrInvalidCypherText
	}
	salt, data := data[len(data)-saltLen:], data[:len(data)-saltLen]

	key, _, err := deriveKey([]byte(password), salt)
	if err != nil {
		return "", err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	if len(data) < gcm.NonceSize() {
		return "", ErrInvalidCypherText
	}
	nonce, text := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, text, nil)
	if err != nil {
		return "", ErrInvalidPassword
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(blockCipher)
}

func deriveKey(password, salt []byte) ([]byte, []byte, error) {
	if salt == nil {
		salt = make([]byte, saltLen)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, err
		}
	}
	key, err := scrypt.Key(password, salt, scryptN, 8, 1, 32)
	if err != nil {
		return nil, nil, err
	}
	return key, salt, nil
}
