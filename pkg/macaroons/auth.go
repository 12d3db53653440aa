package macaroons

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	macaroon "gopkg.in/macaroon.v2"
)

// HeaderKey is the HTTP header carrying the hex encoded macaroon.
const HeaderKey = "macaroon"

var ErrMissingMacaroon = errors.New("missing macaroon")

// FromHeader extracts and decodes the macaroon of a request.
func FromHeader(header http.Header) ([]byte, error) {
	encoded := strings.TrimSpace(header.Get(HeaderKey))
	if len(encoded) <= 0 {
		return nil, ErrMissingMacaroon
	}
	macBytes, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid macaroon encoding: %w", err)
	}
	return macBytes, nil
}

// SetHeader attaches the serialized macaroon to the request.
func SetHeader(req *http.Request, macBytes []byte) {
	req.Header.Set(HeaderKey, hex.EncodeToString(macBytes))
}

// ReadMacaroonFile reads and validates a macaroon baked to disk, returning
// its binary serialization.
func ReadMacaroonFile(path string) ([]byte, error) {
	macBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read macaroon file: %w", err)
	}
	mac := &macaroon.Macaroon{}
	if err := mac.UnmarshalBinary(macBytes); err != nil {
		return nil, fmt.Errorf("failed to parse macaroon: %w", err)
	}
	return macBytes, nil
}
