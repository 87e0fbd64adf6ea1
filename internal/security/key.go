package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const keyInfo = "loraterm-psk"

// DeriveKey stretches an operator passphrase into a 16-byte cipher key.
// The derivation is deterministic so two devices configured with the
// same passphrase agree on the key.
func DeriveKey(passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase is empty")
	}
	h := hkdf.New(sha256.New, []byte(passphrase), nil, []byte(keyInfo))
	key := make([]byte, 16)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, err
	}
	return key, nil
}

// GenerateKey returns fresh key material as 32 uppercase hex digits.
func GenerateKey() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(raw)), nil
}

// ResolveKey picks the key from the configured material: an explicit hex
// key wins, then a key file holding hex, then a passphrase. The operator
// is expected to replace the shipped material before deployment.
func ResolveKey(hexKey, keyFile, passphrase string) ([]byte, error) {
	if hexKey != "" {
		return decodeHexKey(hexKey)
	}
	if keyFile != "" {
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, err
		}
		return decodeHexKey(strings.TrimSpace(string(data)))
	}
	if passphrase != "" {
		return DeriveKey(passphrase)
	}
	return nil, errors.New("no key material configured")
}

func decodeHexKey(s string) ([]byte, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(raw) != 16 {
		return nil, errors.New("key must be 32 hex digits (16 bytes)")
	}
	return raw, nil
}
