package security

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"strings"
)

// BlockSize is the cipher block size in bytes; hex ciphertext length is
// always a multiple of 2*BlockSize.
const BlockSize = aes.BlockSize

var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// Codec encrypts and decrypts messages under one fixed pre-shared key.
// Blocks are enciphered independently, so identical plaintext blocks
// yield identical ciphertext blocks; the peer devices on the link
// expect exactly this wire format.
type Codec struct {
	block cipher.Block
}

func NewCodec(key []byte) (*Codec, error) {
	if len(key) != 16 {
		return nil, errors.New("key must be 16 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &Codec{block: block}, nil
}

// Encrypt pads the plaintext and returns uppercase hex ciphertext.
// Padding is always applied; block-aligned input grows by a full block.
func (c *Codec) Encrypt(plaintext string) string {
	padLen := BlockSize - len(plaintext)%BlockSize
	buf := make([]byte, len(plaintext)+padLen)
	copy(buf, plaintext)
	for i := len(plaintext); i < len(buf); i++ {
		buf[i] = byte(padLen)
	}
	for i := 0; i < len(buf); i += BlockSize {
		c.block.Encrypt(buf[i:i+BlockSize], buf[i:i+BlockSize])
	}
	return strings.ToUpper(hex.EncodeToString(buf))
}

// Decrypt reverses Encrypt. A hex length that is not a whole number of
// blocks is refused; a pad byte outside 1..BlockSize is treated as no
// padding rather than an error.
func (c *Codec) Decrypt(hexCipher string) (string, error) {
	if len(hexCipher) == 0 || len(hexCipher)%(2*BlockSize) != 0 {
		return "", ErrMalformedCiphertext
	}
	buf, err := hex.DecodeString(hexCipher)
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	for i := 0; i < len(buf); i += BlockSize {
		c.block.Decrypt(buf[i:i+BlockSize], buf[i:i+BlockSize])
	}
	padLen := int(buf[len(buf)-1])
	if padLen < 1 || padLen > BlockSize {
		padLen = 0
	}
	return string(buf[:len(buf)-padLen]), nil
}

// LooksCiphertext reports whether an inbound line is worth a decrypt
// attempt: at least one block of hex digits end to end. Plaintext that
// happens to be a long hex string will match too; the wire format
// carries no marker to tell the cases apart.
func LooksCiphertext(line string) bool {
	if len(line) < 2*BlockSize {
		return false
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
