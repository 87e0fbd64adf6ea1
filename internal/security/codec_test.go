package security

import (
	"crypto/aes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

var testKey = []byte{
	0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF,
	0xFE, 0xDC, 0xBA, 0x98, 0x76, 0x54, 0x32, 0x10,
}

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(testKey)
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}
	return c
}

func TestRoundTripBoundaryLengths(t *testing.T) {
	c := newTestCodec(t)
	for _, n := range []int{0, 1, 15, 16, 17, 32} {
		p := strings.Repeat("x", n)
		ct := c.Encrypt(p)
		got, err := c.Decrypt(ct)
		if err != nil {
			t.Fatalf("len %d: decrypt error: %v", n, err)
		}
		if got != p {
			t.Fatalf("len %d: round trip mismatch: %q", n, got)
		}
	}
}

func TestEncryptLengthAndPaddingBlock(t *testing.T) {
	c := newTestCodec(t)
	for _, n := range []int{0, 1, 15, 16, 17, 32} {
		p := strings.Repeat("y", n)
		ct := c.Encrypt(p)
		if len(ct) == 0 || len(ct)%32 != 0 {
			t.Fatalf("len %d: ciphertext length %d not a positive multiple of 32", n, len(ct))
		}
		if n%16 == 0 && len(ct) <= 2*n {
			t.Fatalf("len %d: aligned input must gain a full padding block, got %d hex chars", n, len(ct))
		}
		if ct != strings.ToUpper(ct) {
			t.Fatalf("ciphertext not uppercase: %s", ct)
		}
	}
}

func TestDecryptRefusesPartialBlock(t *testing.T) {
	c := newTestCodec(t)
	for _, s := range []string{"", "AB", strings.Repeat("A", 31), strings.Repeat("A", 48)} {
		_, err := c.Decrypt(s)
		if len(s)%32 == 0 && s != "" {
			continue
		}
		if !errors.Is(err, ErrMalformedCiphertext) {
			t.Fatalf("%q: expected ErrMalformedCiphertext, got %v", s, err)
		}
	}
}

func TestDecryptRefusesNonHex(t *testing.T) {
	c := newTestCodec(t)
	if _, err := c.Decrypt(strings.Repeat("ZZ", 16)); !errors.Is(err, ErrMalformedCiphertext) {
		t.Fatalf("expected ErrMalformedCiphertext, got %v", err)
	}
}

func TestDecryptRecoversFromBadPadByte(t *testing.T) {
	// Build a ciphertext whose final decrypted byte is out of the pad
	// range; the whole block must come back untouched.
	block, err := aes.NewCipher(testKey)
	if err != nil {
		t.Fatalf("cipher error: %v", err)
	}
	plain := []byte("FIFTEEN BYTES!!\x99")
	ct := make([]byte, 16)
	block.Encrypt(ct, plain)

	c := newTestCodec(t)
	got, err := c.Decrypt(strings.ToUpper(hex.EncodeToString(ct)))
	if err != nil {
		t.Fatalf("decrypt error: %v", err)
	}
	if got != string(plain) {
		t.Fatalf("expected pad fallback to keep all 16 bytes, got %q", got)
	}
}

func TestIdenticalBlocksEncryptIdentically(t *testing.T) {
	c := newTestCodec(t)
	ct := c.Encrypt(strings.Repeat("A", 32))
	if ct[:32] != ct[32:64] {
		t.Fatal("independent-block mode must map equal blocks to equal ciphertext")
	}
}

func TestLooksCiphertext(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{strings.Repeat("A1", 16), true},
		{strings.Repeat("a1", 16), true},
		{"0123456789", false},               // below one block
		{strings.Repeat("G1", 16), false},   // non-hex
		{strings.Repeat("A1", 16) + "-", false},
	}
	for _, tc := range cases {
		if got := LooksCiphertext(tc.in); got != tc.want {
			t.Fatalf("LooksCiphertext(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	a, err := DeriveKey("correct horse")
	if err != nil {
		t.Fatalf("derive error: %v", err)
	}
	b, err := DeriveKey("correct horse")
	if err != nil {
		t.Fatalf("derive error: %v", err)
	}
	if len(a) != 16 || string(a) != string(b) {
		t.Fatal("derived keys must be 16 bytes and deterministic")
	}
	other, err := DeriveKey("wrong horse")
	if err != nil {
		t.Fatalf("derive error: %v", err)
	}
	if string(a) == string(other) {
		t.Fatal("different passphrases produced the same key")
	}
}

func TestResolveKeyPrecedence(t *testing.T) {
	key, err := ResolveKey("0123456789ABCDEFFEDCBA9876543210", "", "ignored")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if hex.EncodeToString(key) != "0123456789abcdeffedcba9876543210" {
		t.Fatalf("hex key not honored: %x", key)
	}
	if _, err := ResolveKey("", "", ""); err == nil {
		t.Fatal("expected error with no key material")
	}
}
