package crypto_test

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"strings"
	"testing"

	"cipherchat/internal/crypto"
)

// makeKey returns a fresh RSA key of the default size.
func makeKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	priv, err := crypto.GenerateRSA(crypto.DefaultRSABits)
	if err != nil {
		t.Fatalf("GenerateRSA: %v", err)
	}
	return priv
}

func TestGenerateRSA_RejectsSmallKeys(t *testing.T) {
	if _, err := crypto.GenerateRSA(512); !errors.Is(err, crypto.ErrKeySize) {
		t.Fatalf("want ErrKeySize, got %v", err)
	}
}

func TestPublicPEM_RoundTrip(t *testing.T) {
	priv := makeKey(t)
	text, err := crypto.EncodePublicPEM(&priv.PublicKey)
	if err != nil {
		t.Fatalf("EncodePublicPEM: %v", err)
	}
	if !strings.HasPrefix(text, "-----BEGIN PUBLIC KEY-----") {
		t.Fatalf("unexpected PEM header: %q", text[:30])
	}

	// Pasted keys usually arrive with stray whitespace around them.
	pub, err := crypto.ParsePublicPEM("\n  " + text + "  \n")
	if err != nil {
		t.Fatalf("ParsePublicPEM: %v", err)
	}
	if !pub.Equal(&priv.PublicKey) {
		t.Fatal("parsed key differs from original")
	}
}

func TestParsePublicPEM_AcceptsPKCS1(t *testing.T) {
	priv := makeKey(t)
	text := string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(&priv.PublicKey),
	}))
	pub, err := crypto.ParsePublicPEM(text)
	if err != nil {
		t.Fatalf("ParsePublicPEM: %v", err)
	}
	if !pub.Equal(&priv.PublicKey) {
		t.Fatal("parsed key differs from original")
	}
}

func TestParsePublicPEM_Rejects(t *testing.T) {
	priv := makeKey(t)
	good, err := crypto.EncodePublicPEM(&priv.PublicKey)
	if err != nil {
		t.Fatalf("EncodePublicPEM: %v", err)
	}

	cases := map[string]string{
		"empty":          "",
		"no delimiters":  "MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEA",
		"header only":    "-----BEGIN PUBLIC KEY-----\nMIIB\n",
		"truncated body": strings.Replace(good, good[40:120], "", 1),
	}
	for name, in := range cases {
		if _, err := crypto.ParsePublicPEM(in); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestOAEP_RoundTripAndBound(t *testing.T) {
	priv := makeKey(t)
	max := crypto.MaxOAEPPayload(&priv.PublicKey)
	if max != 256-2*32-2 {
		t.Fatalf("MaxOAEPPayload = %d, want 190", max)
	}

	msg := bytes.Repeat([]byte{'a'}, max)
	ct, err := crypto.EncryptOAEP(&priv.PublicKey, msg)
	if err != nil {
		t.Fatalf("EncryptOAEP at bound: %v", err)
	}
	pt, err := crypto.DecryptOAEP(priv, ct)
	if err != nil {
		t.Fatalf("DecryptOAEP: %v", err)
	}
	if !bytes.Equal(pt, msg) {
		t.Fatal("round trip mismatch")
	}

	if _, err := crypto.EncryptOAEP(&priv.PublicKey, append(msg, 'b')); !errors.Is(err, crypto.ErrMessageTooLong) {
		t.Fatalf("want ErrMessageTooLong, got %v", err)
	}
}

func TestCBC_RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, crypto.AESKeyBytes)
	iv := bytes.Repeat([]byte{0x22}, crypto.IVBytes)

	for _, n := range []int{0, 1, 15, 16, 17, 1000} {
		msg := bytes.Repeat([]byte{0x7f}, n)
		ct, err := crypto.EncryptCBC(key, iv, msg)
		if err != nil {
			t.Fatalf("EncryptCBC(%d): %v", n, err)
		}
		if len(ct)%crypto.IVBytes != 0 || len(ct) <= n {
			t.Fatalf("EncryptCBC(%d): unexpected ciphertext length %d", n, len(ct))
		}
		pt, err := crypto.DecryptCBC(key, iv, ct)
		if err != nil {
			t.Fatalf("DecryptCBC(%d): %v", n, err)
		}
		if !bytes.Equal(pt, msg) {
			t.Fatalf("round trip mismatch for %d bytes", n)
		}
	}
}

func TestCBC_RejectsMalformed(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, crypto.AESKeyBytes)
	iv := bytes.Repeat([]byte{0x22}, crypto.IVBytes)

	if _, err := crypto.DecryptCBC(key, iv, []byte("short")); err == nil {
		t.Fatal("expected error for partial block")
	}
	if _, err := crypto.DecryptCBC(key, iv[:8], make([]byte, 16)); err == nil {
		t.Fatal("expected error for short IV")
	}

	// The first block of a padded all-zero block decrypts to sixteen zero
	// bytes, whose final byte is never a valid pad value.
	raw, err := crypto.EncryptCBC(key, iv, make([]byte, 16))
	if err != nil {
		t.Fatalf("EncryptCBC: %v", err)
	}
	if _, err := crypto.DecryptCBC(key, iv, raw[:16]); err == nil {
		t.Fatal("expected padding error")
	}
}

func TestSignVerify(t *testing.T) {
	priv := makeKey(t)
	msg := []byte("hello bob")

	sig, err := crypto.SignSHA256(priv, msg)
	if err != nil {
		t.Fatalf("SignSHA256: %v", err)
	}
	if !crypto.VerifySHA256(&priv.PublicKey, msg, sig) {
		t.Fatal("valid signature rejected")
	}
	if crypto.VerifySHA256(&priv.PublicKey, []byte("hello bob!"), sig) {
		t.Fatal("signature accepted for different message")
	}

	other := makeKey(t)
	if crypto.VerifySHA256(&other.PublicKey, msg, sig) {
		t.Fatal("signature accepted under unrelated key")
	}
}

func TestFingerprint(t *testing.T) {
	priv := makeKey(t)
	fp, err := crypto.Fingerprint(&priv.PublicKey)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if !strings.HasPrefix(fp, "SHA256:") {
		t.Fatalf("unexpected fingerprint %q", fp)
	}
	again, _ := crypto.Fingerprint(&priv.PublicKey)
	if fp != again {
		t.Fatal("fingerprint is not stable")
	}
}
