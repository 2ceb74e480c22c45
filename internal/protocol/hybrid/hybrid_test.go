package hybrid_test

import (
	"bytes"
	"crypto/rsa"
	"errors"
	"strings"
	"testing"

	"cipherchat/internal/crypto"
	"cipherchat/internal/domain"
	"cipherchat/internal/protocol/hybrid"
)

func makeKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	priv, err := crypto.GenerateRSA(crypto.DefaultRSABits)
	if err != nil {
		t.Fatalf("GenerateRSA: %v", err)
	}
	return priv
}

func TestText_RoundTrip(t *testing.T) {
	bob := makeKey(t)

	for _, msg := range []string{"hi", "héllo wörld ✓", strings.Repeat("a", hybrid.MaxTextSize(&bob.PublicKey))} {
		ct, err := hybrid.EncryptText(&bob.PublicKey, msg)
		if err != nil {
			t.Fatalf("EncryptText(%d bytes): %v", len(msg), err)
		}
		got, err := hybrid.DecryptText(bob, ct)
		if err != nil {
			t.Fatalf("DecryptText: %v", err)
		}
		if got != msg {
			t.Fatalf("round trip mismatch: got %q want %q", got, msg)
		}
	}
}

func TestText_TooLarge(t *testing.T) {
	bob := makeKey(t)
	max := hybrid.MaxTextSize(&bob.PublicKey)
	if max != 190 {
		t.Fatalf("MaxTextSize for 2048-bit key = %d, want 190", max)
	}

	_, err := hybrid.EncryptText(&bob.PublicKey, strings.Repeat("x", max+1))
	if !errors.Is(err, domain.ErrPayloadTooLarge) {
		t.Fatalf("want ErrPayloadTooLarge, got %v", err)
	}
}

func TestText_WrongKeyFails(t *testing.T) {
	bob := makeKey(t)
	eve := makeKey(t)

	ct, err := hybrid.EncryptText(&bob.PublicKey, "secret")
	if err != nil {
		t.Fatalf("EncryptText: %v", err)
	}
	if _, err := hybrid.DecryptText(eve, ct); !errors.Is(err, domain.ErrDecryptionFailed) {
		t.Fatalf("want ErrDecryptionFailed, got %v", err)
	}
}

func TestBlob_RoundTrip(t *testing.T) {
	bob := makeKey(t)

	for _, size := range []int{0, 1, 15, 16, 17, 4096} {
		data := bytes.Repeat([]byte{0xAB}, size)
		sealed, err := hybrid.EncryptBlob(&bob.PublicKey, data)
		if err != nil {
			t.Fatalf("EncryptBlob(%d): %v", size, err)
		}
		if len(sealed.IV) != crypto.IVBytes {
			t.Fatalf("IV length = %d", len(sealed.IV))
		}
		if want := (size/16 + 1) * 16; len(sealed.Ciphertext) != want {
			t.Fatalf("ciphertext length %d for %d byte input", len(sealed.Ciphertext), size)
		}
		got, err := hybrid.DecryptBlob(bob, sealed)
		if err != nil {
			t.Fatalf("DecryptBlob(%d): %v", size, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("blob mismatch for size %d", size)
		}
	}
}

func TestBlob_UnwrapThenOpen(t *testing.T) {
	bob := makeKey(t)
	sealed, err := hybrid.EncryptBlob(&bob.PublicKey, []byte("image bytes"))
	if err != nil {
		t.Fatalf("EncryptBlob: %v", err)
	}

	key, err := hybrid.UnwrapKey(bob, sealed.WrappedKey)
	if err != nil {
		t.Fatalf("UnwrapKey: %v", err)
	}
	if len(key) != crypto.AESKeyBytes {
		t.Fatalf("key length = %d", len(key))
	}
	got, err := hybrid.OpenBody(key, sealed.IV, sealed.Ciphertext)
	if err != nil {
		t.Fatalf("OpenBody: %v", err)
	}
	if string(got) != "image bytes" {
		t.Fatalf("got %q", got)
	}

	if _, err := hybrid.UnwrapKey(bob, make([]byte, len(sealed.WrappedKey))); !errors.Is(err, domain.ErrDecryptionFailed) {
		t.Fatalf("zero wrapped key: want ErrDecryptionFailed, got %v", err)
	}
}

func TestBlob_FreshKeyAndIVPerMessage(t *testing.T) {
	bob := makeKey(t)
	data := []byte("same image bytes")

	a, err := hybrid.EncryptBlob(&bob.PublicKey, data)
	if err != nil {
		t.Fatalf("EncryptBlob: %v", err)
	}
	b, err := hybrid.EncryptBlob(&bob.PublicKey, data)
	if err != nil {
		t.Fatalf("EncryptBlob: %v", err)
	}
	if bytes.Equal(a.IV, b.IV) || bytes.Equal(a.Ciphertext, b.Ciphertext) {
		t.Fatal("two encryptions of the same blob share IV or ciphertext")
	}
}

func TestBlob_CorruptedWrappedKey(t *testing.T) {
	bob := makeKey(t)
	sealed, err := hybrid.EncryptBlob(&bob.PublicKey, []byte("payload"))
	if err != nil {
		t.Fatalf("EncryptBlob: %v", err)
	}
	sealed.WrappedKey[10] ^= 0xFF

	if _, err := hybrid.DecryptBlob(bob, sealed); !errors.Is(err, domain.ErrDecryptionFailed) {
		t.Fatalf("want ErrDecryptionFailed, got %v", err)
	}
}

func TestBlob_WrongRecipient(t *testing.T) {
	bob := makeKey(t)
	eve := makeKey(t)
	sealed, err := hybrid.EncryptBlob(&bob.PublicKey, []byte("payload"))
	if err != nil {
		t.Fatalf("EncryptBlob: %v", err)
	}
	if _, err := hybrid.DecryptBlob(eve, sealed); !errors.Is(err, domain.ErrDecryptionFailed) {
		t.Fatalf("want ErrDecryptionFailed, got %v", err)
	}
}
