package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerifySecret(t *testing.T) {
	hash, err := HashSecret("password")
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("hash not in PHC format: %q", hash)
	}
	if strings.Contains(hash, "password") {
		t.Fatal("hash contains plaintext secret")
	}

	ok, err := VerifySecret("password", hash)
	if err != nil {
		t.Fatalf("VerifySecret failed: %v", err)
	}
	if !ok {
		t.Fatal("correct secret did not verify")
	}

	ok, err = VerifySecret("wrong", hash)
	if err != nil {
		t.Fatalf("VerifySecret failed: %v", err)
	}
	if ok {
		t.Fatal("wrong secret verified")
	}
}

func TestHashSecretUniqueSalts(t *testing.T) {
	h1, err := HashSecret("password")
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}
	h2, err := HashSecret("password")
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same secret are identical; salt is not random")
	}
}

func TestVerifySecretRejectsMalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"garbage", "not-a-hash"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=65536"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := VerifySecret("password", test.hash); !errors.Is(err, ErrInvalidHash) {
				t.Fatalf("expected ErrInvalidHash, got %v", err)
			}
		})
	}
}

func TestNewSessionTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := NewSessionToken()
		if token == "" {
			t.Fatal("empty token")
		}
		if seen[token] {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = true
	}
}
