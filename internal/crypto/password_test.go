package crypto

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "secret1" {
		t.Fatalf("digest must differ from plaintext")
	}
	if err := hasher.Check(hash, "secret1"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := hasher.Check(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestHashIsSalted(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)
	first, _ := hasher.Hash("secret1")
	second, _ := hasher.Hash("secret1")
	if first == second {
		t.Fatalf("expected distinct digests for the same password")
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	if NewHasher(0).cost != DefaultCost {
		t.Fatalf("expected default cost for out of range value")
	}
	if NewHasher(bcrypt.MaxCost+1).cost != DefaultCost {
		t.Fatalf("expected default cost for out of range value")
	}
}

func TestCheckMalformedHash(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)
	err := hasher.Check("not-a-hash", "secret1")
	if err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected structural error, got %v", err)
	}
	hasher.CheckDummy("anything")
}

func TestHashRejectsOverlongPassword(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)
	if _, err := hasher.Hash(strings.Repeat("a", MaxPasswordBytes+1)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if _, err := hasher.Hash(strings.Repeat("a", MaxPasswordBytes)); err != nil {
		t.Fatalf("expected %d bytes to hash: %v", MaxPasswordBytes, err)
	}
}
