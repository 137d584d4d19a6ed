package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// werkzeugPBKDF2 builds a stored hash in the legacy provisioning format.
func werkzeugPBKDF2(password, salt string, iterations int) string {
	derived := pbkdf2.Key([]byte(password), []byte(salt), iterations, sha256.Size, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", iterations, salt, hex.EncodeToString(derived))
}

func werkzeugScrypt(password, salt string) string {
	derived, err := scrypt.Key([]byte(password), []byte(salt), 1024, 8, 1, 32)
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("scrypt:1024:8:1$%s$%s", salt, hex.EncodeToString(derived))
}

func TestParseCredential_Variants(t *testing.T) {
	hashed, err := HashPassword("sifre123")
	require.NoError(t, err)

	sha := sha256.Sum256([]byte("sifre123"))

	tests := []struct {
		name     string
		stored   string
		password string
		want     bool
	}{
		{"bcrypt_match", hashed, "sifre123", true},
		{"bcrypt_mismatch", hashed, "yanlis", false},
		{"pbkdf2_match", werkzeugPBKDF2("sifre123", "tuz", 1000), "sifre123", true},
		{"pbkdf2_mismatch", werkzeugPBKDF2("sifre123", "tuz", 1000), "yanlis", false},
		{"scrypt_match", werkzeugScrypt("sifre123", "tuz"), "sifre123", true},
		{"scrypt_mismatch", werkzeugScrypt("sifre123", "tuz"), "yanlis", false},
		{"sha256_hex_match", hex.EncodeToString(sha[:]), "sifre123", true},
		{"sha256_hex_mismatch", hex.EncodeToString(sha[:]), "yanlis", false},
		{"plaintext_exact_match", "sifre123", "sifre123", true},
		{"plaintext_mismatch", "sifre123", "Sifre123", false},
		{"empty_stored_never_matches", "", "", false},
		{"empty_password_never_matches", "sifre123", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCredential(tt.stored).Verify(tt.password))
		})
	}
}

// A record carrying a recognized hash prefix must never authenticate by
// plain string equality, even when the hash is malformed. The legacy
// plaintext branch is a declared variant, not a failure fallback.
func TestParseCredential_NoPlaintextFallbackForHashes(t *testing.T) {
	malformed := []string{
		"pbkdf2:sha256:1000$only_two_parts",
		"pbkdf2:sha256:abc$tuz$zz_not_hex",
		"scrypt:broken$tuz$ffff",
	}
	for _, stored := range malformed {
		cred := ParseCredential(stored)
		assert.False(t, cred.Verify(stored), "stored hash text must not self-authenticate: %q", stored)
		assert.False(t, cred.Verify("sifre123"))
	}

	// And a well-formed hash never matches its own literal text either.
	stored := werkzeugPBKDF2("sifre123", "tuz", 1000)
	assert.False(t, ParseCredential(stored).Verify(stored))
}
