package services

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// Credential is a stored password value resolved to one explicit variant.
// The legacy plaintext path is a declared branch of the taxonomy, not an
// exception fallback: a value carrying a recognized hash prefix never
// verifies by string equality, even when the hash itself is malformed.
type Credential interface {
	Verify(plain string) bool
}

// ParseCredential tags a stored password value. Recognized formats, in
// order: bcrypt, werkzeug pbkdf2, werkzeug scrypt, bare sha256 hex digest.
// Anything else is an unmigrated legacy plaintext record.
func ParseCredential(stored string) Credential {
	switch {
	case stored == "":
		return emptyCredential{}
	case strings.HasPrefix(stored, "$2a$"),
		strings.HasPrefix(stored, "$2b$"),
		strings.HasPrefix(stored, "$2y$"):
		return bcryptCredential(stored)
	case strings.HasPrefix(stored, "pbkdf2:"), strings.HasPrefix(stored, "scrypt:"):
		return parseWerkzeug(stored)
	case isHexDigest(stored, sha256.Size):
		return sha256Credential(stored)
	}
	return plaintextCredential(stored)
}

// HashPassword produces the storage form for a new or changed password.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

type emptyCredential struct{}

func (emptyCredential) Verify(string) bool { return false }

type plaintextCredential string

func (c plaintextCredential) Verify(plain string) bool {
	if plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(plain), []byte(c)) == 1
}

type bcryptCredential string

func (c bcryptCredential) Verify(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c), []byte(plain)) == nil
}

type sha256Credential string

func (c sha256Credential) Verify(plain string) bool {
	digest := sha256.Sum256([]byte(plain))
	candidate := hex.EncodeToString(digest[:])
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(strings.ToLower(string(c)))) == 1
}

// invalidCredential is a recognized hash format that could not be parsed.
// It never verifies.
type invalidCredential struct{}

func (invalidCredential) Verify(string) bool { return false }

// werkzeugCredential covers the pbkdf2/scrypt hashes produced by the legacy
// provisioning tooling: "method$salt$hexdigest".
type werkzeugCredential struct {
	method string
	salt   string
	digest string
}

func parseWerkzeug(stored string) Credential {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 || !isHexDigest(parts[2], len(parts[2])/2) {
		return invalidCredential{}
	}
	return werkzeugCredential{method: parts[0], salt: parts[1], digest: parts[2]}
}

func (c werkzeugCredential) Verify(plain string) bool {
	want, err := hex.DecodeString(c.digest)
	if err != nil {
		return false
	}

	var derived []byte
	switch {
	case strings.HasPrefix(c.method, "pbkdf2"):
		derived = c.derivePBKDF2(plain, len(want))
	case strings.HasPrefix(c.method, "scrypt"):
		derived = c.deriveScrypt(plain, len(want))
	}
	if derived == nil {
		return false
	}
	return subtle.ConstantTimeCompare(derived, want) == 1
}

// method: pbkdf2:<digest>:<iterations>, e.g. pbkdf2:sha256:600000
func (c werkzeugCredential) derivePBKDF2(plain string, keyLen int) []byte {
	fields := strings.Split(c.method, ":")
	digest := "sha256"
	iterations := 600000
	if len(fields) > 1 && fields[1] != "" {
		digest = fields[1]
	}
	if len(fields) > 2 {
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil
		}
		iterations = n
	}

	var h func() hash.Hash
	switch digest {
	case "sha1":
		h = sha1.New
	case "sha256":
		h = sha256.New
	case "sha512":
		h = sha512.New
	default:
		return nil
	}
	return pbkdf2.Key([]byte(plain), []byte(c.salt), iterations, keyLen, h)
}

// method: scrypt:<N>:<r>:<p>, e.g. scrypt:32768:8:1
func (c werkzeugCredential) deriveScrypt(plain string, keyLen int) []byte {
	fields := strings.Split(c.method, ":")
	if len(fields) != 4 {
		return nil
	}
	n, errN := strconv.Atoi(fields[1])
	r, errR := strconv.Atoi(fields[2])
	p, errP := strconv.Atoi(fields[3])
	if errN != nil || errR != nil || errP != nil {
		return nil
	}
	derived, err := scrypt.Key([]byte(plain), []byte(c.salt), n, r, p, keyLen)
	if err != nil {
		return nil
	}
	return derived
}

func isHexDigest(value string, size int) bool {
	if size <= 0 || len(value) != size*2 {
		return false
	}
	_, err := hex.DecodeString(value)
	return err == nil
}
