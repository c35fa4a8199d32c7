// Package cryptox derives password verifiers for the local auth provider.
//
// Passwords are never stored. A random salt and an argon2id-derived key are
// produced at account creation; only the salt and the SHA-256 of the derived
// key (the verifier) are persisted.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/imgvault/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the random salt generated per account.
const SaltSize = 32

func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// DeriveKey stretches password with argon2id (t=1, 64 MiB, 4 lanes, 32 bytes).
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// NewPasswordVerifier returns a fresh salt and the verifier for password.
func NewPasswordVerifier(password []byte) (salt, verifier []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	return salt, MakeVerifier(key)
}

// CheckPassword reports whether password matches the stored salt/verifier
// pair. The comparison runs in constant time.
func CheckPassword(password, salt, verifier []byte) bool {
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	return subtle.ConstantTimeCompare(MakeVerifier(key), verifier) == 1
}
