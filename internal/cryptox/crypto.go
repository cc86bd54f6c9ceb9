// Package cryptox holds the password digest used for registration and login.
//
// The digest is an unsalted hex SHA-256 of the plaintext. Credentials are
// looked up by (email, digest) equality, so the digest must stay
// deterministic. This is a known hardening gap: a salted KDF would need a
// lookup-by-email-then-verify login flow and a migration of stored digests.
package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestLength is the length of a digest returned by DigestPassword.
const DigestLength = sha256.Size * 2

// DigestPassword returns the lowercase hex SHA-256 digest of password.
func DigestPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
