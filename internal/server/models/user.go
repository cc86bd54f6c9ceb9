// Package models defines the server-side domain types: relational rows,
// detail documents, lifecycle enums, and the read-side views built from both.
package models

import "time"

// User is a registered account. PasswordDigest is cryptox.DigestPassword
// of the plaintext; it is never sent back to callers.
type User struct {
	ID             string
	UserName       string
	Email          string
	PasswordDigest string
	CreatedAt      time.Time
}
