package domain

import "time"

type ID string

// User is the persisted credential record. PasswordHash is the bcrypt
// output; the plaintext never reaches this type.
type User struct {
	ID           ID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
