package models

import "time"

// User is an account known to the identity provider. Email is unique and
// stored lower-cased.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
