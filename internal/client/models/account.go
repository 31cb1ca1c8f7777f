// Package models defines the client-side data types shared by the AdConnect
// stores, services and CLI.
package models

import "time"

// Account is a registered user as kept by the credential store.
// PasswordHash is an argon2id PHC string and never leaves the store layer
// in a Session.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// User returns the public projection of a that is embedded in a Session.
func (a *Account) User() User {
	return User{ID: a.ID, Email: a.Email}
}
