package models

// User is the public part of an Account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the current authenticated user plus the opaque token issued at
// signup or login. At most one Session exists at a time.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
