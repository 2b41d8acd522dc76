/*
Package user contains core data structures related to user identity.

It defines the basic representation of a chat participant (the User struct),
used for passing user information both internally and to clients.
*/
package user

import "time"

// User represents an account stored in the users table.
// The password hash never leaves the server.
type User struct {
	// ID is the unique identifier for the user (UUID).
	ID string `json:"id"`

	// Username is the unique login and display name.
	Username string `json:"username"`

	// Email is the unique contact address supplied at signup.
	Email string `json:"email"`

	// CreatedAt records when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash string `json:"-"`
}
