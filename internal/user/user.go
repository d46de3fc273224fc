// Package user defines the user account model.
package user

// User is a registered account. PasswordHash holds the bcrypt hash of the
// password and is never serialized into responses.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
