package model

// User is an account that can open a client session. PasswordHash is only
// ever populated on the server side and is never written to the wire.
type User struct {
	ID           int    `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
