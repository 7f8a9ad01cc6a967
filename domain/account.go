package domain

// Account is a registered user. The password hash never leaves the server.
type Account struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
