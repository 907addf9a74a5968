package domain

import "time"

// User is a registered account. PasswordHash is a bcrypt hash and is never
// serialized in API responses.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
