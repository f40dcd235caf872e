package domain

import "time"

// User 账号信息
// Password is stored and compared as given (cleartext). Known weakness kept for
// parity with the persisted data shape; do not reuse outside training data.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"` // lowercased, unique key
	Name      string    `json:"name"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
}
