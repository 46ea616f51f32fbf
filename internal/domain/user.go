package domain

import "time"

// User represents a registered account. Users are created at signup and never
// mutated or deleted afterwards; username and email are each globally unique.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Age          *int
	CreatedAt    time.Time
}
