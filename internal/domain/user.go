package domain

import "time"

// User is the account a Todo belongs to. The todo handlers only ever read the
// ID; rows are written by registration and the seed command.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Name      string
	Password  string `gorm:"not null"` // bcrypt hash, never the plaintext
	CreatedAt time.Time
	UpdatedAt time.Time
}
