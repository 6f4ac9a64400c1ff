package domain

import "time"

// Todo is the single entity this application manages. The primary key and
// timestamps are declared explicitly rather than embedding gorm.Model so that
// deletes are hard deletes: no DeletedAt column, no soft-delete scope.
type Todo struct {
	ID          uint    `gorm:"primaryKey"`
	Title       string  `gorm:"not null"`
	Description *string // NULL when never provided; distinct from ""
	Completed   bool    `gorm:"not null;default:false"`
	UserID      uint    `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
