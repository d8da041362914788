package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:100;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	GlobalScore  *float64  `gorm:"type:decimal(5,2)" json:"global_score"`
	CreatedAt    time.Time `json:"registered_at"`
}
