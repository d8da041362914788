package models

import "time"

type Attempt struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	QuizID uint `gorm:"not null;index" json:"quiz_id"`
	Quiz   Quiz `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	// EndTime is fixed at creation (start + the quiz's completion time); later
	// changes to the quiz's completion time do not move the deadline.
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	// SpentTime holds the full allotted duration until completion overwrites
	// it with the actual elapsed "MM:SS". Display value only; CompletedAt is
	// the completion flag.
	SpentTime   string     `gorm:"size:16;not null" json:"spent_time"`
	CompletedAt *time.Time `json:"completed_at"`
	Result      *int       `json:"result"`
}
