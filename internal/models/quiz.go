package models

import "time"

type Quiz struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	CompanyID   uint    `gorm:"not null;uniqueIndex:idx_quiz_company_title" json:"company_id"`
	Company     Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string  `gorm:"size:255;not null;uniqueIndex:idx_quiz_company_title" json:"title"`
	Description string  `gorm:"type:text;not null" json:"description"`
	// CompletionTime is the allotted attempt duration in minutes.
	CompletionTime int        `gorm:"not null" json:"completion_time"`
	FullyCreated   bool       `gorm:"not null;default:false" json:"fully_created"`
	Questions      []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
