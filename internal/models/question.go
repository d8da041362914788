package models

type Question struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	QuizID       uint     `gorm:"not null;uniqueIndex:idx_question_quiz_title" json:"quiz_id"`
	Title        string   `gorm:"size:500;not null;uniqueIndex:idx_question_quiz_title" json:"title"`
	FullyCreated bool     `gorm:"not null;default:false" json:"fully_created"`
	Answers      []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}
