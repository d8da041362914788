package models

type Answer struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;uniqueIndex:idx_answer_question_title" json:"question_id"`
	Title      string `gorm:"size:500;not null;uniqueIndex:idx_answer_question_title" json:"title"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"is_correct"`
}
