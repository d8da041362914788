package services

import (
	"quiz-platform-backend/internal/models"

	"gorm.io/gorm"
)

// ScoreService recomputes the cached average scores after an attempt is
// scored. Both averages are sum(result)/sum(question count) over scored
// attempts only; attempts that expired without completion carry a null
// result and are excluded.
type ScoreService struct {
	db *gorm.DB
}

func NewScoreService(db *gorm.DB) *ScoreService {
	return &ScoreService{db: db}
}

func (s *ScoreService) SetGlobalScore(userID uint) error {
	var attempts []models.Attempt
	err := s.db.Where("user_id = ? AND result IS NOT NULL", userID).
		Preload("Quiz.Questions").
		Find(&attempts).Error
	if err != nil {
		return err
	}

	return s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("global_score", average(attempts)).Error
}

func (s *ScoreService) SetCompanyScore(userID, companyID uint) error {
	var attempts []models.Attempt
	err := s.db.Joins("JOIN quizzes ON quizzes.id = attempts.quiz_id").
		Where("attempts.user_id = ? AND quizzes.company_id = ? AND attempts.result IS NOT NULL", userID, companyID).
		Preload("Quiz.Questions").
		Find(&attempts).Error
	if err != nil {
		return err
	}

	return s.db.Model(&models.CompanyMember{}).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Update("average_score", average(attempts)).Error
}

func average(attempts []models.Attempt) *float64 {
	var correct, total int
	for _, a := range attempts {
		correct += *a.Result
		total += len(a.Quiz.Questions)
	}
	if total == 0 {
		return nil
	}

	score := float64(correct) / float64(total)
	return &score
}
