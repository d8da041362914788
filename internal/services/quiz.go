package services

import (
	"quiz-platform-backend/internal/models"

	"gorm.io/gorm"
)

// Thresholds for the derived fully-created statuses: a question needs at
// least two answers with exactly one correct, a quiz needs at least two
// fully created questions.
const (
	minQuizQuestions   = 2
	minQuestionAnswers = 2
)

type QuizService struct {
	db        *gorm.DB
	companies *CompanyService
}

func NewQuizService(db *gorm.DB, companies *CompanyService) *QuizService {
	return &QuizService{db: db, companies: companies}
}

// GetQuizByID loads a quiz with its questions and answers and enforces the
// caller's standing in the owning company.
func (s *QuizService) GetQuizByID(quizID, userID uint, level AccessLevel) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id ASC")
		}).
		First(&quiz, quizID).Error
	if err != nil {
		return nil, ErrQuizNotFound
	}

	if err := s.companies.RequireAccess(userID, quiz.CompanyID, level); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) GetQuestionByID(questionID, userID uint, level AccessLevel) (*models.Question, error) {
	question, quiz, err := s.questionWithQuiz(questionID)
	if err != nil {
		return nil, err
	}
	if err := s.companies.RequireAccess(userID, quiz.CompanyID, level); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuizService) GetAnswerByID(answerID, userID uint, level AccessLevel) (*models.Answer, error) {
	answer, _, quiz, err := s.answerWithParents(answerID)
	if err != nil {
		return nil, err
	}
	if err := s.companies.RequireAccess(userID, quiz.CompanyID, level); err != nil {
		return nil, err
	}
	return answer, nil
}

func (s *QuizService) ListCompanyQuizzes(companyID, userID uint) ([]models.Quiz, error) {
	if err := s.companies.RequireAccess(userID, companyID, AccessMember); err != nil {
		return nil, err
	}

	var quizzes []models.Quiz
	if err := s.db.Where("company_id = ?", companyID).Order("id").Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (s *QuizService) CreateQuiz(companyID, userID uint, title, description string, completionTime int) (*models.Quiz, error) {
	if err := s.companies.RequireAccess(userID, companyID, AccessAdmin); err != nil {
		return nil, err
	}

	var existing models.Quiz
	if err := s.db.Where("company_id = ? AND title = ?", companyID, title).First(&existing).Error; err == nil {
		return nil, ErrQuizTitleTaken
	}

	quiz := models.Quiz{
		CompanyID:      companyID,
		Title:          title,
		Description:    description,
		CompletionTime: completionTime,
	}
	if err := s.db.Create(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// UpdateQuiz changes title, description or the completion time. The new
// completion time applies to future attempts only; running attempts keep
// their stored deadline.
func (s *QuizService) UpdateQuiz(quizID, userID uint, title, description *string, completionTime *int) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		return nil, ErrQuizNotFound
	}
	if err := s.companies.RequireAccess(userID, quiz.CompanyID, AccessAdmin); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if title != nil {
		var existing models.Quiz
		if err := s.db.Where("company_id = ? AND title = ? AND id <> ?", quiz.CompanyID, *title, quizID).First(&existing).Error; err == nil {
			return nil, ErrQuizTitleTaken
		}
		updates["title"] = *title
	}
	if description != nil {
		updates["description"] = *description
	}
	if completionTime != nil {
		updates["completion_time"] = *completionTime
	}

	if len(updates) > 0 {
		if err := s.db.Model(&quiz).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &quiz, nil
}

func (s *QuizService) DeleteQuiz(quizID, userID uint) error {
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		return ErrQuizNotFound
	}
	if err := s.companies.RequireAccess(userID, quiz.CompanyID, AccessAdmin); err != nil {
		return err
	}

	tx := s.db.Begin()
	questionIDs := tx.Model(&models.Question{}).Select("id").Where("quiz_id = ?", quizID)
	if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Answer{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Attempt{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&quiz).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (s *QuizService) CreateQuestion(quizID, userID uint, title string) (*models.Question, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		return nil, ErrQuizNotFound
	}
	if err := s.companies.RequireAccess(userID, quiz.CompanyID, AccessAdmin); err != nil {
		return nil, err
	}

	var existing models.Question
	if err := s.db.Where("quiz_id = ? AND title = ?", quizID, title).First(&existing).Error; err == nil {
		return nil, ErrQuestionTitleTaken
	}

	question := models.Question{
		QuizID: quizID,
		Title:  title,
	}

	tx := s.db.Begin()
	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	// A fresh question has no answers yet, so the quiz can no longer be
	// fully created.
	if err := s.refreshQuizStatus(tx, quizID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuizService) UpdateQuestion(questionID, userID uint, title string) (*models.Question, error) {
	question, quiz, err := s.questionWithQuiz(questionID)
	if err != nil {
		return nil, err
	}
	if err := s.companies.RequireAccess(userID, quiz.CompanyID, AccessAdmin); err != nil {
		return nil, err
	}

	var existing models.Question
	if err := s.db.Where("quiz_id = ? AND title = ? AND id <> ?", question.QuizID, title, questionID).First(&existing).Error; err == nil {
		return nil, ErrQuestionTitleTaken
	}

	if err := s.db.Model(question).Update("title", title).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuizService) DeleteQuestion(questionID, userID uint) error {
	question, quiz, err := s.questionWithQuiz(questionID)
	if err != nil {
		return err
	}
	if err := s.companies.RequireAccess(userID, quiz.CompanyID, AccessAdmin); err != nil {
		return err
	}

	tx := s.db.Begin()
	if err := tx.Where("question_id = ?", questionID).Delete(&models.Answer{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(question).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := s.refreshQuizStatus(tx, question.QuizID); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (s *QuizService) CreateAnswer(questionID, userID uint, title string, isCorrect bool) (*models.Answer, error) {
	question, quiz, err := s.questionWithQuiz(questionID)
	if err != nil {
		return nil, err
	}
	if err := s.companies.RequireAccess(userID, quiz.CompanyID, AccessAdmin); err != nil {
		return nil, err
	}

	var existing models.Answer
	if err := s.db.Where("question_id = ? AND title = ?", questionID, title).First(&existing).Error; err == nil {
		return nil, ErrAnswerTitleTaken
	}

	answer := models.Answer{
		QuestionID: questionID,
		Title:      title,
		IsCorrect:  isCorrect,
	}

	tx := s.db.Begin()
	if isCorrect {
		// Only one answer per question may be correct at any time.
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", questionID).Update("is_correct", false).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Create(&answer).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.refreshQuestionStatus(tx, questionID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.refreshQuizStatus(tx, question.QuizID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (s *QuizService) UpdateAnswer(answerID, userID uint, title *string, isCorrect *bool) (*models.Answer, error) {
	answer, question, quiz, err := s.answerWithParents(answerID)
	if err != nil {
		return nil, err
	}
	if err := s.companies.RequireAccess(userID, quiz.CompanyID, AccessAdmin); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if title != nil {
		var existing models.Answer
		if err := s.db.Where("question_id = ? AND title = ? AND id <> ?", answer.QuestionID, *title, answerID).First(&existing).Error; err == nil {
			return nil, ErrAnswerTitleTaken
		}
		updates["title"] = *title
	}
	if isCorrect != nil {
		updates["is_correct"] = *isCorrect
	}

	tx := s.db.Begin()
	if isCorrect != nil && *isCorrect {
		if err := tx.Model(&models.Answer{}).Where("question_id = ? AND id <> ?", answer.QuestionID, answerID).Update("is_correct", false).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if len(updates) > 0 {
		if err := tx.Model(answer).Updates(updates).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := s.refreshQuestionStatus(tx, answer.QuestionID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.refreshQuizStatus(tx, question.QuizID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return answer, nil
}

func (s *QuizService) DeleteAnswer(answerID, userID uint) error {
	answer, question, quiz, err := s.answerWithParents(answerID)
	if err != nil {
		return err
	}
	if err := s.companies.RequireAccess(userID, quiz.CompanyID, AccessAdmin); err != nil {
		return err
	}

	tx := s.db.Begin()
	if err := tx.Delete(answer).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := s.refreshQuestionStatus(tx, answer.QuestionID); err != nil {
		tx.Rollback()
		return err
	}
	if err := s.refreshQuizStatus(tx, question.QuizID); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (s *QuizService) questionWithQuiz(questionID uint) (*models.Question, *models.Quiz, error) {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		return nil, nil, ErrQuestionNotFound
	}

	var quiz models.Quiz
	if err := s.db.First(&quiz, question.QuizID).Error; err != nil {
		return nil, nil, ErrQuestionNotFound
	}
	return &question, &quiz, nil
}

func (s *QuizService) answerWithParents(answerID uint) (*models.Answer, *models.Question, *models.Quiz, error) {
	var answer models.Answer
	if err := s.db.First(&answer, answerID).Error; err != nil {
		return nil, nil, nil, ErrAnswerNotFound
	}

	var question models.Question
	if err := s.db.First(&question, answer.QuestionID).Error; err != nil {
		return nil, nil, nil, ErrAnswerNotFound
	}

	var quiz models.Quiz
	if err := s.db.First(&quiz, question.QuizID).Error; err != nil {
		return nil, nil, nil, ErrAnswerNotFound
	}
	return &answer, &question, &quiz, nil
}

func (s *QuizService) refreshQuestionStatus(tx *gorm.DB, questionID uint) error {
	var total, correct int64
	if err := tx.Model(&models.Answer{}).Where("question_id = ?", questionID).Count(&total).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Answer{}).Where("question_id = ? AND is_correct = ?", questionID, true).Count(&correct).Error; err != nil {
		return err
	}

	ready := total >= minQuestionAnswers && correct == 1
	return tx.Model(&models.Question{}).Where("id = ?", questionID).Update("fully_created", ready).Error
}

func (s *QuizService) refreshQuizStatus(tx *gorm.DB, quizID uint) error {
	var total, ready int64
	if err := tx.Model(&models.Question{}).Where("quiz_id = ?", quizID).Count(&total).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Question{}).Where("quiz_id = ? AND fully_created = ?", quizID, true).Count(&ready).Error; err != nil {
		return err
	}

	ok := total >= minQuizQuestions && ready == total
	return tx.Model(&models.Quiz{}).Where("id = ?", quizID).Update("fully_created", ok).Error
}
