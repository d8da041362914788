package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"quiz-platform-backend/internal/kvstore"
	"quiz-platform-backend/internal/models"
	"quiz-platform-backend/internal/tasks"

	"gorm.io/gorm"
)

const (
	// maxAttemptsPerQuiz caps attempts per (user, quiz) regardless of
	// completion state.
	maxAttemptsPerQuiz = 2
	// answerCacheGrace keeps cached answers alive a little past the
	// deadline so a completion call near the buzzer still sees them.
	answerCacheGrace = 2 * time.Minute
	// resultArchiveTTL is the viewing window for finished results,
	// independent of the quiz's completion time.
	resultArchiveTTL = 48 * time.Hour
)

// AttemptService drives the quiz attempt workflow: starting a timed attempt,
// collecting per-question answers in the cache, scoring on completion and
// archiving the readable result. The relational row is the system of record;
// everything in the key-value store is transient.
type AttemptService struct {
	db      *gorm.DB
	store   kvstore.Store
	quizzes *QuizService
	scores  *ScoreService
	runner  *tasks.Runner
	now     func() time.Time
}

func NewAttemptService(db *gorm.DB, store kvstore.Store, quizzes *QuizService, scores *ScoreService, runner *tasks.Runner) *AttemptService {
	return &AttemptService{
		db:      db,
		store:   store,
		quizzes: quizzes,
		scores:  scores,
		runner:  runner,
		now:     time.Now,
	}
}

// Quiz snapshot returned by Start so the client can render the whole quiz
// without a second fetch. Correctness flags never leave the server here.
type SnapshotAnswer struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type SnapshotQuestion struct {
	ID      uint             `json:"id"`
	Title   string           `json:"title"`
	Answers []SnapshotAnswer `json:"answers"`
}

type QuizSnapshot struct {
	ID             uint               `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	CompletionTime int                `json:"completion_time"`
	Questions      []SnapshotQuestion `json:"questions"`
}

type StartedAttempt struct {
	ID   uint         `json:"id"`
	Quiz QuizSnapshot `json:"quiz"`
}

// Archived result document, stored as JSON under "attempt-answers:{id}".
type ResultQuestion struct {
	Title      string   `json:"title"`
	Answers    []string `json:"answers"`
	UserAnswer *string  `json:"user_answer"`
	IsCorrect  *bool    `json:"is_correct"`
}

type ResultDocument struct {
	Quiz      string           `json:"quiz"`
	Result    string           `json:"result"`
	SpentTime string           `json:"spent_time"`
	Questions []ResultQuestion `json:"questions"`
}

type AttemptSummary struct {
	ID                uint    `json:"id"`
	QuizTitle         string  `json:"quiz_title"`
	Result            *string `json:"result"`
	SpentTime         string  `json:"spent_time"`
	AnswersAreExpired bool    `json:"answers_are_expired"`
}

// Start opens a timed attempt. Preconditions are checked in a fixed order so
// each failure mode stays distinguishable: access, quiz readiness, quota,
// ongoing attempt.
func (s *AttemptService) Start(ctx context.Context, quizID, userID uint) (*StartedAttempt, error) {
	quiz, err := s.quizzes.GetQuizByID(quizID, userID, AccessMember)
	if err != nil {
		return nil, err
	}

	if !quiz.FullyCreated {
		return nil, ErrQuizNotReady
	}

	var used int64
	err = s.db.WithContext(ctx).Model(&models.Attempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&used).Error
	if err != nil {
		return nil, err
	}
	if used >= maxAttemptsPerQuiz {
		return nil, ErrNoAttemptsLeft
	}

	now := s.now()
	var ongoing int64
	err = s.db.WithContext(ctx).Model(&models.Attempt{}).
		Where("user_id = ? AND quiz_id = ? AND completed_at IS NULL AND end_time > ?", userID, quizID, now).
		Count(&ongoing).Error
	if err != nil {
		return nil, err
	}
	if ongoing > 0 {
		return nil, ErrAttemptOngoing
	}

	attempt := models.Attempt{
		QuizID:    quizID,
		UserID:    userID,
		StartTime: now,
		// The deadline is fixed here; later edits to the quiz's completion
		// time must not move it.
		EndTime:   now.Add(time.Duration(quiz.CompletionTime) * time.Minute),
		SpentTime: fmt.Sprintf("%d:00", quiz.CompletionTime),
	}
	if err := s.db.WithContext(ctx).Create(&attempt).Error; err != nil {
		return nil, err
	}

	return &StartedAttempt{ID: attempt.ID, Quiz: snapshotQuiz(quiz)}, nil
}

// Answer records one answer choice in the cache. Resubmitting the same
// question silently replaces the earlier choice; nothing durable is written
// here.
func (s *AttemptService) Answer(ctx context.Context, attemptID, questionID, answerID, userID uint) error {
	attempt, err := s.getOwnedAttempt(ctx, attemptID, userID, "Quiz")
	if err != nil {
		return err
	}

	if s.isCompleted(attempt) {
		return ErrAttemptCompleted
	}

	question, err := s.quizzes.GetQuestionByID(questionID, userID, AccessMember)
	if err != nil {
		return err
	}
	if question.QuizID != attempt.QuizID {
		return ErrQuestionNotInQuiz
	}

	answer, err := s.quizzes.GetAnswerByID(answerID, userID, AccessMember)
	if err != nil {
		return err
	}
	if answer.QuestionID != question.ID {
		return ErrAnswerNotInQuestion
	}

	key := answerKey(attempt.ID, attempt.QuizID, question.ID)
	ttl := time.Duration(attempt.Quiz.CompletionTime)*time.Minute + answerCacheGrace
	return s.store.Set(ctx, key, strconv.FormatUint(uint64(answer.ID), 10), ttl)
}

// Complete scores the attempt exactly once: cached answers are reconciled
// in bulk, the row is finalized with a conditional update, and the readable
// result document is archived for 48 hours. Aggregate score recomputation is
// handed to the background runner.
func (s *AttemptService) Complete(ctx context.Context, attemptID, userID uint) (string, error) {
	attempt, err := s.getOwnedAttempt(ctx, attemptID, userID, "Quiz.Questions.Answers")
	if err != nil {
		return "", err
	}

	if s.isCompleted(attempt) {
		return "", ErrAttemptCompleted
	}

	now := s.now()
	spent := formatSpentTime(now.Sub(attempt.StartTime))

	answers, err := s.cachedAnswers(ctx, attempt.ID)
	if err != nil {
		return "", err
	}

	result := 0
	for _, answer := range answers {
		if answer.IsCorrect {
			result++
		}
	}

	// The WHERE clause makes double completion lose atomically: whichever
	// call lands second affects zero rows.
	res := s.db.WithContext(ctx).Model(&models.Attempt{}).
		Where("id = ? AND completed_at IS NULL", attempt.ID).
		Updates(map[string]interface{}{
			"spent_time":   spent,
			"result":       result,
			"completed_at": now,
		})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", ErrAttemptCompleted
	}

	doc := buildResultDocument(attempt, answers, result, spent)
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, archiveKey(attempt.ID), string(payload), resultArchiveTTL); err != nil {
		return "", err
	}

	userID, companyID := attempt.UserID, attempt.Quiz.CompanyID
	s.runner.Enqueue(tasks.Task{
		Name: fmt.Sprintf("global score user=%d", userID),
		Run: func(context.Context) error {
			return s.scores.SetGlobalScore(userID)
		},
	})
	s.runner.Enqueue(tasks.Task{
		Name: fmt.Sprintf("company score user=%d company=%d", userID, companyID),
		Run: func(context.Context) error {
			return s.scores.SetCompanyScore(userID, companyID)
		},
	})

	return doc.Result, nil
}

// Results fetches the archived document. Completion is required first:
// results stay invisible while the attempt can still accept answers. An
// expired archive is a plain not-found even though the attempt row remains.
func (s *AttemptService) Results(ctx context.Context, attemptID, userID uint) (*ResultDocument, error) {
	attempt, err := s.getOwnedAttempt(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}

	if !s.isCompleted(attempt) {
		return nil, ErrForbidden
	}

	raw, err := s.store.Get(ctx, archiveKey(attemptID))
	if err != nil {
		if err == kvstore.ErrNotFound {
			return nil, ErrResultsNotFound
		}
		return nil, err
	}

	var doc ResultDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListUserAttempts returns the caller's attempts, optionally narrowed to one
// company, flagging whether each archived result document is still readable.
func (s *AttemptService) ListUserAttempts(ctx context.Context, userID uint, companyID *uint) ([]AttemptSummary, error) {
	query := s.db.WithContext(ctx).Where("attempts.user_id = ?", userID)
	if companyID != nil {
		query = query.Joins("JOIN quizzes ON quizzes.id = attempts.quiz_id").
			Where("quizzes.company_id = ?", *companyID)
	}

	var attempts []models.Attempt
	if err := query.Preload("Quiz.Questions").Order("attempts.id").Find(&attempts).Error; err != nil {
		return nil, err
	}

	summaries := make([]AttemptSummary, 0, len(attempts))
	for _, attempt := range attempts {
		summary := AttemptSummary{
			ID:        attempt.ID,
			QuizTitle: attempt.Quiz.Title,
			SpentTime: attempt.SpentTime,
		}
		if attempt.Result != nil {
			resultStr := fmt.Sprintf("%d/%d", *attempt.Result, len(attempt.Quiz.Questions))
			summary.Result = &resultStr
		}
		if _, err := s.store.Get(ctx, archiveKey(attempt.ID)); err != nil {
			summary.AnswersAreExpired = true
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// isCompleted is the single completion predicate: explicit completion or the
// clock leaving the attempt window.
func (s *AttemptService) isCompleted(attempt *models.Attempt) bool {
	if attempt.CompletedAt != nil {
		return true
	}
	now := s.now()
	return now.Before(attempt.StartTime) || now.After(attempt.EndTime)
}

func (s *AttemptService) getOwnedAttempt(ctx context.Context, attemptID, userID uint, preloads ...string) (*models.Attempt, error) {
	query := s.db.WithContext(ctx)
	for _, preload := range preloads {
		query = query.Preload(preload)
	}

	var attempt models.Attempt
	if err := query.First(&attempt, attemptID).Error; err != nil {
		return nil, ErrAttemptNotFound
	}
	if attempt.UserID != userID {
		return nil, ErrForbidden
	}
	return &attempt, nil
}

// cachedAnswers resolves every answer the user submitted for the attempt.
// The scan pattern ends in ":*" so attempt 12 can never pick up keys of
// attempt 123. Entries that expire between Keys and MGet are skipped.
func (s *AttemptService) cachedAnswers(ctx context.Context, attemptID uint) ([]models.Answer, error) {
	keys, err := s.store.Keys(ctx, fmt.Sprintf("%d:*", attemptID))
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := s.store.MGet(ctx, keys...)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(values))
	for _, value := range values {
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var answers []models.Answer
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func snapshotQuiz(quiz *models.Quiz) QuizSnapshot {
	snapshot := QuizSnapshot{
		ID:             quiz.ID,
		Title:          quiz.Title,
		Description:    quiz.Description,
		CompletionTime: quiz.CompletionTime,
		Questions:      make([]SnapshotQuestion, 0, len(quiz.Questions)),
	}
	for _, question := range quiz.Questions {
		sq := SnapshotQuestion{ID: question.ID, Title: question.Title}
		for _, answer := range question.Answers {
			sq.Answers = append(sq.Answers, SnapshotAnswer{ID: answer.ID, Title: answer.Title})
		}
		snapshot.Questions = append(snapshot.Questions, sq)
	}
	return snapshot
}

func buildResultDocument(attempt *models.Attempt, answers []models.Answer, result int, spent string) *ResultDocument {
	chosen := make(map[uint]*models.Answer, len(answers))
	for i := range answers {
		chosen[answers[i].QuestionID] = &answers[i]
	}

	questions := make([]ResultQuestion, 0, len(attempt.Quiz.Questions))
	for _, question := range attempt.Quiz.Questions {
		entry := ResultQuestion{Title: question.Title}
		for _, answer := range question.Answers {
			entry.Answers = append(entry.Answers, answer.Title)
		}
		if answer, ok := chosen[question.ID]; ok {
			entry.UserAnswer = &answer.Title
			isCorrect := answer.IsCorrect
			entry.IsCorrect = &isCorrect
		}
		questions = append(questions, entry)
	}

	return &ResultDocument{
		Quiz:      attempt.Quiz.Title,
		Result:    fmt.Sprintf("%d/%d", result, len(attempt.Quiz.Questions)),
		SpentTime: fmt.Sprintf("%s/%d:00", spent, attempt.Quiz.CompletionTime),
		Questions: questions,
	}
}

// formatSpentTime renders elapsed time as "MM:SS" with plain arithmetic;
// minutes are not wrapped at the hour.
func formatSpentTime(elapsed time.Duration) string {
	total := int(elapsed.Seconds())
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func answerKey(attemptID, quizID, questionID uint) string {
	return fmt.Sprintf("%d:%d:%d", attemptID, quizID, questionID)
}

func archiveKey(attemptID uint) string {
	return fmt.Sprintf("attempt-answers:%d", attemptID)
}
