package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"quiz-platform-backend/internal/kvstore"
	"quiz-platform-backend/internal/models"
)

var testClock = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func TestStartAttemptReturnsQuizWithoutCorrectness(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	store := kvstore.NewMemory()
	svc := newTestAttemptService(t, db, store)
	svc.now = func() time.Time { return testClock }

	started, err := svc.Start(context.Background(), f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if started.ID == 0 {
		t.Fatalf("expected a persisted attempt id")
	}
	if started.Quiz.CompletionTime != 15 {
		t.Fatalf("unexpected completion time in snapshot: %d", started.Quiz.CompletionTime)
	}
	if len(started.Quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions in snapshot, got %d", len(started.Quiz.Questions))
	}
	if len(started.Quiz.Questions[0].Answers) != 2 {
		t.Fatalf("expected 2 answers per question, got %d", len(started.Quiz.Questions[0].Answers))
	}

	payload, err := json.Marshal(started)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	if strings.Contains(string(payload), "is_correct") {
		t.Fatalf("snapshot leaks correctness flags: %s", payload)
	}

	var attempt models.Attempt
	if err := db.First(&attempt, started.ID).Error; err != nil {
		t.Fatalf("load attempt row: %v", err)
	}
	if !attempt.StartTime.Equal(testClock) {
		t.Fatalf("unexpected start time: %v", attempt.StartTime)
	}
	if !attempt.EndTime.Equal(testClock.Add(15 * time.Minute)) {
		t.Fatalf("deadline not fixed at start+completion_time: %v", attempt.EndTime)
	}
	if attempt.SpentTime != "15:00" {
		t.Fatalf("expected placeholder spent time %q, got %q", "15:00", attempt.SpentTime)
	}
	if attempt.CompletedAt != nil || attempt.Result != nil {
		t.Fatalf("fresh attempt should be unscored: %+v", attempt)
	}
}

func TestStartAttemptRequiresFullyCreatedQuiz(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	svc := newTestAttemptService(t, db, kvstore.NewMemory())

	quizzes := NewQuizService(db, NewCompanyService(db))
	if err := quizzes.DeleteAnswer(f.wrong[0].ID, f.owner.ID); err != nil {
		t.Fatalf("delete answer: %v", err)
	}

	_, err := svc.Start(context.Background(), f.quiz.ID, f.member.ID)
	if !errors.Is(err, ErrQuizNotReady) {
		t.Fatalf("expected ErrQuizNotReady, got %v", err)
	}
}

func TestStartAttemptRequiresMembership(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	svc := newTestAttemptService(t, db, kvstore.NewMemory())

	outsider := createTestUser(t, db, "outsider@example.com", "outsider")
	_, err := svc.Start(context.Background(), f.quiz.ID, outsider.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-member, got %v", err)
	}
}

func TestStartAttemptEnforcesTwoAttemptQuota(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	svc := newTestAttemptService(t, db, kvstore.NewMemory())
	svc.now = func() time.Time { return testClock }

	// Quota counts every attempt row, including ones that expired without
	// ever being completed.
	for i := 0; i < 2; i++ {
		expired := models.Attempt{
			QuizID:    f.quiz.ID,
			UserID:    f.member.ID,
			StartTime: testClock.Add(time.Duration(-2-i) * time.Hour),
			EndTime:   testClock.Add(time.Duration(-2-i)*time.Hour + 15*time.Minute),
			SpentTime: "15:00",
		}
		if err := db.Create(&expired).Error; err != nil {
			t.Fatalf("seed expired attempt: %v", err)
		}
	}

	_, err := svc.Start(context.Background(), f.quiz.ID, f.member.ID)
	if !errors.Is(err, ErrNoAttemptsLeft) {
		t.Fatalf("expected ErrNoAttemptsLeft, got %v", err)
	}

	var count int64
	db.Model(&models.Attempt{}).Where("user_id = ? AND quiz_id = ?", f.member.ID, f.quiz.ID).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 attempt rows, got %d", count)
	}
}

func TestStartAttemptRejectsOngoingAttempt(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	svc := newTestAttemptService(t, db, kvstore.NewMemory())
	svc.now = func() time.Time { return testClock }

	if _, err := svc.Start(context.Background(), f.quiz.ID, f.member.ID); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}

	_, err := svc.Start(context.Background(), f.quiz.ID, f.member.ID)
	if !errors.Is(err, ErrAttemptOngoing) {
		t.Fatalf("expected ErrAttemptOngoing, got %v", err)
	}
}

func TestStartAttemptAllowedAfterPreviousExpires(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	svc := newTestAttemptService(t, db, kvstore.NewMemory())
	svc.now = func() time.Time { return testClock }

	if _, err := svc.Start(context.Background(), f.quiz.ID, f.member.ID); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}

	// The first attempt's window has passed; it still counts toward the
	// quota but no longer blocks a new start.
	svc.now = func() time.Time { return testClock.Add(16 * time.Minute) }
	if _, err := svc.Start(context.Background(), f.quiz.ID, f.member.ID); err != nil {
		t.Fatalf("Start after expiry failed: %v", err)
	}
}

func TestAnswerCachesChoiceWithAttemptScopedTTL(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	store := kvstore.NewMemory()
	svc := newTestAttemptService(t, db, store)
	svc.now = func() time.Time { return testClock }
	ctx := context.Background()

	started, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := svc.Answer(ctx, started.ID, f.questions[0].ID, f.correct[0].ID, f.member.ID); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	key := fmt.Sprintf("%d:%d:%d", started.ID, f.quiz.ID, f.questions[0].ID)
	value, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("cached answer missing under %q: %v", key, err)
	}
	if value != fmt.Sprintf("%d", f.correct[0].ID) {
		t.Fatalf("unexpected cached answer id: %q", value)
	}

	ttl, ok := store.TTL(key)
	if !ok {
		t.Fatalf("cached answer has no expiry")
	}
	if ttl > 17*time.Minute || ttl < 16*time.Minute {
		t.Fatalf("expected ttl of completion time plus grace, got %v", ttl)
	}
}

func TestAnswerResubmissionReplacesEarlierChoice(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	store := kvstore.NewMemory()
	svc := newTestAttemptService(t, db, store)
	svc.now = func() time.Time { return testClock }
	ctx := context.Background()

	started, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := svc.Answer(ctx, started.ID, f.questions[0].ID, f.correct[0].ID, f.member.ID); err != nil {
		t.Fatalf("first Answer failed: %v", err)
	}
	if err := svc.Answer(ctx, started.ID, f.questions[0].ID, f.wrong[0].ID, f.member.ID); err != nil {
		t.Fatalf("second Answer failed: %v", err)
	}

	key := fmt.Sprintf("%d:%d:%d", started.ID, f.quiz.ID, f.questions[0].ID)
	value, _ := store.Get(ctx, key)
	if value != fmt.Sprintf("%d", f.wrong[0].ID) {
		t.Fatalf("last write should win, got %q", value)
	}

	result, err := svc.Complete(ctx, started.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result != "0/2" {
		t.Fatalf("expected replaced answer to score, got %q", result)
	}

	doc, err := svc.Results(ctx, started.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}
	if doc.Questions[0].UserAnswer == nil || *doc.Questions[0].UserAnswer != "Lyon" {
		t.Fatalf("document should carry the replacement answer, got %v", doc.Questions[0].UserAnswer)
	}
	if doc.Questions[0].IsCorrect == nil || *doc.Questions[0].IsCorrect {
		t.Fatalf("replacement answer should be marked wrong")
	}
}

func TestAnswerRejectsQuestionFromAnotherQuiz(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	store := kvstore.NewMemory()
	svc := newTestAttemptService(t, db, store)
	svc.now = func() time.Time { return testClock }
	ctx := context.Background()

	quizzes := NewQuizService(db, NewCompanyService(db))
	otherQuiz, err := quizzes.CreateQuiz(f.company.ID, f.owner.ID, "Rivers", "", 10)
	if err != nil {
		t.Fatalf("create other quiz: %v", err)
	}
	otherQuestion, err := quizzes.CreateQuestion(otherQuiz.ID, f.owner.ID, "Longest river?")
	if err != nil {
		t.Fatalf("create other question: %v", err)
	}

	started, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	err = svc.Answer(ctx, started.ID, otherQuestion.ID, f.correct[0].ID, f.member.ID)
	if !errors.Is(err, ErrQuestionNotInQuiz) {
		t.Fatalf("expected ErrQuestionNotInQuiz, got %v", err)
	}

	keys, _ := store.Keys(ctx, fmt.Sprintf("%d:*", started.ID))
	if len(keys) != 0 {
		t.Fatalf("rejected answer must not be cached, found %v", keys)
	}
}

func TestAnswerRejectsAnswerFromAnotherQuestion(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	svc := newTestAttemptService(t, db, kvstore.NewMemory())
	svc.now = func() time.Time { return testClock }
	ctx := context.Background()

	started, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	err = svc.Answer(ctx, started.ID, f.questions[0].ID, f.correct[1].ID, f.member.ID)
	if !errors.Is(err, ErrAnswerNotInQuestion) {
		t.Fatalf("expected ErrAnswerNotInQuestion, got %v", err)
	}
}

func TestAnswerGatedByBothCompletionTriggers(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	svc := newTestAttemptService(t, db, kvstore.NewMemory())
	svc.now = func() time.Time { return testClock }
	ctx := context.Background()

	// Explicit completion.
	started, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := svc.Complete(ctx, started.ID, f.member.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	err = svc.Answer(ctx, started.ID, f.questions[0].ID, f.correct[0].ID, f.member.ID)
	if !errors.Is(err, ErrAttemptCompleted) {
		t.Fatalf("expected ErrAttemptCompleted after explicit completion, got %v", err)
	}

	// Deadline passing with no completion call.
	second, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	svc.now = func() time.Time { return testClock.Add(20 * time.Minute) }
	err = svc.Answer(ctx, second.ID, f.questions[0].ID, f.correct[0].ID, f.member.ID)
	if !errors.Is(err, ErrAttemptCompleted) {
		t.Fatalf("expected ErrAttemptCompleted after deadline, got %v", err)
	}
}

func TestAnswerForbiddenForOtherUsers(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	svc := newTestAttemptService(t, db, kvstore.NewMemory())
	svc.now = func() time.Time { return testClock }
	ctx := context.Background()

	started, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	err = svc.Answer(ctx, started.ID, f.questions[0].ID, f.correct[0].ID, f.owner.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign attempt, got %v", err)
	}
}

func TestCompleteScoresAllCorrectAnswers(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	store := kvstore.NewMemory()
	svc := newTestAttemptService(t, db, store)
	svc.now = func() time.Time { return testClock }
	ctx := context.Background()

	started, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.Answer(ctx, started.ID, f.questions[i].ID, f.correct[i].ID, f.member.ID); err != nil {
			t.Fatalf("Answer %d failed: %v", i, err)
		}
	}

	svc.now = func() time.Time { return testClock.Add(5*time.Minute + 30*time.Second) }
	result, err := svc.Complete(ctx, started.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result != "2/2" {
		t.Fatalf("expected result %q, got %q", "2/2", result)
	}

	var attempt models.Attempt
	if err := db.First(&attempt, started.ID).Error; err != nil {
		t.Fatalf("load attempt: %v", err)
	}
	if attempt.Result == nil || *attempt.Result != 2 {
		t.Fatalf("stored result should be 2, got %v", attempt.Result)
	}
	if attempt.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}
	if attempt.SpentTime != "05:30" {
		t.Fatalf("expected spent time %q, got %q", "05:30", attempt.SpentTime)
	}

	raw, err := store.Get(ctx, fmt.Sprintf("attempt-answers:%d", started.ID))
	if err != nil {
		t.Fatalf("result archive missing: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("archive is not valid json: %v", err)
	}
	if doc["quiz"] != "Capitals" || doc["result"] != "2/2" || doc["spent_time"] != "05:30/15:00" {
		t.Fatalf("unexpected archive header: %v", doc)
	}
	questions, ok := doc["questions"].([]interface{})
	if !ok || len(questions) != 2 {
		t.Fatalf("expected 2 archived questions, got %v", doc["questions"])
	}

	ttl, ok := store.TTL(fmt.Sprintf("attempt-answers:%d", started.ID))
	if !ok || ttl > 48*time.Hour || ttl < 47*time.Hour {
		t.Fatalf("expected 48h archive ttl, got %v", ttl)
	}
}

func TestCompleteRecordsUnansweredQuestionsAsNull(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	store := kvstore.NewMemory()
	svc := newTestAttemptService(t, db, store)
	svc.now = func() time.Time { return testClock }
	ctx := context.Background()

	started, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := svc.Answer(ctx, started.ID, f.questions[0].ID, f.correct[0].ID, f.member.ID); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	result, err := svc.Complete(ctx, started.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result != "1/2" {
		t.Fatalf("expected result %q, got %q", "1/2", result)
	}

	doc, err := svc.Results(ctx, started.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}
	if len(doc.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(doc.Questions))
	}

	answered := doc.Questions[0]
	if answered.UserAnswer == nil || *answered.UserAnswer != "Paris" {
		t.Fatalf("unexpected user answer: %v", answered.UserAnswer)
	}
	if answered.IsCorrect == nil || !*answered.IsCorrect {
		t.Fatalf("answered question should be marked correct")
	}

	skipped := doc.Questions[1]
	if skipped.UserAnswer != nil || skipped.IsCorrect != nil {
		t.Fatalf("skipped question must carry nulls, got %+v", skipped)
	}
	if len(skipped.Answers) != 2 {
		t.Fatalf("archived question should list all options, got %v", skipped.Answers)
	}
}

func TestCompleteTwiceScoresOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	store := kvstore.NewMemory()
	svc := newTestAttemptService(t, db, store)
	svc.now = func() time.Time { return testClock }
	ctx := context.Background()

	started, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := svc.Answer(ctx, started.ID, f.questions[0].ID, f.correct[0].ID, f.member.ID); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if _, err := svc.Complete(ctx, started.ID, f.member.ID); err != nil {
		t.Fatalf("first Complete failed: %v", err)
	}

	// A better score submitted afterwards must not change anything.
	if err := store.Set(ctx, fmt.Sprintf("%d:%d:%d", started.ID, f.quiz.ID, f.questions[1].ID), fmt.Sprintf("%d", f.correct[1].ID), time.Hour); err != nil {
		t.Fatalf("seed late answer: %v", err)
	}

	_, err = svc.Complete(ctx, started.ID, f.member.ID)
	if !errors.Is(err, ErrAttemptCompleted) {
		t.Fatalf("expected ErrAttemptCompleted, got %v", err)
	}

	var attempt models.Attempt
	db.First(&attempt, started.ID)
	if attempt.Result == nil || *attempt.Result != 1 {
		t.Fatalf("stored result must stay 1, got %v", attempt.Result)
	}
}

func TestCompleteAfterDeadlineFails(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	svc := newTestAttemptService(t, db, kvstore.NewMemory())
	svc.now = func() time.Time { return testClock }
	ctx := context.Background()

	started, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	svc.now = func() time.Time { return testClock.Add(16 * time.Minute) }
	_, err = svc.Complete(ctx, started.ID, f.member.ID)
	if !errors.Is(err, ErrAttemptCompleted) {
		t.Fatalf("expected ErrAttemptCompleted after the window, got %v", err)
	}

	var attempt models.Attempt
	db.First(&attempt, started.ID)
	if attempt.Result != nil {
		t.Fatalf("expired attempt must stay unscored, got %v", *attempt.Result)
	}
}

func TestCompleteTriggersScoreAggregation(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	svc := newTestAttemptService(t, db, kvstore.NewMemory())
	svc.now = func() time.Time { return testClock }
	ctx := context.Background()

	started, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.Answer(ctx, started.ID, f.questions[i].ID, f.correct[i].ID, f.member.ID); err != nil {
			t.Fatalf("Answer %d failed: %v", i, err)
		}
	}
	if _, err := svc.Complete(ctx, started.ID, f.member.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		var user models.User
		var membership models.CompanyMember
		db.First(&user, f.member.ID)
		db.Where("company_id = ? AND user_id = ?", f.company.ID, f.member.ID).First(&membership)
		if user.GlobalScore != nil && membership.AverageScore != nil {
			if *user.GlobalScore != 1.0 {
				t.Fatalf("expected global score 1.0, got %v", *user.GlobalScore)
			}
			if *membership.AverageScore != 1.0 {
				t.Fatalf("expected company score 1.0, got %v", *membership.AverageScore)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("score aggregation did not run: global=%v company=%v", user.GlobalScore, membership.AverageScore)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestResultsVisibilityGating(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	store := kvstore.NewMemory()
	svc := newTestAttemptService(t, db, store)
	svc.now = func() time.Time { return testClock }
	ctx := context.Background()

	started, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Invisible while the attempt can still accept answers.
	if _, err := svc.Results(ctx, started.ID, f.member.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden before completion, got %v", err)
	}

	if err := svc.Answer(ctx, started.ID, f.questions[0].ID, f.correct[0].ID, f.member.ID); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if _, err := svc.Complete(ctx, started.ID, f.member.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	doc, err := svc.Results(ctx, started.ID, f.member.ID)
	if err != nil {
		t.Fatalf("Results after completion failed: %v", err)
	}
	if doc.Quiz != "Capitals" || doc.Result != "1/2" {
		t.Fatalf("unexpected result document: %+v", doc)
	}

	// Owned by someone else.
	if _, err := svc.Results(ctx, started.ID, f.owner.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign attempt, got %v", err)
	}

	// Archive expired: the row remains but the document is gone.
	if err := store.Del(ctx, fmt.Sprintf("attempt-answers:%d", started.ID)); err != nil {
		t.Fatalf("drop archive: %v", err)
	}
	if _, err := svc.Results(ctx, started.ID, f.member.ID); !errors.Is(err, ErrResultsNotFound) {
		t.Fatalf("expected ErrResultsNotFound after expiry, got %v", err)
	}
}

func TestListUserAttemptsFlagsExpiredArchives(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	store := kvstore.NewMemory()
	svc := newTestAttemptService(t, db, store)
	svc.now = func() time.Time { return testClock }
	ctx := context.Background()

	first, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if err := svc.Answer(ctx, first.ID, f.questions[0].ID, f.correct[0].ID, f.member.ID); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if _, err := svc.Complete(ctx, first.ID, f.member.ID); err != nil {
		t.Fatalf("first Complete failed: %v", err)
	}

	second, err := svc.Start(ctx, f.quiz.ID, f.member.ID)
	if err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if _, err := svc.Complete(ctx, second.ID, f.member.ID); err != nil {
		t.Fatalf("second Complete failed: %v", err)
	}
	if err := store.Del(ctx, fmt.Sprintf("attempt-answers:%d", second.ID)); err != nil {
		t.Fatalf("drop second archive: %v", err)
	}

	summaries, err := svc.ListUserAttempts(ctx, f.member.ID, nil)
	if err != nil {
		t.Fatalf("ListUserAttempts failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].QuizTitle != "Capitals" {
		t.Fatalf("unexpected quiz title: %q", summaries[0].QuizTitle)
	}
	if summaries[0].Result == nil || *summaries[0].Result != "1/2" {
		t.Fatalf("unexpected first result: %v", summaries[0].Result)
	}
	if summaries[0].AnswersAreExpired {
		t.Fatalf("first archive should still be readable")
	}
	if summaries[1].Result == nil || *summaries[1].Result != "0/2" {
		t.Fatalf("unexpected second result: %v", summaries[1].Result)
	}
	if !summaries[1].AnswersAreExpired {
		t.Fatalf("second archive should be flagged expired")
	}

	scoped, err := svc.ListUserAttempts(ctx, f.member.ID, &f.company.ID)
	if err != nil {
		t.Fatalf("company-scoped list failed: %v", err)
	}
	if len(scoped) != 2 {
		t.Fatalf("expected 2 company-scoped summaries, got %d", len(scoped))
	}

	other := uint(9999)
	empty, err := svc.ListUserAttempts(ctx, f.member.ID, &other)
	if err != nil {
		t.Fatalf("foreign-company list failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no attempts for unrelated company, got %d", len(empty))
	}
}
