package services

import (
	"testing"
	"time"

	"quiz-platform-backend/internal/models"

	"gorm.io/gorm"
)

func seedScoredAttempt(t *testing.T, db *gorm.DB, quizID, userID uint, result int) {
	t.Helper()

	now := time.Now()
	r := result
	attempt := models.Attempt{
		QuizID:      quizID,
		UserID:      userID,
		StartTime:   now.Add(-10 * time.Minute),
		EndTime:     now.Add(5 * time.Minute),
		SpentTime:   "10:00",
		Result:      &r,
		CompletedAt: &now,
	}
	if err := db.Create(&attempt).Error; err != nil {
		t.Fatalf("seed scored attempt: %v", err)
	}
}

func TestGlobalScoreAveragesAcrossAttempts(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	scores := NewScoreService(db)

	// 2/2 on the first attempt, 1/2 on the second: 3 of 4 questions.
	seedScoredAttempt(t, db, f.quiz.ID, f.member.ID, 2)
	seedScoredAttempt(t, db, f.quiz.ID, f.member.ID, 1)

	if err := scores.SetGlobalScore(f.member.ID); err != nil {
		t.Fatalf("SetGlobalScore: %v", err)
	}

	var user models.User
	if err := db.First(&user, f.member.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.GlobalScore == nil || *user.GlobalScore != 0.75 {
		t.Fatalf("expected global score 0.75, got %v", user.GlobalScore)
	}
}

func TestGlobalScoreIgnoresUnscoredAttempts(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	scores := NewScoreService(db)

	seedScoredAttempt(t, db, f.quiz.ID, f.member.ID, 1)

	// Expired without completion: result stays null and must not dilute
	// the average.
	expired := models.Attempt{
		QuizID:    f.quiz.ID,
		UserID:    f.member.ID,
		StartTime: time.Now().Add(-2 * time.Hour),
		EndTime:   time.Now().Add(-105 * time.Minute),
		SpentTime: "15:00",
	}
	if err := db.Create(&expired).Error; err != nil {
		t.Fatalf("seed expired attempt: %v", err)
	}

	if err := scores.SetGlobalScore(f.member.ID); err != nil {
		t.Fatalf("SetGlobalScore: %v", err)
	}

	var user models.User
	db.First(&user, f.member.ID)
	if user.GlobalScore == nil || *user.GlobalScore != 0.5 {
		t.Fatalf("expected global score 0.5, got %v", user.GlobalScore)
	}
}

func TestCompanyScoreScopedToCompany(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	companies := NewCompanyService(db)
	quizzes := NewQuizService(db, companies)
	scores := NewScoreService(db)

	other, err := companies.Create(f.owner.ID, "Globex", "", false)
	if err != nil {
		t.Fatalf("create company: %v", err)
	}
	if err := companies.AddMember(db, other.ID, f.member.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}
	otherQuiz, err := quizzes.CreateQuiz(other.ID, f.owner.ID, "Rivers", "", 10)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	for _, title := range []string{"Longest river?", "Widest river?"} {
		if _, err := quizzes.CreateQuestion(otherQuiz.ID, f.owner.ID, title); err != nil {
			t.Fatalf("create question: %v", err)
		}
	}

	seedScoredAttempt(t, db, f.quiz.ID, f.member.ID, 2)
	seedScoredAttempt(t, db, otherQuiz.ID, f.member.ID, 0)

	if err := scores.SetCompanyScore(f.member.ID, f.company.ID); err != nil {
		t.Fatalf("SetCompanyScore: %v", err)
	}

	var acme, globex models.CompanyMember
	db.Where("company_id = ? AND user_id = ?", f.company.ID, f.member.ID).First(&acme)
	db.Where("company_id = ? AND user_id = ?", other.ID, f.member.ID).First(&globex)
	if acme.AverageScore == nil || *acme.AverageScore != 1.0 {
		t.Fatalf("expected Acme score 1.0, got %v", acme.AverageScore)
	}
	if globex.AverageScore != nil {
		t.Fatalf("Globex score touched before its own recompute: %v", *globex.AverageScore)
	}

	if err := scores.SetCompanyScore(f.member.ID, other.ID); err != nil {
		t.Fatalf("SetCompanyScore: %v", err)
	}
	db.Where("company_id = ? AND user_id = ?", other.ID, f.member.ID).First(&globex)
	if globex.AverageScore == nil || *globex.AverageScore != 0.0 {
		t.Fatalf("expected Globex score 0.0, got %v", globex.AverageScore)
	}
}

func TestScoresNullWithoutScoredAttempts(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	scores := NewScoreService(db)

	if err := scores.SetGlobalScore(f.member.ID); err != nil {
		t.Fatalf("SetGlobalScore: %v", err)
	}
	if err := scores.SetCompanyScore(f.member.ID, f.company.ID); err != nil {
		t.Fatalf("SetCompanyScore: %v", err)
	}

	var user models.User
	db.First(&user, f.member.ID)
	if user.GlobalScore != nil {
		t.Fatalf("global score should stay null, got %v", *user.GlobalScore)
	}
	var member models.CompanyMember
	db.Where("company_id = ? AND user_id = ?", f.company.ID, f.member.ID).First(&member)
	if member.AverageScore != nil {
		t.Fatalf("company score should stay null, got %v", *member.AverageScore)
	}
}
