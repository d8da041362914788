package services

import (
	"path/filepath"
	"testing"

	"quiz-platform-backend/internal/database"
	"quiz-platform-backend/internal/kvstore"
	"quiz-platform-backend/internal/models"
	"quiz-platform-backend/internal/tasks"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	database.AutoMigrate(db)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{Email: email, Username: username, PasswordHash: string(hash)}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return &user
}

// quizFixture is a company with an owner, one plain member and a fully
// created two-question quiz. Each question has one correct and one wrong
// answer.
type quizFixture struct {
	owner     *models.User
	member    *models.User
	company   *models.Company
	quiz      *models.Quiz
	questions [2]*models.Question
	correct   [2]*models.Answer
	wrong     [2]*models.Answer
}

func setupQuizFixture(t *testing.T, db *gorm.DB, completionTime int) *quizFixture {
	t.Helper()

	f := &quizFixture{}
	f.owner = createTestUser(t, db, "owner@example.com", "owner")
	f.member = createTestUser(t, db, "member@example.com", "member")

	companies := NewCompanyService(db)
	company, err := companies.Create(f.owner.ID, "Acme Corp", "quiz fixture", false)
	if err != nil {
		t.Fatalf("create company: %v", err)
	}
	f.company = company
	if err := companies.AddMember(db, company.ID, f.member.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}

	quizzes := NewQuizService(db, companies)
	quiz, err := quizzes.CreateQuiz(company.ID, f.owner.ID, "Capitals", "european capitals", completionTime)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	titles := [2]string{"Capital of France?", "Capital of Spain?"}
	correct := [2]string{"Paris", "Madrid"}
	wrong := [2]string{"Lyon", "Barcelona"}
	for i := 0; i < 2; i++ {
		question, err := quizzes.CreateQuestion(quiz.ID, f.owner.ID, titles[i])
		if err != nil {
			t.Fatalf("create question %d: %v", i, err)
		}
		f.questions[i] = question

		f.correct[i], err = quizzes.CreateAnswer(question.ID, f.owner.ID, correct[i], true)
		if err != nil {
			t.Fatalf("create correct answer %d: %v", i, err)
		}
		f.wrong[i], err = quizzes.CreateAnswer(question.ID, f.owner.ID, wrong[i], false)
		if err != nil {
			t.Fatalf("create wrong answer %d: %v", i, err)
		}
	}

	f.quiz, err = quizzes.GetQuizByID(quiz.ID, f.owner.ID, AccessMember)
	if err != nil {
		t.Fatalf("reload quiz: %v", err)
	}
	if !f.quiz.FullyCreated {
		t.Fatalf("fixture quiz should be fully created")
	}
	return f
}

func newTestAttemptService(t *testing.T, db *gorm.DB, store kvstore.Store) *AttemptService {
	t.Helper()

	companies := NewCompanyService(db)
	quizzes := NewQuizService(db, companies)
	scores := NewScoreService(db)
	runner := tasks.NewRunner(16)
	runner.Start()
	t.Cleanup(runner.Stop)
	return NewAttemptService(db, store, quizzes, scores, runner)
}
