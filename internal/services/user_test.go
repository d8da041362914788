package services

import (
	"errors"
	"testing"
	"time"

	"quiz-platform-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func TestUpdateUserSelfOnly(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com", "alice")
	bob := createTestUser(t, db, "bob@example.com", "bob")
	users := NewUserService(db)

	name := "mallory"
	if _, err := users.Update(bob.ID, alice.ID, &name, nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("updating another user: expected ErrForbidden, got %v", err)
	}

	newName := "alice2"
	newPassword := "fresh-password"
	if _, err := users.Update(alice.ID, alice.ID, &newName, &newPassword); err != nil {
		t.Fatalf("self update: %v", err)
	}

	var reloaded models.User
	if err := db.First(&reloaded, alice.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.Username != "alice2" {
		t.Fatalf("username not updated: %q", reloaded.Username)
	}
	if reloaded.Email != "alice@example.com" {
		t.Fatalf("email must stay immutable: %q", reloaded.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(reloaded.PasswordHash), []byte("fresh-password")); err != nil {
		t.Fatalf("new password not usable: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(reloaded.PasswordHash), []byte("password123")); err == nil {
		t.Fatalf("old password still matches after the change")
	}
}

func TestDeleteUserCleansRelatedRows(t *testing.T) {
	db := newTestDB(t)
	f := setupQuizFixture(t, db, 15)
	users := NewUserService(db)
	companies := NewCompanyService(db)
	invites := NewInviteService(db, companies, users)

	other, err := companies.Create(f.owner.ID, "Globex", "", false)
	if err != nil {
		t.Fatalf("create company: %v", err)
	}
	if _, err := invites.Invite(other.ID, f.owner.ID, f.member.ID); err != nil {
		t.Fatalf("invite: %v", err)
	}
	attempt := models.Attempt{
		QuizID:    f.quiz.ID,
		UserID:    f.member.ID,
		StartTime: time.Now(),
		EndTime:   time.Now().Add(15 * time.Minute),
		SpentTime: "15:00",
	}
	if err := db.Create(&attempt).Error; err != nil {
		t.Fatalf("seed attempt: %v", err)
	}

	if err := users.Delete(f.member.ID, f.owner.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("deleting another user: expected ErrForbidden, got %v", err)
	}
	if err := users.Delete(f.member.ID, f.member.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	var memberships, pending, attempts int64
	db.Model(&models.CompanyMember{}).Where("user_id = ?", f.member.ID).Count(&memberships)
	db.Model(&models.CompanyInvite{}).Where("sender_id = ? OR receiver_id = ?", f.member.ID, f.member.ID).Count(&pending)
	db.Model(&models.Attempt{}).Where("user_id = ?", f.member.ID).Count(&attempts)
	if memberships != 0 || pending != 0 || attempts != 0 {
		t.Fatalf("rows survived user delete: memberships=%d invites=%d attempts=%d", memberships, pending, attempts)
	}

	if _, err := users.GetByID(f.member.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
}

func TestListUsersOrderedByID(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice@example.com", "alice")
	createTestUser(t, db, "bob@example.com", "bob")
	users := NewUserService(db)

	listed, err := users.List()
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 users, got %d", len(listed))
	}
	if listed[0].Username != "alice" || listed[1].Username != "bob" {
		t.Fatalf("unexpected order: %q, %q", listed[0].Username, listed[1].Username)
	}
}
