package services

import (
	"quiz-platform-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) GetByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Update changes the profile of the authenticated user; users cannot touch
// other accounts. Email is immutable.
func (s *UserService) Update(userID, currentUserID uint, username, password *string) (*models.User, error) {
	if userID != currentUserID {
		return nil, ErrForbidden
	}

	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if username != nil {
		updates["username"] = *username
	}
	if password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = string(hash)
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *UserService) Delete(userID, currentUserID uint) error {
	if userID != currentUserID {
		return ErrForbidden
	}

	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}

	tx := s.db.Begin()
	if err := tx.Where("user_id = ?", userID).Delete(&models.CompanyMember{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&models.CompanyInvite{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.Attempt{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(user).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
