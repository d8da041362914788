package services

import (
	"time"

	"quiz-platform-backend/internal/models"

	"gorm.io/gorm"
)

// AccessLevel is the capability required for an operation on a company.
// Levels are ordered: an owner passes admin checks, an admin passes member
// checks.
type AccessLevel int

const (
	AccessMember AccessLevel = iota + 1
	AccessAdmin
	AccessOwner
)

var roleLevels = map[string]AccessLevel{
	models.RoleMember: AccessMember,
	models.RoleAdmin:  AccessAdmin,
	models.RoleOwner:  AccessOwner,
}

type CompanyService struct {
	db *gorm.DB
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

// RequireAccess resolves the user's standing in the company and compares it
// against the required level. It is the single authorization gate used by
// the quiz catalog and the attempt workflow.
func (s *CompanyService) RequireAccess(userID, companyID uint, level AccessLevel) error {
	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		return ErrCompanyNotFound
	}

	var member models.CompanyMember
	if err := s.db.Where("company_id = ? AND user_id = ?", companyID, userID).First(&member).Error; err != nil {
		return ErrForbidden
	}

	if roleLevels[member.Role] < level {
		return ErrForbidden
	}
	return nil
}

func (s *CompanyService) Create(ownerID uint, title, description string, isHidden bool) (*models.Company, error) {
	var existing models.Company
	if err := s.db.Where("title = ?", title).First(&existing).Error; err == nil {
		return nil, ErrCompanyTitleTaken
	}

	company := models.Company{
		Title:       title,
		Description: description,
		IsHidden:    isHidden,
	}

	tx := s.db.Begin()
	if err := tx.Create(&company).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	owner := models.CompanyMember{
		CompanyID: company.ID,
		UserID:    ownerID,
		Role:      models.RoleOwner,
		JoinedAt:  time.Now(),
	}
	if err := tx.Create(&owner).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// List returns companies visible to the user: every public company plus the
// hidden ones they belong to.
func (s *CompanyService) List(userID uint) ([]models.Company, error) {
	memberOf := s.db.Model(&models.CompanyMember{}).Select("company_id").Where("user_id = ?", userID)

	var companies []models.Company
	if err := s.db.Where("is_hidden = ? OR id IN (?)", false, memberOf).Order("id").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// GetByID hides hidden companies from non-members entirely: they read as not
// found rather than forbidden.
func (s *CompanyService) GetByID(companyID, userID uint) (*models.Company, error) {
	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		return nil, ErrCompanyNotFound
	}

	if company.IsHidden && !s.isMember(companyID, userID) {
		return nil, ErrCompanyNotFound
	}
	return &company, nil
}

func (s *CompanyService) Update(companyID, userID uint, title, description *string, isHidden *bool) (*models.Company, error) {
	if err := s.RequireAccess(userID, companyID, AccessOwner); err != nil {
		return nil, err
	}

	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		return nil, ErrCompanyNotFound
	}

	updates := map[string]interface{}{}
	if title != nil {
		var existing models.Company
		if err := s.db.Where("title = ? AND id <> ?", *title, companyID).First(&existing).Error; err == nil {
			return nil, ErrCompanyTitleTaken
		}
		updates["title"] = *title
	}
	if description != nil {
		updates["description"] = *description
	}
	if isHidden != nil {
		updates["is_hidden"] = *isHidden
	}

	if len(updates) > 0 {
		if err := s.db.Model(&company).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &company, nil
}

func (s *CompanyService) Delete(companyID, userID uint) error {
	if err := s.RequireAccess(userID, companyID, AccessOwner); err != nil {
		return err
	}

	tx := s.db.Begin()
	quizIDs := tx.Model(&models.Quiz{}).Select("id").Where("company_id = ?", companyID)
	questionIDs := tx.Model(&models.Question{}).Select("id").Where("quiz_id IN (?)", quizIDs)

	if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Answer{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("quiz_id IN (?)", quizIDs).Delete(&models.Question{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("quiz_id IN (?)", quizIDs).Delete(&models.Attempt{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("company_id = ?", companyID).Delete(&models.Quiz{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("company_id = ?", companyID).Delete(&models.CompanyInvite{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("company_id = ?", companyID).Delete(&models.CompanyMember{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Company{}, companyID).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (s *CompanyService) Members(companyID, userID uint) ([]models.CompanyMember, error) {
	if err := s.RequireAccess(userID, companyID, AccessMember); err != nil {
		return nil, err
	}

	var members []models.CompanyMember
	if err := s.db.Where("company_id = ?", companyID).Order("joined_at").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (s *CompanyService) Admins(companyID, userID uint) ([]models.CompanyMember, error) {
	if err := s.RequireAccess(userID, companyID, AccessMember); err != nil {
		return nil, err
	}

	var admins []models.CompanyMember
	if err := s.db.Where("company_id = ? AND role = ?", companyID, models.RoleAdmin).Order("joined_at").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// Kick removes a member; only the owner may do it and the owner's own row is
// untouchable.
func (s *CompanyService) Kick(companyID, ownerID, targetUserID uint) error {
	if err := s.RequireAccess(ownerID, companyID, AccessOwner); err != nil {
		return err
	}

	member, err := s.getMember(companyID, targetUserID)
	if err != nil {
		return err
	}
	if member.Role == models.RoleOwner {
		return ErrCannotModifyOwner
	}
	return s.db.Delete(member).Error
}

func (s *CompanyService) Leave(companyID, userID uint) error {
	member, err := s.getMember(companyID, userID)
	if err != nil {
		return err
	}
	if member.Role == models.RoleOwner {
		return ErrOwnerCannotLeave
	}
	return s.db.Delete(member).Error
}

// SetAdmin grants or revokes the admin role on an existing member.
func (s *CompanyService) SetAdmin(companyID, ownerID, targetUserID uint, admin bool) error {
	if err := s.RequireAccess(ownerID, companyID, AccessOwner); err != nil {
		return err
	}

	member, err := s.getMember(companyID, targetUserID)
	if err != nil {
		return err
	}
	if member.Role == models.RoleOwner {
		return ErrCannotModifyOwner
	}

	role := models.RoleMember
	if admin {
		role = models.RoleAdmin
	}
	return s.db.Model(member).Update("role", role).Error
}

// AddMember is used by the invite flows once an invitation or request is
// accepted.
func (s *CompanyService) AddMember(tx *gorm.DB, companyID, userID uint) error {
	member := models.CompanyMember{
		CompanyID: companyID,
		UserID:    userID,
		Role:      models.RoleMember,
		JoinedAt:  time.Now(),
	}
	return tx.Create(&member).Error
}

func (s *CompanyService) isMember(companyID, userID uint) bool {
	var count int64
	s.db.Model(&models.CompanyMember{}).Where("company_id = ? AND user_id = ?", companyID, userID).Count(&count)
	return count > 0
}

func (s *CompanyService) getMember(companyID, userID uint) (*models.CompanyMember, error) {
	var member models.CompanyMember
	if err := s.db.Where("company_id = ? AND user_id = ?", companyID, userID).First(&member).Error; err != nil {
		return nil, ErrMemberNotFound
	}
	return &member, nil
}
