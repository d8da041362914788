package services

import (
	"quiz-platform-backend/internal/models"

	"gorm.io/gorm"
)

// InviteService handles both membership flows over the company_invites
// table: owner-sent invitations (receiver set) and user-sent membership
// requests (receiver null).
type InviteService struct {
	db        *gorm.DB
	companies *CompanyService
	users     *UserService
}

func NewInviteService(db *gorm.DB, companies *CompanyService, users *UserService) *InviteService {
	return &InviteService{db: db, companies: companies, users: users}
}

func (s *InviteService) Invite(companyID, senderID, receiverID uint) (*models.CompanyInvite, error) {
	if err := s.companies.RequireAccess(senderID, companyID, AccessOwner); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(receiverID); err != nil {
		return nil, err
	}
	if s.companies.isMember(companyID, receiverID) {
		return nil, ErrAlreadyMember
	}
	if s.hasPending(companyID, receiverID) {
		return nil, ErrInviteExists
	}

	invite := models.CompanyInvite{
		CompanyID:  companyID,
		SenderID:   senderID,
		ReceiverID: &receiverID,
	}
	if err := s.db.Create(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

func (s *InviteService) Request(companyID, senderID uint) (*models.CompanyInvite, error) {
	// Hidden companies read as not found for outsiders, so they cannot be
	// requested either.
	if _, err := s.companies.GetByID(companyID, senderID); err != nil {
		return nil, err
	}

	if s.companies.isMember(companyID, senderID) {
		return nil, ErrAlreadyMember
	}
	if s.hasPending(companyID, senderID) {
		return nil, ErrInviteExists
	}

	request := models.CompanyInvite{
		CompanyID: companyID,
		SenderID:  senderID,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *InviteService) AcceptInvitation(inviteID, userID uint) error {
	invite, err := s.getInvitation(inviteID)
	if err != nil {
		return err
	}
	if *invite.ReceiverID != userID {
		return ErrForbidden
	}
	return s.accept(invite, userID)
}

func (s *InviteService) DeclineInvitation(inviteID, userID uint) error {
	invite, err := s.getInvitation(inviteID)
	if err != nil {
		return err
	}
	if *invite.ReceiverID != userID {
		return ErrForbidden
	}
	return s.db.Delete(invite).Error
}

func (s *InviteService) CancelInvitation(inviteID, userID uint) error {
	invite, err := s.getInvitation(inviteID)
	if err != nil {
		return err
	}
	if invite.SenderID != userID {
		return ErrForbidden
	}
	return s.db.Delete(invite).Error
}

func (s *InviteService) AcceptRequest(requestID, ownerID uint) error {
	request, err := s.getRequest(requestID)
	if err != nil {
		return err
	}
	if err := s.companies.RequireAccess(ownerID, request.CompanyID, AccessOwner); err != nil {
		return err
	}
	return s.accept(request, request.SenderID)
}

func (s *InviteService) DeclineRequest(requestID, ownerID uint) error {
	request, err := s.getRequest(requestID)
	if err != nil {
		return err
	}
	if err := s.companies.RequireAccess(ownerID, request.CompanyID, AccessOwner); err != nil {
		return err
	}
	return s.db.Delete(request).Error
}

func (s *InviteService) CancelRequest(requestID, userID uint) error {
	request, err := s.getRequest(requestID)
	if err != nil {
		return err
	}
	if request.SenderID != userID {
		return ErrForbidden
	}
	return s.db.Delete(request).Error
}

func (s *InviteService) CompanyInvitations(companyID, userID uint) ([]models.CompanyInvite, error) {
	if err := s.companies.RequireAccess(userID, companyID, AccessOwner); err != nil {
		return nil, err
	}

	var invites []models.CompanyInvite
	if err := s.db.Where("company_id = ? AND receiver_id IS NOT NULL", companyID).Order("id").Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

func (s *InviteService) CompanyRequests(companyID, userID uint) ([]models.CompanyInvite, error) {
	if err := s.companies.RequireAccess(userID, companyID, AccessOwner); err != nil {
		return nil, err
	}

	var requests []models.CompanyInvite
	if err := s.db.Where("company_id = ? AND receiver_id IS NULL", companyID).Order("id").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *InviteService) UserInvitations(userID uint) ([]models.CompanyInvite, error) {
	var invites []models.CompanyInvite
	if err := s.db.Where("receiver_id = ?", userID).Order("id").Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

func (s *InviteService) UserRequests(userID uint) ([]models.CompanyInvite, error) {
	var requests []models.CompanyInvite
	if err := s.db.Where("sender_id = ? AND receiver_id IS NULL", userID).Order("id").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *InviteService) accept(invite *models.CompanyInvite, newMemberID uint) error {
	if s.companies.isMember(invite.CompanyID, newMemberID) {
		// Row is stale; drop it and report the state.
		s.db.Delete(invite)
		return ErrAlreadyMember
	}

	tx := s.db.Begin()
	if err := s.companies.AddMember(tx, invite.CompanyID, newMemberID); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(invite).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (s *InviteService) getInvitation(inviteID uint) (*models.CompanyInvite, error) {
	var invite models.CompanyInvite
	if err := s.db.First(&invite, inviteID).Error; err != nil || invite.ReceiverID == nil {
		return nil, ErrInviteNotFound
	}
	return &invite, nil
}

func (s *InviteService) getRequest(requestID uint) (*models.CompanyInvite, error) {
	var request models.CompanyInvite
	if err := s.db.First(&request, requestID).Error; err != nil || request.ReceiverID != nil {
		return nil, ErrRequestNotFound
	}
	return &request, nil
}

// hasPending reports whether the user already has any open invite or request
// row with the company, in either direction.
func (s *InviteService) hasPending(companyID, userID uint) bool {
	var count int64
	s.db.Model(&models.CompanyInvite{}).
		Where("company_id = ? AND (receiver_id = ? OR (sender_id = ? AND receiver_id IS NULL))", companyID, userID, userID).
		Count(&count)
	return count > 0
}
