package models

import "time"

// CompanyInvite backs both membership flows: an invitation has the inviting
// owner as sender and the invited user as receiver; a membership request has
// the applying user as sender and a null receiver.
type CompanyInvite struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CompanyID  uint      `gorm:"not null;uniqueIndex:idx_company_invite" json:"company_id"`
	Company    Company   `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	SenderID   uint      `gorm:"not null;uniqueIndex:idx_company_invite" json:"sender_id"`
	ReceiverID *uint     `gorm:"uniqueIndex:idx_company_invite" json:"receiver_id"`
	CreatedAt  time.Time `json:"created_at"`
}
