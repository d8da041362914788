package models

import "time"

type Company struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"size:255;uniqueIndex;not null" json:"title"`
	Description string          `gorm:"type:text;not null" json:"description"`
	IsHidden    bool            `gorm:"not null;default:false" json:"is_hidden"`
	Members     []CompanyMember `gorm:"foreignKey:CompanyID" json:"members,omitempty"`
	Quizzes     []Quiz          `gorm:"foreignKey:CompanyID" json:"quizzes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
	RoleOwner  = "owner"
)

type CompanyMember struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CompanyID    uint      `gorm:"not null;uniqueIndex:idx_company_member" json:"company_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_company_member" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Role         string    `gorm:"size:10;not null;default:'member'" json:"role"`
	AverageScore *float64  `gorm:"type:decimal(5,2)" json:"average_score"`
	JoinedAt     time.Time `json:"joined_at"`
}
