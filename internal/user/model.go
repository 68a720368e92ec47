// File: internal/user/model.go
package user

import (
	"time"

	"charity_marketplace_backend/internal/common"
	"charity_marketplace_backend/internal/shared"

	"github.com/google/uuid"
)

// User represents the user model in the database. Organizations are users whose
// UserType is shared.UserTypeOrganization.
type User struct {
	common.BaseModel
	Email                   string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash            string          `gorm:"type:varchar(255);not null"`
	Name                    string          `gorm:"type:varchar(100);not null"`
	UserType                shared.UserType `gorm:"type:varchar(20);not null;index"`
	OrganizationName        *string         `gorm:"type:varchar(200)"`
	OrganizationDescription *string         `gorm:"type:text"`
	WebsiteURL              *string         `gorm:"type:varchar(255)"`
	LastLoginAt             *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetEmail() string {
	return u.Email
}

func (u *User) GetUserType() shared.UserType {
	return u.UserType
}

// IsOrganization reports whether the account is an organization.
func (u *User) IsOrganization() bool {
	return u.UserType.IsOrganization()
}

// --- DTOs (Data Transfer Objects) for API requests/responses ---

// RegisterRequest defines the structure for creating a new account.
type RegisterRequest struct {
	Email                   string          `json:"email" binding:"required,email,max=255"`
	Password                string          `json:"password" binding:"required,min=8,max=72"` // bcrypt max is 72 bytes
	Name                    string          `json:"name" binding:"required,max=100"`
	UserType                shared.UserType `json:"user_type" binding:"required,oneof=organization common"`
	OrganizationName        string          `json:"organization_name,omitempty" binding:"required_if=UserType organization,max=200"`
	OrganizationDescription string          `json:"organization_description,omitempty" binding:"omitempty,max=2000"`
	WebsiteURL              string          `json:"website_url,omitempty" binding:"omitempty,url,max=255"`
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID                      uuid.UUID       `json:"id"`
	Email                   string          `json:"email"`
	Name                    string          `json:"name"`
	UserType                shared.UserType `json:"user_type"`
	OrganizationName        *string         `json:"organization_name,omitempty"`
	OrganizationDescription *string         `json:"organization_description,omitempty"`
	WebsiteURL              *string         `json:"website_url,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
	LastLoginAt             *time.Time      `json:"last_login_at,omitempty"`
}

// ToUserResponse converts a User model to a UserResponse DTO.
func ToUserResponse(user *User) UserResponse {
	return UserResponse{
		ID:                      user.ID,
		Email:                   user.Email,
		Name:                    user.Name,
		UserType:                user.UserType,
		OrganizationName:        user.OrganizationName,
		OrganizationDescription: user.OrganizationDescription,
		WebsiteURL:              user.WebsiteURL,
		CreatedAt:               user.CreatedAt,
		UpdatedAt:               user.UpdatedAt,
		LastLoginAt:             user.LastLoginAt,
	}
}

// OrganizationResponse is the public profile of an organization. It omits the email.
type OrganizationResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	WebsiteURL  *string   `json:"website_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToOrganizationResponse converts an organization account to its public profile.
func ToOrganizationResponse(user *User) OrganizationResponse {
	name := user.Name
	if user.OrganizationName != nil {
		name = *user.OrganizationName
	}
	return OrganizationResponse{
		ID:          user.ID,
		Name:        name,
		Description: user.OrganizationDescription,
		WebsiteURL:  user.WebsiteURL,
		CreatedAt:   user.CreatedAt,
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
