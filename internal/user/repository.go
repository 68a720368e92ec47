// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charity_marketplace_backend/internal/common"
	"charity_marketplace_backend/internal/shared"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for user data operations.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Update(ctx context.Context, user *User) error
	ListByType(ctx context.Context, userType shared.UserType, page, pageSize int) ([]User, *common.Pagination, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a new user record into the database.
func (r *gormRepository) Create(ctx context.Context, user *User) error {
	user.Email = normalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict.WithDetails("User with this email already exists.")
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by their email address.
func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this email.")
		}
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return &userModel, nil
}

// FindByID retrieves a user by their ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this ID.")
		}
		return nil, fmt.Errorf("finding user %s: %w", id, err)
	}
	return &userModel, nil
}

// Update modifies an existing user record in the database.
func (r *gormRepository) Update(ctx context.Context, user *User) error {
	user.Email = normalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict.WithDetails("Update failed: email already taken.")
		}
		return fmt.Errorf("updating user %s: %w", user.ID, err)
	}
	return nil
}

// ListByType returns users of the given type, newest first.
func (r *gormRepository) ListByType(ctx context.Context, userType shared.UserType, page, pageSize int) ([]User, *common.Pagination, error) {
	var users []User
	var total int64

	countQuery := r.db.WithContext(ctx).Model(&User{}).Where("user_type = ?", userType)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting %s users: %w", userType, err)
	}

	err := r.db.WithContext(ctx).Where("user_type = ?", userType).Order("created_at DESC").
		Limit(pageSize).
		Offset(common.Offset(page, pageSize)).
		Find(&users).Error
	if err != nil {
		return nil, nil, fmt.Errorf("listing %s users: %w", userType, err)
	}
	return users, common.NewPagination(total, page, pageSize), nil
}
