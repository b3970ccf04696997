package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"research-repository-api/config"
	"research-repository-api/models"
	"research-repository-api/utils"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	db *gorm.DB
}

var _ UserDirectory = (*UserService)(nil)

func NewUserService(db *gorm.DB) *UserService {
	if db == nil {
		db = config.DB
	}
	return &UserService{db: db}
}

func (s *UserService) FindByID(ctx context.Context, userID string) (*models.User, error) {
	return s.findOne(ctx, "user_id = ? AND delete_at IS NULL", userID)
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "LOWER(email) = ? AND delete_at IS NULL", utils.NormalizeEmail(email))
}

// TouchLastLogin records a successful login.
func (s *UserService) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("last_login", at).Error
}

func (s *UserService) findOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Where(query, args...).Limit(1).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return &users[0], nil
}
