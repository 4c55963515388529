package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"catalog/internal/models"
)

// ErrUserExists is returned by CreateUser for a taken username or email.
var ErrUserExists = errors.New("user already exists")

// CreateUser stores a new account with a bcrypt password hash.
func CreateUser(ctx context.Context, db *gorm.DB, email, username, password string, role models.Role) (*models.User, error) {
	db = db.WithContext(ctx)

	var cnt int64
	if err := db.Model(&models.User{}).Where("username = ? OR email = ?", username, email).Count(&cnt).Error; err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if cnt > 0 {
		return nil, ErrUserExists
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Email: email, Username: username, PasswordHash: hash, Role: role}
	if err := db.Create(u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}
