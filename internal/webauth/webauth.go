// Package webauth verifies dashboard logins and their scope bitmasks.
// Scope enforcement happens in the HTTP layer before any core operation
// is called; the core's own checks are community/admin scoped.
package webauth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/crosswatch/crosswatch/internal/apperr"
	"github.com/crosswatch/crosswatch/internal/models"
)

// Store provides web user persistence and credential checks
type Store struct {
	db *gorm.DB
}

// NewStore creates a new web user store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// HasScope reports whether the bitmask grants the wanted scope.
// Superusers hold every scope.
func HasScope(scopes, wanted uint64) bool {
	if scopes&models.ScopeSuperuser != 0 {
		return true
	}
	return scopes&wanted == wanted
}

// Authenticate verifies a username/password pair and returns the user.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*models.WebUser, error) {
	var user models.WebUser
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("web_user", username, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("web_user", username, "invalid credentials")
	}
	return &user, nil
}

// Create stores a new web user with a bcrypt-hashed password.
func (s *Store) Create(ctx context.Context, username, password string, scopes uint64) (*models.WebUser, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.WebUser{
		Username:       username,
		HashedPassword: string(hashed),
		Scopes:         scopes,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
