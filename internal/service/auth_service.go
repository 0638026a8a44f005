package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/auth"
	"github.com/cuixiaoyuan/fundflow/internal/model"
	"github.com/cuixiaoyuan/fundflow/internal/repository"
	"github.com/cuixiaoyuan/fundflow/internal/validation"
)

// AuthService handles account registration, login sessions and RSS token
// lifecycle.
type AuthService struct {
	userRepo      *repository.UserRepository
	tokens        *auth.TokenManager
	tokenHashOnly bool
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo *repository.UserRepository, tokens *auth.TokenManager, tokenHashOnly bool) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, tokenHashOnly: tokenHashOnly}
}

// Register creates a new account. The returned rssToken is the plain feed
// token; in hash-only mode this is the only time it is visible.
func (s *AuthService) Register(username, password string) (user model.User, rssToken string, err error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return model.User{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	rssToken, err = auth.NewRSSToken()
	if err != nil {
		return model.User{}, "", err
	}

	user = model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if s.tokenHashOnly {
		user.RSSTokenHash = auth.HashRSSToken(rssToken)
	} else {
		user.RSSToken = rssToken
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return model.User{}, "", err
	}

	return user, rssToken, nil
}

// Login checks credentials and issues a session token.
func (s *AuthService) Login(username, password string) (model.User, string, error) {
	user, err := s.userRepo.GetUserByUsername(strings.TrimSpace(username))
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return model.User{}, "", apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return model.User{}, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.User{}, "", err
	}

	return user, token, nil
}

// VerifySession resolves a session token to its user.
func (s *AuthService) VerifySession(token string) (model.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return model.User{}, err
	}
	return s.userRepo.GetUserByID(userID)
}

// SessionTTL returns the configured session lifetime.
func (s *AuthService) SessionTTL() time.Duration {
	return s.tokens.TTL()
}

// ResetRSSToken replaces a user's feed token and returns the new plain
// token. The old token stops working immediately.
func (s *AuthService) ResetRSSToken(userID string) (string, error) {
	token, err := auth.NewRSSToken()
	if err != nil {
		return "", err
	}

	if s.tokenHashOnly {
		err = s.userRepo.UpdateRSSToken(userID, "", auth.HashRSSToken(token))
	} else {
		err = s.userRepo.UpdateRSSToken(userID, token, "")
	}
	if err != nil {
		return "", err
	}

	return token, nil
}

func validateCredentials(username, password string) error {
	fields := make(map[string]string)
	if len(username) < 3 || len(username) > 64 {
		fields["username"] = "username must be 3-64 characters"
	}
	if len(password) < 6 {
		fields["password"] = "password must be at least 6 characters"
	}
	if len(fields) > 0 {
		return &validation.Error{Fields: fields}
	}
	return nil
}
