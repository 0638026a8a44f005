package repository

import (
	"database/sql"
	"fmt"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/model"
)

// UserRepository provides data access methods for the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user row. Returns apperrors.ErrUsernameTaken when
// the username unique constraint fires.
func (r *UserRepository) CreateUser(user model.User) error {
	query := `
          INSERT INTO users (id, username, password_hash, rss_token, rss_token_hash, serverchan_send_key, created_at)
          VALUES (?, ?, ?, ?, ?, ?, ?)
      `

	_, err := r.db.Exec(query,
		user.ID,
		user.Username,
		user.PasswordHash,
		nullable(user.RSSToken),
		nullable(user.RSSTokenHash),
		nullable(user.ServerChanSendKey),
		user.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByUsername retrieves a user by username.
func (r *UserRepository) GetUserByUsername(username string) (model.User, error) {
	return r.getUser("username = ?", username)
}

// GetUserByID retrieves a user by ID.
func (r *UserRepository) GetUserByID(id string) (model.User, error) {
	return r.getUser("id = ?", id)
}

// GetUserByRSSToken retrieves the user owning an RSS token. Both the plain
// token column and the sha256 hash column are consulted, so tokens issued
// under either storage mode resolve.
func (r *UserRepository) GetUserByRSSToken(token, tokenHash string) (model.User, error) {
	return r.getUser("rss_token = ? OR rss_token_hash = ?", token, tokenHash)
}

func (r *UserRepository) getUser(where string, args ...any) (model.User, error) {
	query := `
          SELECT id, username, password_hash, rss_token, rss_token_hash, serverchan_send_key, created_at
          FROM users
          WHERE ` + where

	var u model.User
	var rssToken, rssTokenHash, sendKey sql.NullString
	var createdAt string

	err := r.db.QueryRow(query, args...).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&rssToken,
		&rssTokenHash,
		&sendKey,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query users table: %w", err)
	}

	u.RSSToken = rssToken.String
	u.RSSTokenHash = rssTokenHash.String
	u.ServerChanSendKey = sendKey.String

	if u.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.User{}, fmt.Errorf("failed to parse user created_at: %w", err)
	}

	return u, nil
}

// UpdateRSSToken replaces a user's RSS token columns. Exactly one of token
// or tokenHash is expected to be non-empty depending on the storage mode.
func (r *UserRepository) UpdateRSSToken(userID, token, tokenHash string) error {
	query := `UPDATE users SET rss_token = ?, rss_token_hash = ? WHERE id = ?`

	result, err := r.db.Exec(query, nullable(token), nullable(tokenHash), userID)
	if err != nil {
		return fmt.Errorf("failed to update rss token: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
