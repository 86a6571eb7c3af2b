package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_user_store.go -package=mocks filestation-ai/internal/storage UserStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("record already exists")
)

// UserStore defines the interface for user storage operations.
type UserStore interface {
	// Create inserts a new user. It assigns ID and CreatedAt when empty.
	// Returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, user *UserRecord) error
	// GetByID returns ErrNotFound if no user has the id.
	GetByID(ctx context.Context, id string) (*UserRecord, error)
	// GetByEmail returns ErrNotFound if no user has the email.
	GetByEmail(ctx context.Context, email string) (*UserRecord, error)
	// GetByConnectToken returns ErrNotFound if the token is unknown.
	GetByConnectToken(ctx context.Context, token string) (*UserRecord, error)
	// GetByTelegramChatID returns the user most recently linked to the chat.
	GetByTelegramChatID(ctx context.Context, chatID string) (*UserRecord, error)
	// SetTelegramChatID links a Telegram chat to the user.
	SetTelegramChatID(ctx context.Context, id, chatID string) error
	// SetConnectToken replaces the user's Telegram connect token.
	SetConnectToken(ctx context.Context, id, token string) error
}

// UserRepo provides methods for user operations.
// It implements the UserStore interface.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = "id, name, email, password_hash, role, department, teams, telegram_chat_id, connect_token, created_at"

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, user *UserRecord) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	teams, err := encodeList(user.Teams)
	if err != nil {
		return fmt.Errorf("failed to encode teams: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.Department, teams,
		nullable(user.TelegramChatID), nullable(user.ConnectToken), user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID gets a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*UserRecord, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByEmail gets a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*UserRecord, error) {
	return r.getOne(ctx, "email = ?", email)
}

// GetByConnectToken gets the user that owns a Telegram connect token.
func (r *UserRepo) GetByConnectToken(ctx context.Context, token string) (*UserRecord, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, "connect_token = ?", token)
}

// GetByTelegramChatID gets the user linked to a Telegram chat.
func (r *UserRepo) GetByTelegramChatID(ctx context.Context, chatID string) (*UserRecord, error) {
	if chatID == "" {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, "telegram_chat_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1", chatID)
}

// SetTelegramChatID links a Telegram chat to the user.
func (r *UserRepo) SetTelegramChatID(ctx context.Context, id, chatID string) error {
	return r.update(ctx, "telegram_chat_id = ?", nullable(chatID), id)
}

// SetConnectToken replaces the user's Telegram connect token.
func (r *UserRepo) SetConnectToken(ctx context.Context, id, token string) error {
	return r.update(ctx, "connect_token = ?", nullable(token), id)
}

func (r *UserRepo) getOne(ctx context.Context, where string, args ...any) (*UserRecord, error) {
	var (
		user         UserRecord
		teams        string
		chatID       sql.NullString
		connectToken sql.NullString
	)

	err := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.Department,
		&teams, &chatID, &connectToken, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if user.Teams, err = decodeList(teams); err != nil {
		return nil, fmt.Errorf("failed to decode teams: %w", err)
	}
	user.TelegramChatID = chatID.String
	user.ConnectToken = connectToken.String

	return &user, nil
}

func (r *UserRepo) update(ctx context.Context, set string, value any, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET "+set+" WHERE id = ?", value, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

// nullable maps empty strings to NULL so UNIQUE columns admit many unset rows.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	values := []string{}
	if raw == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	return values, nil
}
