package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_auth_service.go -package=mocks -mock_names=AuthService=MockAuthService filestation-ai/internal/service AuthService

import (
	"context"
	"errors"
	"strings"

	"filestation-ai/internal/auth"
	"filestation-ai/internal/contextutil"
	"filestation-ai/internal/storage"
)

const connectTokenAttempts = 3

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(p auth.Principal) (string, error)
}

// RegisterRequest carries the fields of a new account.
type RegisterRequest struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Department string
	Teams      []string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	User  User
}

// AuthService manages accounts, logins and Telegram linking.
type AuthService interface {
	// Register creates an account with a fresh Telegram connect token.
	// Email and password are required.
	Register(ctx context.Context, req RegisterRequest) (User, error)
	// Login verifies credentials and issues an access token.
	Login(ctx context.Context, email, password string) (LoginResult, error)
	// Me returns the account of userID.
	Me(ctx context.Context, userID string) (User, error)
	// GenerateConnectToken replaces the user's Telegram connect token and returns it.
	GenerateConnectToken(ctx context.Context, userID string) (string, error)
	// SaveTelegramChat links a Telegram chat id to the user.
	SaveTelegramChat(ctx context.Context, userID, chatID string) error
	// ConnectTelegram resolves a connect token, links chatID and returns the user's principal.
	ConnectTelegram(ctx context.Context, token, chatID string) (User, auth.Principal, error)
	// PrincipalForChat returns the principal of the user linked to chatID.
	PrincipalForChat(ctx context.Context, chatID string) (auth.Principal, error)
}

type authService struct {
	users  storage.UserStore
	tokens TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(users storage.UserStore, tokens TokenIssuer) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (User, error) {
	logger := contextutil.LoggerFromContext(ctx)

	email := normalizeEmail(req.Email)
	if email == "" {
		return User{}, &ValidationError{Field: "email", Message: "is required"}
	}
	if req.Password == "" {
		return User{}, &ValidationError{Field: "password", Message: "is required"}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return User{}, WrapError(err, "failed to register user")
	}
	connectToken, err := auth.NewConnectToken()
	if err != nil {
		return User{}, WrapError(err, "failed to register user")
	}

	teams := make([]string, 0, len(req.Teams))
	for _, team := range req.Teams {
		if team = strings.TrimSpace(team); team != "" {
			teams = append(teams, team)
		}
	}

	rec := &storage.UserRecord{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         auth.NormalizeRole(req.Role),
		Department:   strings.TrimSpace(req.Department),
		Teams:        teams,
		ConnectToken: connectToken,
	}
	if err := s.users.Create(ctx, rec); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			logger.WarnContext(ctx, "registration for existing email")
			return User{}, WrapError(ErrConflict, "user already exists")
		}
		logger.ErrorContext(ctx, "failed to create user", "error", err)
		return User{}, WrapError(err, "failed to register user")
	}

	logger.InfoContext(ctx, "user registered", "user_id", rec.ID, "role", rec.Role)
	return userFromRecord(rec), nil
}

func (s *authService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, &ValidationError{Field: "email", Message: "email and password are required"}
	}

	rec, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		logger.WarnContext(ctx, "login for unknown email")
		return LoginResult{}, WrapError(ErrUnauthorized, "invalid email or password")
	}
	if err != nil {
		return LoginResult{}, WrapError(err, "failed to load user")
	}

	if !auth.CheckPassword(rec.PasswordHash, password) {
		logger.WarnContext(ctx, "login with wrong password", "user_id", rec.ID)
		return LoginResult{}, WrapError(ErrUnauthorized, "invalid email or password")
	}

	token, err := s.tokens.Issue(auth.PrincipalFromUser(rec))
	if err != nil {
		return LoginResult{}, WrapError(err, "failed to issue token")
	}

	logger.InfoContext(ctx, "user logged in", "user_id", rec.ID)
	return LoginResult{Token: token, User: userFromRecord(rec)}, nil
}

func (s *authService) Me(ctx context.Context, userID string) (User, error) {
	rec, err := s.loadUser(ctx, userID)
	if err != nil {
		return User{}, err
	}
	return userFromRecord(rec), nil
}

func (s *authService) GenerateConnectToken(ctx context.Context, userID string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	for attempt := 0; attempt < connectTokenAttempts; attempt++ {
		token, err := auth.NewConnectToken()
		if err != nil {
			return "", WrapError(err, "failed to generate connect token")
		}

		err = s.users.SetConnectToken(ctx, userID, token)
		switch {
		case err == nil:
			logger.InfoContext(ctx, "telegram connect token generated", "user_id", userID)
			return token, nil
		case errors.Is(err, storage.ErrNotFound):
			return "", WrapError(ErrNotFound, "user not found")
		case errors.Is(err, storage.ErrDuplicate):
			logger.WarnContext(ctx, "connect token collision, retrying", "attempt", attempt+1)
			continue
		default:
			return "", WrapError(err, "failed to save connect token")
		}
	}

	return "", WrapError(ErrConflict, "could not allocate a unique connect token")
}

func (s *authService) SaveTelegramChat(ctx context.Context, userID, chatID string) error {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return &ValidationError{Field: "chatId", Message: "is required"}
	}

	err := s.users.SetTelegramChatID(ctx, userID, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		return WrapError(ErrNotFound, "user not found")
	}
	if err != nil {
		return WrapError(err, "failed to save telegram chat")
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "telegram chat saved", "user_id", userID)
	return nil
}

func (s *authService) ConnectTelegram(ctx context.Context, token, chatID string) (User, auth.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return User{}, auth.Principal{}, &ValidationError{Field: "token", Message: "is required"}
	}

	rec, err := s.users.GetByConnectToken(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return User{}, auth.Principal{}, WrapError(ErrNotFound, "invalid connect token")
	}
	if err != nil {
		return User{}, auth.Principal{}, WrapError(err, "failed to resolve connect token")
	}

	if err := s.users.SetTelegramChatID(ctx, rec.ID, chatID); err != nil {
		return User{}, auth.Principal{}, WrapError(err, "failed to save telegram chat")
	}
	rec.TelegramChatID = chatID

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "telegram account linked", "user_id", rec.ID)
	return userFromRecord(rec), auth.PrincipalFromUser(rec), nil
}

func (s *authService) PrincipalForChat(ctx context.Context, chatID string) (auth.Principal, error) {
	rec, err := s.users.GetByTelegramChatID(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		return auth.Principal{}, WrapError(ErrNotFound, "no user linked to chat")
	}
	if err != nil {
		return auth.Principal{}, WrapError(err, "failed to load user for chat")
	}
	return auth.PrincipalFromUser(rec), nil
}

func (s *authService) loadUser(ctx context.Context, userID string) (*storage.UserRecord, error) {
	rec, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, WrapError(ErrNotFound, "user not found")
	}
	if err != nil {
		return nil, WrapError(err, "failed to load user")
	}
	return rec, nil
}
