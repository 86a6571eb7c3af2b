package handlers

import (
	"errors"
	"net/http"
	"time"

	"filestation-ai/internal/contextutil"
	"filestation-ai/internal/service"
)

// AuthHandler serves account, login and Telegram linking endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest is the payload of POST /register.
type RegisterRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Role       string   `json:"role"`
	Department string   `json:"department"`
	Teams      []string `json:"teams"`
}

// LoginRequest is the payload of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SaveTelegramChatRequest is the payload of POST /save-telegram-chat.
type SaveTelegramChatRequest struct {
	ChatID flexibleID `json:"chatId"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Department     string    `json:"department"`
	Teams          []string  `json:"teams"`
	TelegramChatID string    `json:"telegramChatId,omitempty"`
	ConnectToken   string    `json:"connectToken,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserEnvelope wraps a user in the /register and /me responses.
type UserEnvelope struct {
	Success bool         `json:"success,omitempty"`
	User    UserResponse `json:"user"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// TokenResponse carries a freshly generated Telegram connect token.
type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

func toUserResponse(u service.User) UserResponse {
	teams := u.Teams
	if teams == nil {
		teams = []string{}
	}
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Department:     u.Department,
		Teams:          teams,
		TelegramChatID: u.TelegramChatID,
		ConnectToken:   u.ConnectToken,
		CreatedAt:      u.CreatedAt,
	}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(ctx, service.RegisterRequest{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Department: req.Department,
		Teams:      req.Teams,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Registration failed")
		return
	}

	writeJSON(ctx, w, http.StatusOK, UserEnvelope{Success: true, User: toUserResponse(user)})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.authService.Login(ctx, req.Email, req.Password)
	if errors.Is(err, service.ErrUnauthorized) {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "login rejected")
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		handleServiceError(ctx, w, err, "Login failed")
		return
	}

	writeJSON(ctx, w, http.StatusOK, LoginResponse{
		Success: true,
		Token:   result.Token,
		User:    toUserResponse(result.User),
	})
}

// Me handles GET /me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	user, err := h.authService.Me(ctx, p.UserID)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load user")
		return
	}

	writeJSON(ctx, w, http.StatusOK, UserEnvelope{User: toUserResponse(user)})
}

// SaveTelegramChat handles POST /save-telegram-chat.
func (h *AuthHandler) SaveTelegramChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req SaveTelegramChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.SaveTelegramChat(ctx, p.UserID, string(req.ChatID)); err != nil {
		handleServiceError(ctx, w, err, "Failed to save")
		return
	}

	writeJSON(ctx, w, http.StatusOK, SuccessResponse{Success: true})
}

// GenerateTelegramToken handles POST /generate-telegram-token.
func (h *AuthHandler) GenerateTelegramToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	token, err := h.authService.GenerateConnectToken(ctx, p.UserID)
	if err != nil {
		handleServiceError(ctx, w, err, "Could not generate token")
		return
	}

	writeJSON(ctx, w, http.StatusOK, TokenResponse{Success: true, Token: token})
}
