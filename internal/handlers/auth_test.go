package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"filestation-ai/internal/auth"
	"filestation-ai/internal/service"
	"filestation-ai/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func TestAuthHandler(t *testing.T) {
	user := service.User{
		ID:           "user-1",
		Name:         "Ana",
		Email:        "ana@example.com",
		Role:         auth.RoleMarketer,
		Department:   "Marketing",
		ConnectToken: "TLG-0011223344556677",
	}

	tests := []struct {
		name       string
		call       func(h *AuthHandler) http.HandlerFunc
		method     string
		body       any
		principal  *auth.Principal
		mockSetup  func(m *mocks.MockAuthService)
		wantStatus int
		wantBody   []string
	}{
		{
			name:   "register",
			call:   func(h *AuthHandler) http.HandlerFunc { return h.Register },
			method: http.MethodPost,
			body:   RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "pw", Teams: []string{"Brand"}},
			mockSetup: func(m *mocks.MockAuthService) {
				m.EXPECT().
					Register(gomock.Any(), service.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "pw", Teams: []string{"Brand"}}).
					Return(user, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"success":true`, `"id":"user-1"`, `"teams":[]`, `"connectToken":"TLG-0011223344556677"`},
		},
		{
			name:   "register duplicate",
			call:   func(h *AuthHandler) http.HandlerFunc { return h.Register },
			method: http.MethodPost,
			body:   RegisterRequest{Email: "ana@example.com", Password: "pw"},
			mockSetup: func(m *mocks.MockAuthService) {
				m.EXPECT().Register(gomock.Any(), gomock.Any()).Return(service.User{}, fmt.Errorf("exists: %w", service.ErrConflict))
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "login",
			call:   func(h *AuthHandler) http.HandlerFunc { return h.Login },
			method: http.MethodPost,
			body:   LoginRequest{Email: "ana@example.com", Password: "pw"},
			mockSetup: func(m *mocks.MockAuthService) {
				m.EXPECT().Login(gomock.Any(), "ana@example.com", "pw").Return(service.LoginResult{Token: "jwt", User: user}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"success":true`, `"token":"jwt"`, `"email":"ana@example.com"`},
		},
		{
			name:   "login rejected",
			call:   func(h *AuthHandler) http.HandlerFunc { return h.Login },
			method: http.MethodPost,
			body:   LoginRequest{Email: "ana@example.com", Password: "bad"},
			mockSetup: func(m *mocks.MockAuthService) {
				m.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(service.LoginResult{}, fmt.Errorf("invalid email or password: %w", service.ErrUnauthorized))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   []string{"Invalid email or password"},
		},
		{
			name:       "login bad body",
			call:       func(h *AuthHandler) http.HandlerFunc { return h.Login },
			method:     http.MethodPost,
			body:       "{",
			mockSetup:  func(*mocks.MockAuthService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:      "me",
			call:      func(h *AuthHandler) http.HandlerFunc { return h.Me },
			method:    http.MethodGet,
			principal: &testPrincipal,
			mockSetup: func(m *mocks.MockAuthService) {
				m.EXPECT().Me(gomock.Any(), "user-1").Return(user, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"user":{`, `"name":"Ana"`},
		},
		{
			name:       "me without principal",
			call:       func(h *AuthHandler) http.HandlerFunc { return h.Me },
			method:     http.MethodGet,
			mockSetup:  func(*mocks.MockAuthService) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:      "me deleted user",
			call:      func(h *AuthHandler) http.HandlerFunc { return h.Me },
			method:    http.MethodGet,
			principal: &testPrincipal,
			mockSetup: func(m *mocks.MockAuthService) {
				m.EXPECT().Me(gomock.Any(), "user-1").Return(service.User{}, fmt.Errorf("user not found: %w", service.ErrNotFound))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:      "save telegram chat with numeric id",
			call:      func(h *AuthHandler) http.HandlerFunc { return h.SaveTelegramChat },
			method:    http.MethodPost,
			body:      map[string]any{"chatId": 4242},
			principal: &testPrincipal,
			mockSetup: func(m *mocks.MockAuthService) {
				m.EXPECT().SaveTelegramChat(gomock.Any(), "user-1", "4242").Return(nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"success":true`},
		},
		{
			name:      "save telegram chat missing id",
			call:      func(h *AuthHandler) http.HandlerFunc { return h.SaveTelegramChat },
			method:    http.MethodPost,
			body:      map[string]any{},
			principal: &testPrincipal,
			mockSetup: func(m *mocks.MockAuthService) {
				m.EXPECT().SaveTelegramChat(gomock.Any(), "user-1", "").
					Return(&service.ValidationError{Field: "chatId", Message: "is required"})
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   []string{"chatId"},
		},
		{
			name:      "generate telegram token",
			call:      func(h *AuthHandler) http.HandlerFunc { return h.GenerateTelegramToken },
			method:    http.MethodPost,
			principal: &testPrincipal,
			mockSetup: func(m *mocks.MockAuthService) {
				m.EXPECT().GenerateConnectToken(gomock.Any(), "user-1").Return("TLG-aabbccddeeff0011", nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"success":true`, `"token":"TLG-aabbccddeeff0011"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := mocks.NewMockAuthService(ctrl)
			tt.mockSetup(m)

			w := httptest.NewRecorder()
			tt.call(NewAuthHandler(m))(w, newRequest(t, tt.method, "/", tt.body, tt.principal))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			for _, want := range tt.wantBody {
				if !strings.Contains(w.Body.String(), want) {
					t.Errorf("body %s missing %s", w.Body.String(), want)
				}
			}
		})
	}
}

func TestToUserResponse_OmitsUnsetFields(t *testing.T) {
	raw, err := json.Marshal(toUserResponse(service.User{ID: "u"}))
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"password", "telegramChatId", "connectToken"} {
		if strings.Contains(string(raw), field) {
			t.Errorf("response %s contains %s", raw, field)
		}
	}
}
