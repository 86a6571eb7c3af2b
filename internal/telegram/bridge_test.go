package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"filestation-ai/internal/auth"
	"filestation-ai/internal/service"
	"filestation-ai/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type sentMessage struct {
	chatID int64
	text   string
}

// fakeBot serves queued update batches and records replies.
type fakeBot struct {
	mu      sync.Mutex
	batches [][]Update
	pollErr error
	offsets []int64
	sent    []sentMessage
}

func (f *fakeBot) GetUpdates(ctx context.Context, offset int64, _ time.Duration) ([]Update, error) {
	f.mu.Lock()
	f.offsets = append(f.offsets, offset)
	if f.pollErr != nil {
		err := f.pollErr
		f.pollErr = nil
		f.mu.Unlock()
		return nil, err
	}
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		f.mu.Unlock()
		return batch, nil
	}
	f.mu.Unlock()

	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeBot) SendMessage(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeBot) replies() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

var linked = auth.Principal{UserID: "user-1", Role: auth.RoleMarketer, Teams: []string{"Brand"}}

func message(chatID int64, text string) Message {
	return Message{Chat: Chat{ID: chatID}, Text: text}
}

func TestBridge_HandleMessage(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		session   *Session
		mockSetup func(a *mocks.MockAuthService, c *mocks.MockChatService)
		wantReply string
	}{
		{
			name:      "start",
			text:      "/start",
			mockSetup: func(*mocks.MockAuthService, *mocks.MockChatService) {},
			wantReply: WelcomeText,
		},
		{
			name:      "start addressed to the bot",
			text:      "/start@FileStationAI_bot",
			mockSetup: func(*mocks.MockAuthService, *mocks.MockChatService) {},
			wantReply: WelcomeText,
		},
		{
			name: "connect",
			text: "/connect  TLG-91b2eaa01fdce2b1 ",
			mockSetup: func(a *mocks.MockAuthService, _ *mocks.MockChatService) {
				a.EXPECT().
					ConnectTelegram(gomock.Any(), "TLG-91b2eaa01fdce2b1", "321").
					Return(service.User{ID: "user-1", Name: "Ana"}, linked, nil)
			},
			wantReply: "✅ Account linked successfully!\n\nHello Ana!\nYou can now ask me anything about your files.",
		},
		{
			name:      "connect without token",
			text:      "/connect",
			mockSetup: func(*mocks.MockAuthService, *mocks.MockChatService) {},
			wantReply: ConnectUsageText,
		},
		{
			name: "connect with unknown token",
			text: "/connect TLG-nope",
			mockSetup: func(a *mocks.MockAuthService, _ *mocks.MockChatService) {
				a.EXPECT().ConnectTelegram(gomock.Any(), "TLG-nope", "321").
					Return(service.User{}, auth.Principal{}, fmt.Errorf("invalid connect token: %w", service.ErrNotFound))
			},
			wantReply: InvalidTokenText,
		},
		{
			name: "connect storage failure",
			text: "/connect TLG-1",
			mockSetup: func(a *mocks.MockAuthService, _ *mocks.MockChatService) {
				a.EXPECT().ConnectTelegram(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(service.User{}, auth.Principal{}, errors.New("database is locked"))
			},
			wantReply: ConnectFailedText,
		},
		{
			name:      "unknown command ignored",
			text:      "/help",
			mockSetup: func(*mocks.MockAuthService, *mocks.MockChatService) {},
		},
		{
			name:      "blank message ignored",
			text:      "   ",
			mockSetup: func(*mocks.MockAuthService, *mocks.MockChatService) {},
		},
		{
			name:    "question with session",
			text:    "download the brand guide",
			session: &Session{UserID: "user-1", Role: auth.RoleMarketer, Teams: []string{"Brand"}},
			mockSetup: func(_ *mocks.MockAuthService, c *mocks.MockChatService) {
				c.EXPECT().Ask(gomock.Any(), linked, "download the brand guide").
					Return(service.AskResult{Answer: "https://files.example.com/brand.pdf"}, nil)
			},
			wantReply: "https://files.example.com/brand.pdf",
		},
		{
			name: "question falls back to stored link",
			text: "what changed in the brand guide",
			mockSetup: func(a *mocks.MockAuthService, c *mocks.MockChatService) {
				a.EXPECT().PrincipalForChat(gomock.Any(), "321").Return(linked, nil)
				c.EXPECT().Ask(gomock.Any(), linked, gomock.Any()).Return(service.AskResult{Answer: "New colors."}, nil)
			},
			wantReply: "New colors.",
		},
		{
			name: "question from unlinked chat",
			text: "hello",
			mockSetup: func(a *mocks.MockAuthService, _ *mocks.MockChatService) {
				a.EXPECT().PrincipalForChat(gomock.Any(), "321").
					Return(auth.Principal{}, fmt.Errorf("no user linked to chat: %w", service.ErrNotFound))
			},
			wantReply: NotConnectedText,
		},
		{
			name:    "chat failure",
			text:    "hello",
			session: &Session{UserID: "user-1"},
			mockSetup: func(_ *mocks.MockAuthService, c *mocks.MockChatService) {
				c.EXPECT().Ask(gomock.Any(), gomock.Any(), "hello").
					Return(service.AskResult{}, fmt.Errorf("llm: %w", service.ErrExternalService))
			},
			wantReply: ChatFailedText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			authSvc := mocks.NewMockAuthService(ctrl)
			chatSvc := mocks.NewMockChatService(ctrl)
			tt.mockSetup(authSvc, chatSvc)

			sessions := NewMemoryStore()
			if tt.session != nil {
				_ = sessions.Put(context.Background(), "321", *tt.session)
			}

			bot := &fakeBot{}
			bridge := NewBridge(bot, authSvc, chatSvc, sessions)
			bridge.HandleMessage(context.Background(), message(321, tt.text))

			sent := bot.replies()
			if tt.wantReply == "" {
				if len(sent) != 0 {
					t.Errorf("unexpected replies %+v", sent)
				}
				return
			}
			if len(sent) != 1 {
				t.Fatalf("sent %d replies, want 1", len(sent))
			}
			if sent[0].chatID != 321 || sent[0].text != tt.wantReply {
				t.Errorf("reply = %+v, want %q", sent[0], tt.wantReply)
			}
		})
	}
}

func TestBridge_ConnectStoresSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	authSvc := mocks.NewMockAuthService(ctrl)
	chatSvc := mocks.NewMockChatService(ctrl)
	sessions := NewMemoryStore()

	authSvc.EXPECT().ConnectTelegram(gomock.Any(), "TLG-1", "321").
		Return(service.User{ID: "user-1", Name: "Ana"}, linked, nil)
	// The stored session answers the follow-up without another lookup.
	chatSvc.EXPECT().Ask(gomock.Any(), linked, "hi").Return(service.AskResult{Answer: "hello"}, nil)

	bridge := NewBridge(&fakeBot{}, authSvc, chatSvc, sessions)
	bridge.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	bridge.HandleMessage(context.Background(), message(321, "/connect TLG-1"))
	bridge.HandleMessage(context.Background(), message(321, "hi"))

	s, err := sessions.Get(context.Background(), "321")
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if s.Name != "Ana" || s.UserID != "user-1" || !s.LinkedAt.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("session = %+v", s)
	}
}

func TestBridge_UnreadableSessionIsDropped(t *testing.T) {
	tests := []struct {
		name        string
		linkErr     error
		wantReply   string
		wantSession bool
	}{
		{
			name:      "chat no longer linked",
			linkErr:   fmt.Errorf("no user linked to chat: %w", service.ErrNotFound),
			wantReply: NotConnectedText,
		},
		{
			name:        "chat still linked",
			wantReply:   "hello",
			wantSession: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			authSvc := mocks.NewMockAuthService(ctrl)
			chatSvc := mocks.NewMockChatService(ctrl)
			authSvc.EXPECT().PrincipalForChat(gomock.Any(), "321").Return(linked, tt.linkErr)
			if tt.linkErr == nil {
				chatSvc.EXPECT().Ask(gomock.Any(), linked, "hi").Return(service.AskResult{Answer: "hello"}, nil)
			}

			sessions, mr := newRedisStore(t, time.Hour)
			if err := mr.Set(sessionKeyPrefix+"321", "{not json"); err != nil {
				t.Fatal(err)
			}

			bot := &fakeBot{}
			NewBridge(bot, authSvc, chatSvc, sessions).HandleMessage(context.Background(), message(321, "hi"))

			if sent := bot.replies(); len(sent) != 1 || sent[0].text != tt.wantReply {
				t.Errorf("replies = %+v, want %q", sent, tt.wantReply)
			}

			s, err := sessions.Get(context.Background(), "321")
			if tt.wantSession {
				if err != nil || s.UserID != linked.UserID {
					t.Errorf("session = %+v, %v; want re-cached session", s, err)
				}
				return
			}
			if !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Get() error = %v, want unreadable session removed", err)
			}
		})
	}
}

func TestBridge_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	authSvc := mocks.NewMockAuthService(ctrl)
	chatSvc := mocks.NewMockChatService(ctrl)

	bot := &fakeBot{
		pollErr: errors.New("temporary network error"),
		batches: [][]Update{
			{
				{UpdateID: 10, Message: &Message{Chat: Chat{ID: 1}, Text: "/start"}},
				{UpdateID: 11},
			},
			{
				{UpdateID: 12, Message: &Message{Chat: Chat{ID: 2}, Text: "/start"}},
			},
		},
	}

	bridge := NewBridge(bot, authSvc, chatSvc, NewMemoryStore())
	bridge.maxBackoff = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bridge.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	for len(bot.replies()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for replies, got %+v", bot.replies())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}

	sent := bot.replies()
	if sent[0].chatID != 1 || sent[1].chatID != 2 || !strings.HasPrefix(sent[0].text, "Welcome") {
		t.Errorf("replies = %+v", sent)
	}

	bot.mu.Lock()
	offsets := append([]int64(nil), bot.offsets...)
	bot.mu.Unlock()
	// error retry, first batch, second batch
	want := []int64{0, 0, 12}
	if len(offsets) < len(want) {
		t.Fatalf("offsets = %v, want prefix %v", offsets, want)
	}
	for i, w := range want {
		if offsets[i] != w {
			t.Errorf("offsets = %v, want prefix %v", offsets, want)
			break
		}
	}
}
