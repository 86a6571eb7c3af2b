package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"filestation-ai/internal/auth"
	"filestation-ai/internal/contextutil"
	"filestation-ai/internal/service"
)

// Replies sent by the bridge.
const (
	WelcomeText = `Welcome to FileStation AI 🤖📂

To link your web account:

1. Open Dashboard → Settings
2. Copy your Telegram Connect Token
3. Paste here:

/connect TOKEN

Example:
/connect TLG-91b2eaa01fdce2b1`

	ConnectUsageText  = "Usage: /connect TOKEN"
	InvalidTokenText  = "❌ Invalid token. Please copy again from your Settings."
	ConnectFailedText = "⚠️ Failed to connect your Telegram."
	NotConnectedText  = "⚠️ Not connected.\nUse /connect TOKEN first."
	ChatFailedText    = "⚠️ Error chatting with your documents."
)

// BotAPI is the part of the Bot API the bridge uses.
type BotAPI interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Linker resolves Telegram chats to accounts.
type Linker interface {
	ConnectTelegram(ctx context.Context, token, chatID string) (service.User, auth.Principal, error)
	PrincipalForChat(ctx context.Context, chatID string) (auth.Principal, error)
}

// Asker answers questions for a principal.
type Asker interface {
	Ask(ctx context.Context, p auth.Principal, question string) (service.AskResult, error)
}

// Bridge long-polls the Bot API and answers messages with the chat service.
type Bridge struct {
	api         BotAPI
	linker      Linker
	asker       Asker
	sessions    SessionStore
	pollTimeout time.Duration
	maxBackoff  time.Duration
	now         func() time.Time
}

// NewBridge creates a Bridge.
func NewBridge(api BotAPI, linker Linker, asker Asker, sessions SessionStore) *Bridge {
	return &Bridge{
		api:         api,
		linker:      linker,
		asker:       asker,
		sessions:    sessions,
		pollTimeout: 30 * time.Second,
		maxBackoff:  30 * time.Second,
		now:         time.Now,
	}
}

// Run polls for updates until ctx is cancelled. Poll failures are logged and
// retried with exponential backoff.
func (b *Bridge) Run(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "telegram bridge started")

	var offset int64
	backoff := time.Second

	for {
		if ctx.Err() != nil {
			logger.InfoContext(ctx, "telegram bridge stopped")
			return nil
		}

		updates, err := b.api.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				logger.InfoContext(ctx, "telegram bridge stopped")
				return nil
			}
			logger.WarnContext(ctx, "failed to poll telegram updates", "error", err, "retry_in", backoff)
			select {
			case <-ctx.Done():
				logger.InfoContext(ctx, "telegram bridge stopped")
				return nil
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, b.maxBackoff)
			continue
		}
		backoff = time.Second

		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message != nil {
				b.HandleMessage(ctx, *u.Message)
			}
		}
	}
}

// HandleMessage replies to one incoming message. Unknown commands are ignored.
func (b *Bridge) HandleMessage(ctx context.Context, msg Message) {
	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	logger := contextutil.LoggerFromContext(ctx).With("chat_id", chatID)
	ctx = contextutil.WithLogger(ctx, logger)

	reply := b.reply(ctx, chatID, strings.TrimSpace(msg.Text))
	if reply == "" {
		return
	}
	if err := b.api.SendMessage(ctx, msg.Chat.ID, reply); err != nil {
		logger.ErrorContext(ctx, "failed to send telegram reply", "error", err)
	}
}

func (b *Bridge) reply(ctx context.Context, chatID, text string) string {
	if text == "" {
		return ""
	}

	if strings.HasPrefix(text, "/") {
		command, arg, _ := strings.Cut(text, " ")
		// Commands may be addressed as /start@BotName.
		command, _, _ = strings.Cut(command, "@")

		switch command {
		case "/start":
			return WelcomeText
		case "/connect":
			return b.connect(ctx, chatID, strings.TrimSpace(arg))
		default:
			return ""
		}
	}

	return b.answer(ctx, chatID, text)
}

func (b *Bridge) connect(ctx context.Context, chatID, token string) string {
	logger := contextutil.LoggerFromContext(ctx)

	if token == "" {
		return ConnectUsageText
	}

	user, p, err := b.linker.ConnectTelegram(ctx, token, chatID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		logger.WarnContext(ctx, "telegram connect with unknown token")
		return InvalidTokenText
	case err != nil:
		logger.ErrorContext(ctx, "telegram connect failed", "error", err)
		return ConnectFailedText
	}

	if err := b.sessions.Put(ctx, chatID, b.newSession(p, user.Name)); err != nil {
		// The chat id is already linked in storage, so later messages still resolve.
		logger.WarnContext(ctx, "failed to store telegram session", "error", err)
	}

	logger.InfoContext(ctx, "telegram chat connected", "user_id", p.UserID)
	return "✅ Account linked successfully!\n\nHello " + user.Name + "!\nYou can now ask me anything about your files."
}

func (b *Bridge) answer(ctx context.Context, chatID, question string) string {
	logger := contextutil.LoggerFromContext(ctx)

	p, ok := b.principal(ctx, chatID)
	if !ok {
		return NotConnectedText
	}

	result, err := b.asker.Ask(ctx, p, question)
	if err != nil {
		logger.ErrorContext(ctx, "telegram chat failed", "user_id", p.UserID, "error", err)
		return ChatFailedText
	}
	return result.Answer
}

// principal returns the session principal for chatID, falling back to the
// account linked to the chat in storage and caching it as a new session.
// A session that cannot be loaded is dropped.
func (b *Bridge) principal(ctx context.Context, chatID string) (auth.Principal, bool) {
	logger := contextutil.LoggerFromContext(ctx)

	s, err := b.sessions.Get(ctx, chatID)
	if err == nil {
		return s.Principal(), true
	}
	if !errors.Is(err, ErrSessionNotFound) {
		logger.WarnContext(ctx, "failed to load telegram session, dropping it", "error", err)
		if err := b.sessions.Delete(ctx, chatID); err != nil {
			logger.WarnContext(ctx, "failed to delete telegram session", "error", err)
		}
	}

	p, err := b.linker.PrincipalForChat(ctx, chatID)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			logger.ErrorContext(ctx, "failed to resolve telegram chat", "error", err)
		}
		return auth.Principal{}, false
	}

	if err := b.sessions.Put(ctx, chatID, b.newSession(p, "")); err != nil {
		logger.WarnContext(ctx, "failed to store telegram session", "error", err)
	}
	return p, true
}

func (b *Bridge) newSession(p auth.Principal, name string) Session {
	return Session{
		UserID:     p.UserID,
		Name:       name,
		Role:       p.Role,
		Department: p.Department,
		Teams:      p.Teams,
		LinkedAt:   b.now().UTC(),
	}
}
