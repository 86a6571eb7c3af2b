package handlers

import (
	"net/http"

	"filestation-ai/internal/contextutil"
	"filestation-ai/internal/service"
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	Success bool     `json:"success"`
	Answer  string   `json:"answer"`
	Intent  string   `json:"intent"`
	Matches []string `json:"matches"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.chatService.Ask(ctx, p, req.Question)
	if err != nil {
		handleServiceError(ctx, w, err, "Chat system failed")
		return
	}

	matches := result.Matches
	if matches == nil {
		matches = []string{}
	}
	writeJSON(ctx, w, http.StatusOK, ChatResponse{
		Success: true,
		Answer:  result.Answer,
		Intent:  result.Intent,
		Matches: matches,
	})
}
