package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks filestation-ai/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService filestation-ai/internal/service ChatService

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"filestation-ai/internal/auth"
	"filestation-ai/internal/contextutil"
	"filestation-ai/internal/metrics"
	"filestation-ai/internal/rag"
	"filestation-ai/internal/storage"
)

// Fixed answers that do not involve the LLM.
const (
	AnswerNoFiles    = "No files available for your account."
	AnswerNoMatches  = "No matching files found."
	AnswerNoFileURLs = "No file URLs available."
)

// Intents reported with each answer.
const (
	IntentLink   = "link"
	IntentAnswer = "answer"
	IntentEmpty  = "empty"
)

// LLMClient is an interface for interacting with an LLM API.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Chat sends a message to the LLM and returns the reply.
	Chat(ctx context.Context, message string) (string, error)
}

// ChatOptions bounds how many ranked documents each step uses.
// Zero values fall back to the defaults.
type ChatOptions struct {
	MaxCandidates    int // relevant documents kept after ranking, default 10
	ContextDocs      int // documents serialized into the prompt, default rag.DefaultContextDocs
	MaxLinks         int // links returned for direct-file requests, default rag.DefaultDirectLinks
	MaxQuestionRunes int // longer questions are rejected before ranking, default DefaultMaxQuestionRunes
}

// DefaultMaxQuestionRunes bounds the scoring work of a single question.
const DefaultMaxQuestionRunes = 2000

func (o ChatOptions) withDefaults() ChatOptions {
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = 10
	}
	if o.ContextDocs <= 0 {
		o.ContextDocs = rag.DefaultContextDocs
	}
	if o.MaxLinks <= 0 {
		o.MaxLinks = rag.DefaultDirectLinks
	}
	if o.MaxQuestionRunes <= 0 {
		o.MaxQuestionRunes = DefaultMaxQuestionRunes
	}
	return o
}

// AskResult is the answer to a question.
type AskResult struct {
	Answer  string
	Intent  string
	Matches []string // names of the relevant documents, best first
}

// ChatService answers questions about the files a caller may see.
type ChatService interface {
	// Ask ranks the caller's visible files against question and either returns
	// direct links or an LLM answer grounded in the best matches.
	Ask(ctx context.Context, p auth.Principal, question string) (AskResult, error)
}

// chatService implements ChatService.
type chatService struct {
	docs      storage.DocumentStore
	llmClient LLMClient
	opts      ChatOptions
}

// NewChatService creates a new ChatService.
func NewChatService(docs storage.DocumentStore, llmClient LLMClient, opts ChatOptions) ChatService {
	return &chatService{
		docs:      docs,
		llmClient: llmClient,
		opts:      opts.withDefaults(),
	}
}

func (s *chatService) Ask(ctx context.Context, p auth.Principal, question string) (AskResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Business validation
	if strings.TrimSpace(question) == "" {
		logger.WarnContext(ctx, "empty question in chat request")
		return AskResult{}, &ValidationError{
			Field:   "question",
			Message: "cannot be empty",
		}
	}
	if n := utf8.RuneCountInString(question); n > s.opts.MaxQuestionRunes {
		logger.WarnContext(ctx, "question too long", "runes", n, "limit", s.opts.MaxQuestionRunes)
		return AskResult{}, &ValidationError{
			Field:   "question",
			Message: fmt.Sprintf("must be at most %d characters", s.opts.MaxQuestionRunes),
		}
	}

	recs, err := s.docs.ListVisible(ctx, p.Visibility())
	if err != nil {
		logger.ErrorContext(ctx, "failed to load visible documents", "error", err)
		return AskResult{}, WrapError(err, "failed to load documents")
	}
	if len(recs) == 0 {
		metrics.ChatRequestsTotal.WithLabelValues(IntentEmpty).Inc()
		return AskResult{Answer: AnswerNoFiles, Intent: IntentEmpty, Matches: []string{}}, nil
	}

	corpus := make([]rag.Document, 0, len(recs))
	for _, rec := range recs {
		corpus = append(corpus, rankableDocument(rec))
	}

	top := rag.TopRelevant(rag.Rank(corpus, question), 0, s.opts.MaxCandidates)
	matches := make([]string, 0, len(top))
	for _, entry := range top {
		matches = append(matches, entry.Name)
	}

	if rag.WantsDirectFile(question) {
		metrics.ChatRequestsTotal.WithLabelValues(IntentLink).Inc()
		result := AskResult{Intent: IntentLink, Matches: matches}

		links := rag.DirectLinks(top, s.opts.MaxLinks)
		switch {
		case len(top) == 0:
			result.Answer = AnswerNoMatches
		case len(links) == 0:
			result.Answer = AnswerNoFileURLs
		default:
			result.Answer = strings.Join(links, "\n")
		}

		logger.InfoContext(ctx, "direct file request answered",
			"corpus_size", len(corpus),
			"matches", len(top),
			"links", len(links),
		)
		return result, nil
	}

	prompt := buildAnswerPrompt(rag.BuildContext(top, s.opts.ContextDocs), question)

	reply, err := s.llmClient.Chat(ctx, prompt)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return AskResult{}, externalError(err, "failed to get LLM response")
	}

	metrics.ChatRequestsTotal.WithLabelValues(IntentAnswer).Inc()
	logger.InfoContext(ctx, "chat question answered",
		"corpus_size", len(corpus),
		"matches", len(top),
		"question_length", len(question),
		"reply_length", len(reply),
	)
	return AskResult{
		Answer:  strings.TrimSpace(reply),
		Intent:  IntentAnswer,
		Matches: matches,
	}, nil
}

func buildAnswerPrompt(documents, question string) string {
	return fmt.Sprintf(`You are a concise assistant. Use ONLY the information provided below from the user's documents.
Be brief (use at most 60-90 words), mention filenames when relevant.

DOCUMENTS:
%s

USER QUESTION:
%s

If nothing relevant: reply "%s"
If multiple documents are relevant: produce a short combined answer and list the filenames matched.
Answer in simple English.
`, documents, question, AnswerNoMatches)
}
