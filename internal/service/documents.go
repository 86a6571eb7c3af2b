package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_fetcher.go -package=mocks filestation-ai/internal/service Fetcher
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_metadata_extractor.go -package=mocks filestation-ai/internal/service MetadataExtractor
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_service.go -package=mocks -mock_names=DocumentService=MockDocumentService filestation-ai/internal/service DocumentService

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"filestation-ai/internal/auth"
	"filestation-ai/internal/contextutil"
	"filestation-ai/internal/ingest"
	"filestation-ai/internal/metrics"
	"filestation-ai/internal/storage"
)

// Fetcher downloads the bytes behind a file location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (ingest.Fetched, error)
}

// MetadataExtractor classifies an upload from its name, type and text.
type MetadataExtractor interface {
	Extract(ctx context.Context, name, mimeType, content string) (ingest.Metadata, error)
}

// SaveFileRequest describes an uploaded file.
type SaveFileRequest struct {
	Name     string
	Type     string
	Size     int64
	Location string
}

// DocumentService stores uploads and lists the files a caller may see.
type DocumentService interface {
	// SaveFile fetches the file, extracts its metadata and stores it for p.
	SaveFile(ctx context.Context, p auth.Principal, req SaveFileRequest) (File, error)
	// ListFiles returns the files visible to p, newest first.
	ListFiles(ctx context.Context, p auth.Principal) ([]File, error)
}

type documentService struct {
	docs      storage.DocumentStore
	fetcher   Fetcher
	extractor MetadataExtractor
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(docs storage.DocumentStore, fetcher Fetcher, extractor MetadataExtractor) DocumentService {
	return &documentService{
		docs:      docs,
		fetcher:   fetcher,
		extractor: extractor,
	}
}

func (s *documentService) SaveFile(ctx context.Context, p auth.Principal, req SaveFileRequest) (File, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.TrimSpace(req.Type)
	req.Location = strings.TrimSpace(req.Location)
	switch {
	case req.Name == "":
		return File{}, &ValidationError{Field: "name", Message: "is required"}
	case req.Type == "":
		return File{}, &ValidationError{Field: "type", Message: "is required"}
	case req.Location == "":
		return File{}, &ValidationError{Field: "location", Message: "is required"}
	case req.Size < 0:
		return File{}, &ValidationError{Field: "size", Message: "cannot be negative"}
	}

	fetched, err := s.fetcher.Fetch(ctx, req.Location)
	if err != nil {
		metrics.IngestTotal.WithLabelValues("fetch_error").Inc()
		logger.WarnContext(ctx, "failed to fetch file", "name", req.Name, "error", err)
		switch {
		case errors.Is(err, ingest.ErrUnsupportedLocation):
			return File{}, &ValidationError{Field: "location", Message: "must be an http(s) URL"}
		case errors.Is(err, ingest.ErrTooLarge):
			return File{}, &ValidationError{Field: "location", Message: "file exceeds the size limit"}
		}
		return File{}, externalError(err, "failed to fetch file")
	}

	text := ingest.ExtractText(req.Type, req.Name, fetched.Content)
	md, err := s.extractor.Extract(ctx, req.Name, req.Type, text)
	if err != nil {
		metrics.IngestTotal.WithLabelValues("llm_error").Inc()
		logger.ErrorContext(ctx, "failed to extract metadata", "name", req.Name, "error", err)
		return File{}, externalError(err, "failed to extract metadata")
	}
	md = md.WithDefaults(p.Teams)

	size := req.Size
	if size == 0 {
		size = int64(len(fetched.Content))
	}
	sum := sha256.Sum256(fetched.Content)

	rec := &storage.DocumentRecord{
		Name:        req.Name,
		Type:        req.Type,
		Size:        size,
		Location:    req.Location,
		UploadedBy:  p.UserID,
		Department:  p.Department,
		Team:        md.Team,
		Topic:       md.Topic,
		Tags:        md.Tags,
		Summary:     md.Summary,
		ContentHash: hex.EncodeToString(sum[:]),
	}
	if err := s.docs.Create(ctx, rec); err != nil {
		metrics.IngestTotal.WithLabelValues("store_error").Inc()
		logger.ErrorContext(ctx, "failed to store document", "name", req.Name, "error", err)
		return File{}, WrapError(err, "failed to save file")
	}

	metrics.IngestTotal.WithLabelValues("ok").Inc()
	logger.InfoContext(ctx, "file saved",
		"document_id", rec.ID,
		"name", rec.Name,
		"team", rec.Team,
		"topic", rec.Topic,
		"text_length", len(text),
	)
	return fileFromRecord(rec), nil
}

func (s *documentService) ListFiles(ctx context.Context, p auth.Principal) ([]File, error) {
	recs, err := s.docs.ListVisible(ctx, p.Visibility())
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list files", "error", err)
		return nil, WrapError(err, "failed to list files")
	}

	files := make([]File, 0, len(recs))
	for i := range recs {
		files = append(files, fileFromRecord(&recs[i]))
	}
	return files, nil
}
