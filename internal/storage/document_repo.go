package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks filestation-ai/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// Create inserts a new document. It assigns ID and CreatedAt when empty.
	Create(ctx context.Context, doc *DocumentRecord) error
	// ListVisible returns the documents admitted by v, newest first.
	ListVisible(ctx context.Context, v Visibility) ([]DocumentRecord, error)
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

const documentColumns = "id, name, type, size, location, uploaded_by, department, team, topic, tags, summary, content_hash, created_at"

// Create inserts a new document.
func (r *DocumentRepo) Create(ctx context.Context, doc *DocumentRecord) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	tags, err := encodeList(doc.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (`+documentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.Type, doc.Size, doc.Location, doc.UploadedBy, doc.Department,
		doc.Team, doc.Topic, tags, doc.Summary, doc.ContentHash, doc.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return nil
}

// ListVisible returns the documents admitted by v, newest first.
// An own-or-teams visibility without a user id or teams admits nothing.
func (r *DocumentRepo) ListVisible(ctx context.Context, v Visibility) ([]DocumentRecord, error) {
	where, args := visibilityClause(v)

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE "+where+" ORDER BY created_at DESC, rowid DESC",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	docs := []DocumentRecord{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

func visibilityClause(v Visibility) (string, []any) {
	switch v.Scope {
	case ScopeAll:
		return "1 = 1", nil
	case ScopeDepartment:
		return "department = ?", []any{v.Department}
	}

	var (
		conds []string
		args  []any
	)
	if v.UserID != "" {
		conds = append(conds, "uploaded_by = ?")
		args = append(args, v.UserID)
	}
	if len(v.Teams) > 0 {
		conds = append(conds, "team IN (?"+strings.Repeat(", ?", len(v.Teams)-1)+")")
		for _, team := range v.Teams {
			args = append(args, team)
		}
	}
	if len(conds) == 0 {
		return "1 = 0", nil
	}
	return "(" + strings.Join(conds, " OR ") + ")", args
}

func scanDocument(row *sql.Rows) (*DocumentRecord, error) {
	var (
		doc  DocumentRecord
		tags string
	)

	err := row.Scan(
		&doc.ID, &doc.Name, &doc.Type, &doc.Size, &doc.Location, &doc.UploadedBy, &doc.Department,
		&doc.Team, &doc.Topic, &tags, &doc.Summary, &doc.ContentHash, &doc.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}

	if doc.Tags, err = decodeList(tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	return &doc, nil
}
