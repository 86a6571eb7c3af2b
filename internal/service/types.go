package service

import (
	"time"

	"filestation-ai/internal/rag"
	"filestation-ai/internal/storage"
)

// User is the account view returned to callers. It never carries the password hash.
type User struct {
	ID             string
	Name           string
	Email          string
	Role           string
	Department     string
	Teams          []string
	TelegramChatID string
	ConnectToken   string
	CreatedAt      time.Time
}

// File is a stored document with its extracted metadata.
type File struct {
	ID         string
	Name       string
	Type       string
	Size       int64
	Location   string
	UploadedBy string
	Department string
	Team       string
	Topic      string
	Tags       []string
	Summary    string
	CreatedAt  time.Time
}

func userFromRecord(rec *storage.UserRecord) User {
	return User{
		ID:             rec.ID,
		Name:           rec.Name,
		Email:          rec.Email,
		Role:           rec.Role,
		Department:     rec.Department,
		Teams:          rec.Teams,
		TelegramChatID: rec.TelegramChatID,
		ConnectToken:   rec.ConnectToken,
		CreatedAt:      rec.CreatedAt,
	}
}

func fileFromRecord(rec *storage.DocumentRecord) File {
	return File{
		ID:         rec.ID,
		Name:       rec.Name,
		Type:       rec.Type,
		Size:       rec.Size,
		Location:   rec.Location,
		UploadedBy: rec.UploadedBy,
		Department: rec.Department,
		Team:       rec.Team,
		Topic:      rec.Topic,
		Tags:       rec.Tags,
		Summary:    rec.Summary,
		CreatedAt:  rec.CreatedAt,
	}
}

func rankableDocument(rec storage.DocumentRecord) rag.Document {
	return rag.Document{
		ID:       rec.ID,
		Name:     rec.Name,
		Topic:    rec.Topic,
		Team:     rec.Team,
		Tags:     rec.Tags,
		Summary:  rec.Summary,
		Location: rec.Location,
	}
}
