package storage

import "time"

// UserRecord represents an account in the database.
type UserRecord struct {
	ID             string // UUID
	Name           string
	Email          string
	PasswordHash   string // bcrypt hash
	Role           string // admin, manager or marketer
	Department     string
	Teams          []string // stored as a JSON array
	TelegramChatID string   // empty until a chat is linked
	ConnectToken   string   // empty until one is generated
	CreatedAt      time.Time
}

// DocumentRecord represents an uploaded file and its extracted metadata.
type DocumentRecord struct {
	ID          string // UUID
	Name        string
	Type        string // MIME type reported by the uploader
	Size        int64
	Location    string // URL of the stored bytes
	UploadedBy  string // users.id
	Department  string // uploader's department at upload time
	Team        string
	Topic       string
	Tags        []string // stored as a JSON array
	Summary     string
	ContentHash string // SHA256 hex string of the fetched content
	CreatedAt   time.Time
}

// Scope selects which documents a Visibility admits.
type Scope int

const (
	// ScopeOwnOrTeams admits documents uploaded by the user or owned by one of the user's teams.
	ScopeOwnOrTeams Scope = iota
	// ScopeDepartment admits documents from the user's department.
	ScopeDepartment
	// ScopeAll admits every document.
	ScopeAll
)

// Visibility describes the subset of documents a caller may read.
type Visibility struct {
	Scope      Scope
	UserID     string
	Department string
	Teams      []string
}
