package handlers

import (
	"net/http"
	"time"

	"filestation-ai/internal/service"
)

// FilesHandler serves upload registration and file listing.
type FilesHandler struct {
	documentService service.DocumentService
}

// NewFilesHandler creates a new FilesHandler.
func NewFilesHandler(documentService service.DocumentService) *FilesHandler {
	return &FilesHandler{documentService: documentService}
}

// SaveFileRequest is the payload of POST /save-file. CloudinaryURL is
// accepted as an alias of Location for older clients.
type SaveFileRequest struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Size          int64  `json:"size"`
	Location      string `json:"location"`
	CloudinaryURL string `json:"cloudinaryUrl"`
}

// FileResponse is the public view of a stored file.
type FileResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	Location   string    `json:"location"`
	UploadedBy string    `json:"uploadedBy"`
	Department string    `json:"department"`
	Team       string    `json:"team"`
	Topic      string    `json:"topic"`
	Tags       []string  `json:"tags"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SaveFileResponse is the body of a successful upload.
type SaveFileResponse struct {
	Success bool         `json:"success"`
	File    FileResponse `json:"file"`
}

// ListFilesResponse is the body of GET /files.
type ListFilesResponse struct {
	Success bool           `json:"success"`
	Files   []FileResponse `json:"files"`
}

func toFileResponse(f service.File) FileResponse {
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}
	return FileResponse{
		ID:         f.ID,
		Name:       f.Name,
		Type:       f.Type,
		Size:       f.Size,
		Location:   f.Location,
		UploadedBy: f.UploadedBy,
		Department: f.Department,
		Team:       f.Team,
		Topic:      f.Topic,
		Tags:       tags,
		Summary:    f.Summary,
		CreatedAt:  f.CreatedAt,
	}
}

// SaveFile handles POST /save-file.
func (h *FilesHandler) SaveFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req SaveFileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	location := req.Location
	if location == "" {
		location = req.CloudinaryURL
	}

	file, err := h.documentService.SaveFile(ctx, p, service.SaveFileRequest{
		Name:     req.Name,
		Type:     req.Type,
		Size:     req.Size,
		Location: location,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to save file")
		return
	}

	writeJSON(ctx, w, http.StatusOK, SaveFileResponse{Success: true, File: toFileResponse(file)})
}

// ListFiles handles GET /files.
func (h *FilesHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	files, err := h.documentService.ListFiles(ctx, p)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to fetch files")
		return
	}

	resp := ListFilesResponse{Success: true, Files: make([]FileResponse, 0, len(files))}
	for _, f := range files {
		resp.Files = append(resp.Files, toFileResponse(f))
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}
