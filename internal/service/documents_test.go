package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"filestation-ai/internal/auth"
	"filestation-ai/internal/ingest"
	"filestation-ai/internal/service"
	"filestation-ai/internal/service/mocks"
	"filestation-ai/internal/storage"
	storagemocks "filestation-ai/internal/storage/mocks"

	"go.uber.org/mock/gomock"
)

type documentMocks struct {
	docs      *storagemocks.MockDocumentStore
	fetcher   *mocks.MockFetcher
	extractor *mocks.MockMetadataExtractor
}

func newDocumentService(t *testing.T) (service.DocumentService, documentMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := documentMocks{
		docs:      storagemocks.NewMockDocumentStore(ctrl),
		fetcher:   mocks.NewMockFetcher(ctrl),
		extractor: mocks.NewMockMetadataExtractor(ctrl),
	}
	return service.NewDocumentService(m.docs, m.fetcher, m.extractor), m
}

func TestDocumentService_SaveFile(t *testing.T) {
	svc, m := newDocumentService(t)

	content := []byte("# Launch plan\n\nSpring campaign for the new logo.")
	m.fetcher.EXPECT().
		Fetch(gomock.Any(), "https://files.example.com/plan.md").
		Return(ingest.Fetched{Content: content, ContentType: "text/markdown"}, nil)
	m.extractor.EXPECT().
		Extract(gomock.Any(), "plan.md", "text/markdown", "Launch plan\nSpring campaign for the new logo.").
		Return(ingest.Metadata{Topic: "Marketing", Summary: "Spring launch."}, nil)
	m.docs.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *storage.DocumentRecord) error {
			if rec.ContentHash == "" || len(rec.ContentHash) != 64 {
				t.Errorf("content hash = %q, want sha256 hex", rec.ContentHash)
			}
			rec.ID = "doc-1"
			rec.CreatedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
			return nil
		})

	p := auth.Principal{UserID: "user-1", Role: auth.RoleMarketer, Department: "Marketing", Teams: []string{"Brand"}}
	got, err := svc.SaveFile(testContext(), p, service.SaveFileRequest{
		Name:     " plan.md ",
		Type:     "text/markdown",
		Location: "https://files.example.com/plan.md",
	})
	if err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	want := service.File{
		ID:         "doc-1",
		Name:       "plan.md",
		Type:       "text/markdown",
		Size:       int64(len(content)),
		Location:   "https://files.example.com/plan.md",
		UploadedBy: "user-1",
		Department: "Marketing",
		Team:       "Brand",
		Topic:      "Marketing",
		Tags:       []string{},
		Summary:    "Spring launch.",
		CreatedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SaveFile() = %+v, want %+v", got, want)
	}
}

func TestDocumentService_SaveFile_ReportedSizeWins(t *testing.T) {
	svc, m := newDocumentService(t)

	m.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(ingest.Fetched{Content: []byte{0x25, 0x50, 0x44, 0x46}}, nil)
	// Binary uploads reach the extractor with no text.
	m.extractor.EXPECT().Extract(gomock.Any(), "deck.pdf", "application/pdf", "").Return(ingest.Metadata{}, nil)
	m.docs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.SaveFile(testContext(), auth.Principal{UserID: "user-1"}, service.SaveFileRequest{
		Name:     "deck.pdf",
		Type:     "application/pdf",
		Size:     2048,
		Location: "https://files.example.com/deck.pdf",
	})
	if err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if got.Size != 2048 {
		t.Errorf("size = %d, want 2048", got.Size)
	}
	if got.Team != ingest.DefaultTeam || got.Topic != ingest.DefaultTopic {
		t.Errorf("defaults not applied: team %q topic %q", got.Team, got.Topic)
	}
}

func TestDocumentService_SaveFile_Errors(t *testing.T) {
	valid := service.SaveFileRequest{Name: "a.txt", Type: "text/plain", Location: "https://x/a.txt"}

	tests := []struct {
		name      string
		req       service.SaveFileRequest
		mockSetup func(m documentMocks)
		checkErr  func(error) bool
	}{
		{
			name:      "missing name",
			req:       service.SaveFileRequest{Type: "text/plain", Location: "https://x/a.txt"},
			mockSetup: func(documentMocks) {},
			checkErr:  isValidationErrorOn("name"),
		},
		{
			name:      "missing location",
			req:       service.SaveFileRequest{Name: "a.txt", Type: "text/plain"},
			mockSetup: func(documentMocks) {},
			checkErr:  isValidationErrorOn("location"),
		},
		{
			name:      "negative size",
			req:       service.SaveFileRequest{Name: "a.txt", Type: "text/plain", Location: "https://x/a.txt", Size: -1},
			mockSetup: func(documentMocks) {},
			checkErr:  isValidationErrorOn("size"),
		},
		{
			name: "unsupported location",
			req:  valid,
			mockSetup: func(m documentMocks) {
				m.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(ingest.Fetched{}, ingest.ErrUnsupportedLocation)
			},
			checkErr: isValidationErrorOn("location"),
		},
		{
			name: "too large",
			req:  valid,
			mockSetup: func(m documentMocks) {
				m.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(ingest.Fetched{}, ingest.ErrTooLarge)
			},
			checkErr: isValidationErrorOn("location"),
		},
		{
			name: "fetch failure",
			req:  valid,
			mockSetup: func(m documentMocks) {
				m.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(ingest.Fetched{}, errors.New("connection refused"))
			},
			checkErr: func(err error) bool { return errors.Is(err, service.ErrExternalService) },
		},
		{
			name: "metadata failure",
			req:  valid,
			mockSetup: func(m documentMocks) {
				m.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(ingest.Fetched{Content: []byte("hi")}, nil)
				m.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(ingest.Metadata{}, errors.New("timeout"))
			},
			checkErr: func(err error) bool { return errors.Is(err, service.ErrExternalService) },
		},
		{
			name: "store failure",
			req:  valid,
			mockSetup: func(m documentMocks) {
				m.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(ingest.Fetched{Content: []byte("hi")}, nil)
				m.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(ingest.Metadata{}, nil)
				m.docs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
			},
			checkErr: func(err error) bool {
				return err != nil && !errors.Is(err, service.ErrExternalService) && !errors.Is(err, service.ErrInvalidInput)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newDocumentService(t)
			tt.mockSetup(m)

			_, err := svc.SaveFile(testContext(), auth.Principal{UserID: "user-1"}, tt.req)
			if !tt.checkErr(err) {
				t.Errorf("SaveFile() error = %v, unexpected type", err)
			}
		})
	}
}

func TestDocumentService_ListFiles(t *testing.T) {
	svc, m := newDocumentService(t)
	p := auth.Principal{UserID: "m", Role: auth.RoleManager, Department: "Sales"}

	m.docs.EXPECT().
		ListVisible(gomock.Any(), storage.Visibility{Scope: storage.ScopeDepartment, Department: "Sales"}).
		Return([]storage.DocumentRecord{{ID: "b", Name: "new"}, {ID: "a", Name: "old"}}, nil)

	got, err := svc.ListFiles(testContext(), p)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("ListFiles() = %+v, want store order", got)
	}

	m.docs.EXPECT().ListVisible(gomock.Any(), gomock.Any()).Return(nil, nil)
	got, err = svc.ListFiles(testContext(), p)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("ListFiles() on empty store = %v, %v; want empty non-nil slice", got, err)
	}

	m.docs.EXPECT().ListVisible(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
	if _, err := svc.ListFiles(testContext(), p); err == nil {
		t.Error("ListFiles() expected error")
	}
}

func isValidationErrorOn(field string) func(error) bool {
	return func(err error) bool {
		var validationErr *service.ValidationError
		return errors.As(err, &validationErr) && validationErr.Field == field
	}
}
