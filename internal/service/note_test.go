package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"ytnote/internal/service"
	"ytnote/internal/service/mocks"
	"ytnote/internal/storage"
	storagemocks "ytnote/internal/storage/mocks"
	"ytnote/internal/template"
	"ytnote/internal/vault"
	"ytnote/internal/youtube"

	"go.uber.org/mock/gomock"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// testContext returns a context for testing.
func testContext() context.Context {
	return context.Background()
}

type noteMocks struct {
	videos   *mocks.MockVideoFetcher
	vault    *mocks.MockVault
	settings *storagemocks.MockSettingsStore
	notes    *storagemocks.MockNoteStore
}

func newNoteService(t *testing.T) (service.NoteService, noteMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := noteMocks{
		videos:   mocks.NewMockVideoFetcher(ctrl),
		vault:    mocks.NewMockVault(ctrl),
		settings: storagemocks.NewMockSettingsStore(ctrl),
		notes:    storagemocks.NewMockNoteStore(ctrl),
	}
	svc := service.NewNoteService(m.videos, m.vault, m.settings, m.notes, template.NewRenderer())
	return svc, m
}

var testSettings = storage.Settings{
	GoogleCloudAPIKey: "api-key",
	Folder:            "Videos",
	ChapterFormat:     template.DefaultChapterFormat,
	HashtagFormat:     template.DefaultHashtagFormat,
	Template:          "---\ntitle: \"{{title}}\"\n---\n{{thumbnail}}\n{{chapters}}",
	CreatePaths:       true,
}

func testVideo() *youtube.Video {
	return &youtube.Video{
		ID:           "abc123",
		Title:        `Go: "Fast"`,
		Description:  "0:00 Intro\n1:30 Body",
		ChannelTitle: "Gophers",
		Subscribers:  42,
		Duration:     "PT2M",
		PublishedAt:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Thumbnail: youtube.Thumbnail{
			URL:  "https://i.ytimg.com/vi/abc123/maxresdefault.jpg",
			Data: []byte{0xff, 0xd8},
		},
	}
}

func TestNewNoteService(t *testing.T) {
	svc, _ := newNoteService(t)
	if svc == nil {
		t.Fatal("NewNoteService() returned nil")
	}
}

func TestNoteService_CreateNote(t *testing.T) {
	const url = "https://www.youtube.com/watch?v=abc123&t=10"

	tests := []struct {
		name         string
		req          service.CreateNoteRequest
		mockSetup    func(m noteMocks)
		wantErr      bool
		wantPath     string
		wantThumb    string
		checkErrType func(error) bool
	}{
		{
			name: "note with thumbnail",
			req:  service.CreateNoteRequest{URL: url},
			mockSetup: func(m noteMocks) {
				m.settings.EXPECT().Get(gomock.Any()).Return(testSettings, nil)
				m.videos.EXPECT().FetchVideo(gomock.Any(), "api-key", "abc123").Return(testVideo(), nil)
				m.vault.EXPECT().AttachmentFolder("Videos/Go Fast.md").Return("Videos/attachments", nil)
				m.vault.EXPECT().
					WriteAttachment("Videos/attachments", "Go Fast.jpg", []byte{0xff, 0xd8}, true).
					Return("Videos/attachments/Go Fast.jpg", nil)
				m.vault.EXPECT().
					WriteNote("Videos", "Go Fast.md", gomock.Any(), true).
					DoAndReturn(func(folder, name, content string, createPaths bool) (string, error) {
						for _, want := range []string{
							`title: "Go: «Fast»"`,
							"![[Videos/attachments/Go Fast.jpg]]",
							"- [1:30](https://www.youtube.com/watch?v=abc123&t=90s) Body",
						} {
							if !strings.Contains(content, want) {
								t.Errorf("note content missing %q:\n%s", want, content)
							}
						}
						return "Videos/Go Fast.md", nil
					})
				m.notes.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec *storage.NoteRecord) error {
						rec.ID = "note-1"
						return nil
					})
			},
			wantPath:  "Videos/Go Fast.md",
			wantThumb: "Videos/attachments/Go Fast.jpg",
		},
		{
			name: "active note drives attachment folder",
			req:  service.CreateNoteRequest{URL: url, ActiveNote: "Daily/today.md"},
			mockSetup: func(m noteMocks) {
				m.settings.EXPECT().Get(gomock.Any()).Return(testSettings, nil)
				m.videos.EXPECT().FetchVideo(gomock.Any(), "api-key", "abc123").Return(testVideo(), nil)
				m.vault.EXPECT().AttachmentFolder("Daily/today.md").Return("Daily/assets", nil)
				m.vault.EXPECT().WriteAttachment("Daily/assets", "Go Fast.jpg", gomock.Any(), true).
					Return("Daily/assets/Go Fast.jpg", nil)
				m.vault.EXPECT().WriteNote("Videos", "Go Fast.md", gomock.Any(), true).Return("Videos/Go Fast.md", nil)
				m.notes.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantPath:  "Videos/Go Fast.md",
			wantThumb: "Daily/assets/Go Fast.jpg",
		},
		{
			name: "video without thumbnail",
			req:  service.CreateNoteRequest{URL: url},
			mockSetup: func(m noteMocks) {
				video := testVideo()
				video.Thumbnail = youtube.Thumbnail{}
				m.settings.EXPECT().Get(gomock.Any()).Return(testSettings, nil)
				m.videos.EXPECT().FetchVideo(gomock.Any(), "api-key", "abc123").Return(video, nil)
				m.vault.EXPECT().WriteNote("Videos", "Go Fast.md", gomock.Any(), true).Return("Videos/Go Fast.md", nil)
				m.notes.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantPath: "Videos/Go Fast.md",
		},
		{
			name: "backslash title with default template",
			req:  service.CreateNoteRequest{URL: url},
			mockSetup: func(m noteMocks) {
				video := testVideo()
				video.Title = `Regex \d+ explained`
				video.Thumbnail = youtube.Thumbnail{}
				s := testSettings
				s.Template = template.DefaultTemplate
				m.settings.EXPECT().Get(gomock.Any()).Return(s, nil)
				m.videos.EXPECT().FetchVideo(gomock.Any(), "api-key", "abc123").Return(video, nil)
				m.vault.EXPECT().WriteNote("Videos", "Regex d+ explained.md", gomock.Any(), true).
					DoAndReturn(func(folder, name, content string, createPaths bool) (string, error) {
						if !strings.Contains(content, `title: "Regex \\d+ explained"`) {
							t.Errorf("note title not escaped for YAML:\n%s", content)
						}
						return "Videos/Regex d+ explained.md", nil
					})
				m.notes.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantPath: "Videos/Regex d+ explained.md",
		},
		{
			name: "existing thumbnail reused",
			req:  service.CreateNoteRequest{URL: url},
			mockSetup: func(m noteMocks) {
				m.settings.EXPECT().Get(gomock.Any()).Return(testSettings, nil)
				m.videos.EXPECT().FetchVideo(gomock.Any(), "api-key", "abc123").Return(testVideo(), nil)
				m.vault.EXPECT().AttachmentFolder(gomock.Any()).Return("/", nil)
				m.vault.EXPECT().WriteAttachment("/", "Go Fast.jpg", gomock.Any(), true).
					Return("", vault.ErrFileExists)
				m.vault.EXPECT().WriteNote("Videos", "Go Fast.md", gomock.Any(), true).Return("Videos/Go Fast.md", nil)
				m.notes.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantPath:  "Videos/Go Fast.md",
			wantThumb: "Go Fast.jpg",
		},
		{
			name:      "empty url",
			req:       service.CreateNoteRequest{},
			mockSetup: func(m noteMocks) {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "url"
			},
		},
		{
			name:      "not a youtube url",
			req:       service.CreateNoteRequest{URL: "https://vimeo.com/123"},
			mockSetup: func(m noteMocks) {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "url"
			},
		},
		{
			name: "api key not configured",
			req:  service.CreateNoteRequest{URL: url},
			mockSetup: func(m noteMocks) {
				s := testSettings
				s.GoogleCloudAPIKey = ""
				m.settings.EXPECT().Get(gomock.Any()).Return(s, nil)
			},
			wantErr: true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "google_cloud_api_key"
			},
		},
		{
			name: "settings unavailable",
			req:  service.CreateNoteRequest{URL: url},
			mockSetup: func(m noteMocks) {
				m.settings.EXPECT().Get(gomock.Any()).Return(storage.Settings{}, errors.New("database locked"))
			},
			wantErr: true,
		},
		{
			name: "video not found",
			req:  service.CreateNoteRequest{URL: url},
			mockSetup: func(m noteMocks) {
				m.settings.EXPECT().Get(gomock.Any()).Return(testSettings, nil)
				m.videos.EXPECT().FetchVideo(gomock.Any(), "api-key", "abc123").Return(nil, youtube.ErrVideoNotFound)
			},
			wantErr: true,
			checkErrType: func(err error) bool {
				return errors.Is(err, service.ErrNotFound)
			},
		},
		{
			name: "youtube api failure",
			req:  service.CreateNoteRequest{URL: url},
			mockSetup: func(m noteMocks) {
				m.settings.EXPECT().Get(gomock.Any()).Return(testSettings, nil)
				m.videos.EXPECT().FetchVideo(gomock.Any(), "api-key", "abc123").
					Return(nil, &youtube.APIError{Op: "videos.list", VideoID: "abc123", Err: errors.New("quota exceeded")})
			},
			wantErr: true,
			checkErrType: func(err error) bool {
				return errors.Is(err, service.ErrExternalService)
			},
		},
		{
			name: "attachment folder needs active note",
			req:  service.CreateNoteRequest{URL: url},
			mockSetup: func(m noteMocks) {
				m.settings.EXPECT().Get(gomock.Any()).Return(testSettings, nil)
				m.videos.EXPECT().FetchVideo(gomock.Any(), "api-key", "abc123").Return(testVideo(), nil)
				m.vault.EXPECT().AttachmentFolder(gomock.Any()).Return("", vault.ErrNoActiveNote)
			},
			wantErr: true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "active_note"
			},
		},
		{
			name: "note already exists",
			req:  service.CreateNoteRequest{URL: url},
			mockSetup: func(m noteMocks) {
				m.settings.EXPECT().Get(gomock.Any()).Return(testSettings, nil)
				m.videos.EXPECT().FetchVideo(gomock.Any(), "api-key", "abc123").Return(testVideo(), nil)
				m.vault.EXPECT().AttachmentFolder(gomock.Any()).Return("/", nil)
				m.vault.EXPECT().WriteAttachment("/", "Go Fast.jpg", gomock.Any(), true).Return("Go Fast.jpg", nil)
				m.vault.EXPECT().WriteNote("Videos", "Go Fast.md", gomock.Any(), true).Return("", vault.ErrFileExists)
				m.vault.EXPECT().RemoveFile("Go Fast.jpg").Return(nil)
			},
			wantErr: true,
			checkErrType: func(err error) bool {
				return errors.Is(err, service.ErrConflict)
			},
		},
		{
			name: "missing folder without create paths",
			req:  service.CreateNoteRequest{URL: url},
			mockSetup: func(m noteMocks) {
				s := testSettings
				s.CreatePaths = false
				video := testVideo()
				video.Thumbnail = youtube.Thumbnail{}
				m.settings.EXPECT().Get(gomock.Any()).Return(s, nil)
				m.videos.EXPECT().FetchVideo(gomock.Any(), "api-key", "abc123").Return(video, nil)
				m.vault.EXPECT().WriteNote("Videos", "Go Fast.md", gomock.Any(), false).Return("", vault.ErrFolderNotFound)
			},
			wantErr: true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "folder"
			},
		},
		{
			name: "invalid frontmatter removes thumbnail",
			req:  service.CreateNoteRequest{URL: url},
			mockSetup: func(m noteMocks) {
				s := testSettings
				s.Template = "---\ntitle: {{title}}\n---\n"
				m.settings.EXPECT().Get(gomock.Any()).Return(s, nil)
				m.videos.EXPECT().FetchVideo(gomock.Any(), "api-key", "abc123").Return(testVideo(), nil)
				m.vault.EXPECT().AttachmentFolder(gomock.Any()).Return("/", nil)
				m.vault.EXPECT().WriteAttachment("/", "Go Fast.jpg", gomock.Any(), true).Return("Go Fast.jpg", nil)
				m.vault.EXPECT().RemoveFile("Go Fast.jpg").Return(nil)
			},
			wantErr: true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "template"
			},
		},
		{
			name: "history write fails",
			req:  service.CreateNoteRequest{URL: url},
			mockSetup: func(m noteMocks) {
				video := testVideo()
				video.Thumbnail = youtube.Thumbnail{}
				m.settings.EXPECT().Get(gomock.Any()).Return(testSettings, nil)
				m.videos.EXPECT().FetchVideo(gomock.Any(), "api-key", "abc123").Return(video, nil)
				m.vault.EXPECT().WriteNote("Videos", "Go Fast.md", gomock.Any(), true).Return("Videos/Go Fast.md", nil)
				m.notes.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newNoteService(t)
			tt.mockSetup(m)

			note, err := svc.CreateNote(testContext(), tt.req)

			if tt.wantErr {
				if err == nil {
					t.Fatal("CreateNote() expected error, got nil")
				}
				if tt.checkErrType != nil && !tt.checkErrType(err) {
					t.Errorf("CreateNote() error type check failed: %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("CreateNote() unexpected error: %v", err)
			}
			if note.Path != tt.wantPath {
				t.Errorf("CreateNote().Path = %q, want %q", note.Path, tt.wantPath)
			}
			if note.ThumbnailPath != tt.wantThumb {
				t.Errorf("CreateNote().ThumbnailPath = %q, want %q", note.ThumbnailPath, tt.wantThumb)
			}
			if note.VideoID != "abc123" || note.Title != `Go: "Fast"` {
				t.Errorf("CreateNote() = %+v, want video abc123", note)
			}
			if note.CreatedAt.IsZero() {
				t.Error("CreateNote().CreatedAt is zero")
			}
		})
	}
}

func TestNoteService_GetNote(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		mockSetup func(m noteMocks)
		wantErr   error
	}{
		{
			name: "found",
			id:   "note-1",
			mockSetup: func(m noteMocks) {
				m.notes.EXPECT().GetByID(gomock.Any(), "note-1").
					Return(&storage.NoteRecord{ID: "note-1", RelPath: "Videos/a.md"}, nil)
			},
		},
		{
			name: "not found",
			id:   "missing",
			mockSetup: func(m noteMocks) {
				m.notes.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, storage.ErrNotFound)
			},
			wantErr: service.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newNoteService(t)
			tt.mockSetup(m)

			note, err := svc.GetNote(testContext(), tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetNote() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetNote() unexpected error: %v", err)
			}
			if note.ID != tt.id || note.Path != "Videos/a.md" {
				t.Errorf("GetNote() = %+v", note)
			}
		})
	}

	t.Run("blank id", func(t *testing.T) {
		svc, _ := newNoteService(t)
		var validationErr *service.ValidationError
		if _, err := svc.GetNote(testContext(), " "); !errors.As(err, &validationErr) {
			t.Errorf("GetNote(blank) error = %v, want ValidationError", err)
		}
	})
}

func TestNoteService_ListNotes(t *testing.T) {
	svc, m := newNoteService(t)

	m.notes.EXPECT().List(gomock.Any(), 2).Return([]storage.NoteRecord{
		{ID: "b", Title: "Second"},
		{ID: "a", Title: "First"},
	}, nil)

	notes, err := svc.ListNotes(testContext(), 2)
	if err != nil {
		t.Fatalf("ListNotes() error = %v", err)
	}
	if len(notes) != 2 || notes[0].ID != "b" || notes[1].ID != "a" {
		t.Errorf("ListNotes() = %+v", notes)
	}

	var validationErr *service.ValidationError
	if _, err := svc.ListNotes(testContext(), -1); !errors.As(err, &validationErr) {
		t.Errorf("ListNotes(-1) error = %v, want ValidationError", err)
	}
}

func TestNoteService_PreviewNote(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(m noteMocks)
		wantErr   error
		wantHTML  string
	}{
		{
			name: "renders note body",
			mockSetup: func(m noteMocks) {
				m.notes.EXPECT().GetByID(gomock.Any(), "note-1").
					Return(&storage.NoteRecord{ID: "note-1", RelPath: "Videos/a.md"}, nil)
				m.vault.EXPECT().ReadNote("Videos/a.md").Return([]byte("---\ntitle: a\n---\n## Chapters\n"), nil)
			},
			wantHTML: `<h2 id="chapters">Chapters</h2>`,
		},
		{
			name: "note file deleted",
			mockSetup: func(m noteMocks) {
				m.notes.EXPECT().GetByID(gomock.Any(), "note-1").
					Return(&storage.NoteRecord{ID: "note-1", RelPath: "Videos/a.md"}, nil)
				m.vault.EXPECT().ReadNote("Videos/a.md").Return(nil, vault.ErrNotFound)
			},
			wantErr: service.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newNoteService(t)
			tt.mockSetup(m)

			preview, err := svc.PreviewNote(testContext(), "note-1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("PreviewNote() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("PreviewNote() unexpected error: %v", err)
			}
			if !strings.Contains(preview.HTML, tt.wantHTML) {
				t.Errorf("PreviewNote().HTML = %q, want to contain %q", preview.HTML, tt.wantHTML)
			}
			if strings.Contains(preview.HTML, "title: a") {
				t.Errorf("PreviewNote().HTML rendered frontmatter: %q", preview.HTML)
			}
		})
	}
}
