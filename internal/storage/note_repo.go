package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_store.go -package=mocks ytnote/internal/storage NoteStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when a note ID is already taken.
	ErrAlreadyExists = errors.New("record already exists")
)

// NoteStore defines the interface for note history operations.
type NoteStore interface {
	// Create records a new note. A UUID is generated when note.ID is empty.
	// A record already held for note.RelPath is replaced, since the file it
	// described is gone. Returns ErrAlreadyExists if note.ID is taken.
	Create(ctx context.Context, note *NoteRecord) error
	// GetByID gets a note by ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*NoteRecord, error)
	// List returns the most recent notes first, at most limit of them.
	List(ctx context.Context, limit int) ([]NoteRecord, error)
}

// NoteRepo provides methods for note history operations.
// It implements the NoteStore interface.
type NoteRepo struct {
	db *sql.DB
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

// Create inserts a note record, filling in ID and CreatedAt when unset.
func (r *NoteRepo) Create(ctx context.Context, note *NoteRecord) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (id, video_id, title, rel_path, thumbnail_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(rel_path) DO UPDATE SET
		   id = excluded.id,
		   video_id = excluded.video_id,
		   title = excluded.title,
		   thumbnail_path = excluded.thumbnail_path,
		   created_at = excluded.created_at`,
		note.ID, note.VideoID, note.Title, note.RelPath, note.ThumbnailPath, note.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("note %s: %w", note.ID, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert note: %w", err)
	}

	return nil
}

// GetByID gets a note by ID.
func (r *NoteRepo) GetByID(ctx context.Context, id string) (*NoteRecord, error) {
	var note NoteRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, video_id, title, rel_path, thumbnail_path, created_at FROM notes WHERE id = ?",
		id,
	).Scan(&note.ID, &note.VideoID, &note.Title, &note.RelPath, &note.ThumbnailPath, &note.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}

	return &note, nil
}

// List returns up to limit notes, newest first. A non-positive limit returns all notes.
func (r *NoteRepo) List(ctx context.Context, limit int) ([]NoteRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, video_id, title, rel_path, thumbnail_path, created_at
		 FROM notes ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var notes []NoteRecord
	for rows.Next() {
		var note NoteRecord
		if err := rows.Scan(&note.ID, &note.VideoID, &note.Title, &note.RelPath, &note.ThumbnailPath, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return notes, nil
}
