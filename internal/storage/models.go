package storage

import "time"

// Settings are the user-editable options that drive note creation.
type Settings struct {
	GoogleCloudAPIKey string
	Folder            string // Vault folder new notes are written to ("/" is the root)
	ChapterFormat     string // Line format for each chapter, supports {{chapter}}
	HashtagFormat     string // Format for each hashtag, supports {{hashtag}}
	Template          string // Note template
	CreatePaths       bool   // Create missing note and attachment folders
}

// NoteRecord is a note created from a video.
type NoteRecord struct {
	ID            string // UUID
	VideoID       string
	Title         string
	RelPath       string // Path of the note relative to the vault root
	ThumbnailPath string // Vault-relative thumbnail path, empty when none was saved
	CreatedAt     time.Time
}
