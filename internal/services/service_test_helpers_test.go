package services

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}

	return db
}

func createCommentsTable(t *testing.T, db *gorm.DB) {
	t.Helper()

	query := `CREATE TABLE comments (
		id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
		comment_id TEXT NOT NULL UNIQUE,
		tracking_number TEXT,
		country TEXT,
		state_or_province TEXT,
		zip_code TEXT,
		document_category TEXT,
		document_subtype TEXT,
		received_date TEXT,
		detail_url TEXT,
		title TEXT,
		object_id TEXT,
		agency_id TEXT,
		docket_id TEXT,
		open_for_comment BOOLEAN,
		comment_on_document_id TEXT,
		withdrawn BOOLEAN,
		restrict_reason TEXT,
		restrict_reason_type TEXT,
		comment_text TEXT,
		plain_text TEXT,
		fetched_at DATETIME NOT NULL
	)`
	if err := db.Exec(query).Error; err != nil {
		t.Fatalf("create comments table: %v", err)
	}
}

func createLogsTable(t *testing.T, db *gorm.DB) {
	t.Helper()

	query := "CREATE TABLE logs (id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))), event_id TEXT, datetime DATETIME NOT NULL, action TEXT NOT NULL, outcome TEXT NOT NULL, message TEXT)"
	if err := db.Exec(query).Error; err != nil {
		t.Fatalf("create logs table: %v", err)
	}
}

func createDocketsTable(t *testing.T, db *gorm.DB) {
	t.Helper()

	query := "CREATE TABLE dockets (id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))), comment_on_id TEXT NOT NULL, docket_id TEXT, posted_from TEXT, posted_to TEXT, comment TEXT)"
	if err := db.Exec(query).Error; err != nil {
		t.Fatalf("create dockets table: %v", err)
	}
}

func createExportFilesTable(t *testing.T, db *gorm.DB) {
	t.Helper()

	query := `CREATE TABLE export_files (id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))), filename TEXT NOT NULL UNIQUE, format TEXT NOT NULL, "rows" INTEGER NOT NULL, checksum TEXT NOT NULL, event_id TEXT, exported_at DATETIME NOT NULL)`
	if err := db.Exec(query).Error; err != nil {
		t.Fatalf("create export_files table: %v", err)
	}
}

type loggedEntry struct {
	eventID *string
	action  string
	outcome string
	message *string
}

type stubLogWriter struct {
	entries []loggedEntry
}

func (s *stubLogWriter) CreateLog(ctx context.Context, eventID *string, action string, outcome string, message *string) error {
	var copiedEvent *string
	if eventID != nil {
		value := *eventID
		copiedEvent = &value
	}

	var copiedMsg *string
	if message != nil {
		value := *message
		copiedMsg = &value
	}

	s.entries = append(s.entries, loggedEntry{
		eventID: copiedEvent,
		action:  action,
		outcome: outcome,
		message: copiedMsg,
	})
	return nil
}

func (s *stubLogWriter) countByAction(action string) int {
	count := 0
	for _, entry := range s.entries {
		if entry.action == action {
			count++
		}
	}
	return count
}
