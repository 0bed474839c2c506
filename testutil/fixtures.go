package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateSQLiteFixture creates a snapshot store at dbPath holding SampleRecords
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	CreateSQLiteFixtureWithRecords(t, dbPath, SampleRecords())
}

// CreateSQLiteFixtureWithRecords creates a snapshot store at dbPath holding records
func CreateSQLiteFixtureWithRecords(t *testing.T, dbPath string, records []Record) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(createExportKVSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	InsertRecords(t, db, records)
}

// CreateFileFixture writes data to path, creating parent directories
func CreateFileFixture(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", path, err)
	}
}

// SampleYAMLSnapshot is a snapshot file covering a dialog with a service message
const SampleYAMLSnapshot = `personal:
  id: 1
  firstName: Ann
  lastName: Lee
  phone: "15551234567"
peers:
  - ref: user1
    firstName: Ann
    lastName: Lee
  - ref: user2
    firstName: Bob
dialogs:
  - id: "1"
    type: personal
    name: Bob
    path: chats/chat_1/
    messages:
      - id: 1
        date: 1500000000
        from: 2
        text: |-
          Hi
          Ann
      - id: 2
        date: 1500000060
        from: 1
        action:
          type: phone_call
          duration: 65
          reason: hangup
`
