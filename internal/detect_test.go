package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/chat-report/testutil"
)

func TestDetectSnapshotFormat(t *testing.T) {
	tmpDir := testutil.CreateTempDir(t)

	sqlitePath := filepath.Join(tmpDir, "snapshot.db")
	testutil.CreateSQLiteFixture(t, sqlitePath)

	tests := []struct {
		name    string
		path    string
		content string
		want    SnapshotFormat
		wantErr bool
	}{
		{name: "sqlite", path: sqlitePath, want: SnapshotFormatSQLite},
		{name: "json object", path: "a.txt", content: "  {\"dialogs\": []}", want: SnapshotFormatJSON},
		{name: "json by extension", path: "b.json", content: "null", want: SnapshotFormatJSON},
		{name: "yaml", path: "c.yaml", content: "dialogs: []\n", want: SnapshotFormatYAML},
		{name: "yaml without extension", path: "snapshot", content: "personal:\n  id: 1\n", want: SnapshotFormatYAML},
		{name: "empty", path: "d.yaml", content: " \n", wantErr: true},
		{name: "missing", path: "missing.yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if !filepath.IsAbs(path) {
				path = filepath.Join(tmpDir, path)
				if tt.content != "" {
					testutil.CreateFileFixture(t, path, []byte(tt.content))
				}
			}

			got, err := DetectSnapshotFormat(path)
			if (err != nil) != tt.wantErr {
				t.Errorf("DetectSnapshotFormat() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				var storageErr *StorageError
				if !errors.As(err, &storageErr) {
					t.Errorf("DetectSnapshotFormat() error = %T, want *StorageError", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("DetectSnapshotFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectSnapshotFormat_EmptyFile(t *testing.T) {
	path := filepath.Join(testutil.CreateTempDir(t), "empty.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	if _, err := DetectSnapshotFormat(path); err == nil {
		t.Error("DetectSnapshotFormat() error = nil, want error for empty file")
	}
}
