package internal

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SnapshotFormat is the on-disk encoding of a snapshot
type SnapshotFormat string

const (
	SnapshotFormatSQLite SnapshotFormat = "sqlite"
	SnapshotFormatYAML   SnapshotFormat = "yaml"
	SnapshotFormatJSON   SnapshotFormat = "json"
)

var sqliteHeader = []byte("SQLite format 3\x00")

// DetectSnapshotFormat sniffs the first bytes of the file at path.
// Text files that do not start with '{' or '[' are treated as YAML.
func DetectSnapshotFormat(path string) (SnapshotFormat, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &StorageError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", &StorageError{Path: path, Op: "read", Err: err}
	}
	head = head[:n]

	if bytes.HasPrefix(head, sqliteHeader) {
		return SnapshotFormatSQLite, nil
	}

	trimmed := bytes.TrimLeft(head, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return "", &StorageError{Path: path, Op: "read", Err: errors.New("empty snapshot file")}
	}
	if trimmed[0] == '{' || trimmed[0] == '[' || strings.EqualFold(filepath.Ext(path), ".json") {
		return SnapshotFormatJSON, nil
	}
	return SnapshotFormatYAML, nil
}

// CopySnapshot copies the snapshot at path (with its -wal and -shm files for
// SQLite stores) into a fresh temp directory. The returned cleanup removes it.
func CopySnapshot(path string) (string, func() error, error) {
	format, err := DetectSnapshotFormat(path)
	if err != nil {
		return "", nil, err
	}

	dir := filepath.Join(os.TempDir(), "chat-report-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", nil, &StorageError{Path: dir, Op: "copy", Err: err}
	}
	cleanup := func() error {
		return os.RemoveAll(dir)
	}

	dst := filepath.Join(dir, filepath.Base(path))
	if format == SnapshotFormatSQLite {
		err = copyDatabaseWithWAL(path, dst)
	} else {
		err = copyFile(path, dst)
	}
	if err != nil {
		_ = cleanup()
		return "", nil, &StorageError{Path: path, Op: "copy", Err: err}
	}

	LogDebug("Copied snapshot %s to %s", path, dst)
	return dst, cleanup, nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return err
	}
	return destFile.Close()
}

// copyDatabaseWithWAL copies a SQLite database and its WAL sidecars, then
// folds the WAL into the copy
func copyDatabaseWithWAL(src, dst string) error {
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to copy database: %w", err)
	}

	for _, suffix := range []string{"-wal", "-shm"} {
		if _, err := os.Stat(src + suffix); err != nil {
			continue
		}
		if err := copyFile(src+suffix, dst+suffix); err != nil {
			return fmt.Errorf("failed to copy %s file: %w", suffix, err)
		}
	}

	return checkpointWAL(dst)
}

// checkpointWAL merges the WAL file into the database. A missing database is created.
func checkpointWAL(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("wal checkpoint failed: %w", err)
	}
	return nil
}
