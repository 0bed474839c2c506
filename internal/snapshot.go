package internal

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iksnae/chat-report/internal/data"
)

// LoadRawSnapshot reads the snapshot at path, either a SQLite exportKV store
// or a YAML/JSON file
func LoadRawSnapshot(path string) (*RawSnapshot, error) {
	format, err := DetectSnapshotFormat(path)
	if err != nil {
		return nil, err
	}
	LogDebug("Detected %s snapshot: %s", format, path)

	if format == SnapshotFormatSQLite {
		db, err := OpenDatabase(path)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		raw, err := NewStorage(db).LoadRawSnapshot()
		if err != nil {
			return nil, &StorageError{Path: path, Op: "query", Err: err}
		}
		return raw, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "read", Err: err}
	}

	var raw RawSnapshot
	if format == SnapshotFormatJSON {
		err = json.Unmarshal(content, &raw)
	} else {
		err = yaml.Unmarshal(content, &raw)
	}
	if err != nil {
		return nil, &ParseError{Source: string(format), Key: path, Err: err}
	}
	return &raw, nil
}

// LoadSnapshot reads, normalizes and deduplicates the snapshot at path
func LoadSnapshot(path string) (*data.Snapshot, error) {
	raw, err := LoadRawSnapshot(path)
	if err != nil {
		return nil, err
	}

	normalizer := NewNormalizer()
	snapshot := normalizer.NormalizeSnapshot(raw)
	if skipped := normalizer.Skipped(); skipped > 0 {
		LogWarn("Skipped %d records that could not be exported", skipped)
	}

	deduplicator := NewDeduplicator()
	deduplicator.DeduplicateSnapshot(snapshot)
	if removed := deduplicator.Removed(); removed > 0 {
		LogInfo("Removed %d duplicate messages", removed)
	}

	return snapshot, nil
}
