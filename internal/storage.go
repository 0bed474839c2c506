package internal

import (
	"database/sql"
	"fmt"
)

// Storage provides methods to extract raw records from the exportKV table
type Storage struct {
	db *sql.DB
}

// NewStorage creates a new Storage instance
func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// LoadRawSnapshot loads every record of the store. Malformed records are
// logged and skipped.
func (s *Storage) LoadRawSnapshot() (*RawSnapshot, error) {
	var raw RawSnapshot
	var err error

	if raw.Personal, err = s.LoadPersonal(); err != nil {
		return nil, err
	}
	if raw.Userpics, err = loadRecords[RawPhoto](s, KeyUserpic); err != nil {
		return nil, err
	}
	if raw.Contacts, err = loadRecords[RawContact](s, KeyContact); err != nil {
		return nil, err
	}
	if raw.Frequent, err = loadRecords[RawTopPeer](s, KeyFrequent); err != nil {
		return nil, err
	}
	if raw.Sessions, err = loadRecords[RawSession](s, KeySession); err != nil {
		return nil, err
	}
	if raw.Peers, err = s.LoadPeers(); err != nil {
		return nil, err
	}
	if raw.Dialogs, err = s.LoadDialogs(KeyDialog); err != nil {
		return nil, err
	}
	if raw.LeftChannels, err = s.LoadDialogs(KeyLeft); err != nil {
		return nil, err
	}

	messages, err := s.LoadMessages()
	if err != nil {
		return nil, err
	}
	attached := attachMessages(raw.Dialogs, messages) + attachMessages(raw.LeftChannels, messages)
	for dialogID, list := range messages {
		LogWarn("Skipping %d messages of unknown dialog %s", len(list), dialogID)
	}

	LogDebug("Loaded %d dialogs, %d left chats and %d messages", len(raw.Dialogs), len(raw.LeftChannels), attached)
	return &raw, nil
}

// LoadPersonal loads the account owner record, nil when absent
func (s *Storage) LoadPersonal() (*RawPersonal, error) {
	pairs, err := QueryExportKV(s.db, KeyPersonal)
	if err != nil {
		return nil, fmt.Errorf("failed to query personal info: %w", err)
	}
	if len(pairs) == 0 {
		return nil, nil
	}

	var personal RawPersonal
	if err := ParseRecord(pairs[0].Key, pairs[0].Value, &personal); err != nil {
		LogWarn("Skipping personal info: %v", err)
		return nil, nil
	}
	return &personal, nil
}

// LoadPeers loads all peer records
func (s *Storage) LoadPeers() ([]RawPeer, error) {
	pairs, err := QueryExportKV(s.db, KeyPeer+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query peers: %w", err)
	}

	peers := make([]RawPeer, 0, len(pairs))
	for _, pair := range pairs {
		peer, err := ParseRawPeer(pair.Key, pair.Value)
		if err != nil {
			LogWarn("Skipping record: %v", err)
			continue
		}
		peers = append(peers, *peer)
	}
	return peers, nil
}

// LoadDialogs loads dialog records stored under prefix (KeyDialog or KeyLeft)
func (s *Storage) LoadDialogs(prefix string) ([]RawDialog, error) {
	pairs, err := QueryExportKV(s.db, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query dialogs: %w", err)
	}

	dialogs := make([]RawDialog, 0, len(pairs))
	for _, pair := range pairs {
		dialog, err := ParseRawDialog(pair.Key, pair.Value)
		if err != nil {
			LogWarn("Skipping record: %v", err)
			continue
		}
		dialogs = append(dialogs, *dialog)
	}
	return dialogs, nil
}

// LoadMessages loads all message records grouped by dialog ID
func (s *Storage) LoadMessages() (map[string][]RawMessage, error) {
	pairs, err := QueryExportKV(s.db, KeyMessage+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}

	messages := make(map[string][]RawMessage)
	for _, pair := range pairs {
		message, err := ParseRawMessage(pair.Key, pair.Value)
		if err != nil {
			LogWarn("Skipping record: %v", err)
			continue
		}
		messages[message.DialogID] = append(messages[message.DialogID], *message)
	}
	return messages, nil
}

func loadRecords[T any](s *Storage, prefix string) ([]T, error) {
	pairs, err := QueryExportKV(s.db, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", prefix, err)
	}

	records := make([]T, 0, len(pairs))
	for _, pair := range pairs {
		var record T
		if err := ParseRecord(pair.Key, pair.Value, &record); err != nil {
			LogWarn("Skipping record: %v", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// attachMessages moves the messages of each dialog out of messages and
// returns how many were attached
func attachMessages(dialogs []RawDialog, messages map[string][]RawMessage) int {
	count := 0
	for i := range dialogs {
		list, ok := messages[dialogs[i].ID]
		if !ok {
			continue
		}
		dialogs[i].Messages = append(dialogs[i].Messages, list...)
		delete(messages, dialogs[i].ID)
		count += len(list)
	}
	return count
}
