package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const createExportKVSQL = `
	CREATE TABLE IF NOT EXISTS exportKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`

// Record is one row of the exportKV table
type Record struct {
	Key   string
	Value string
}

// SampleRecords returns a small but complete snapshot: personal info, a
// userpic, contacts, a frequent peer, a session, peers, two dialogs, one
// left chat and their messages.
func SampleRecords() []Record {
	return []Record{
		{"personal", `{"id":1,"firstName":"Ann","lastName":"Lee","phone":"15551234567","username":"annlee","bio":"Hello there"}`},
		{"userpic:1", `{"id":100,"date":1500000000,"width":640,"height":640,"path":"profile_pictures/photo_1.jpg"}`},
		{"contact:1", `{"firstName":"bob","lastName":"Stone","phone":"15550001111","date":1500000000}`},
		{"contact:2", `{"firstName":"Alice","phone":"15550002222"}`},
		{"frequent:1", `{"category":"correspondents","peer":"user2","rating":0.5}`},
		{"session:1", `{"platform":"Linux","deviceModel":"Desktop","appName":"Chat Desktop","appVersion":"1.0","created":1500000000,"lastActive":1500003600,"ip":"10.0.0.1","country":"NL"}`},
		{"peer:user1", `{"firstName":"Ann","lastName":"Lee"}`},
		{"peer:user2", `{"firstName":"Bob","lastName":"Stone","username":"bobs"}`},
		{"peer:chat40", `{"title":"News","broadcast":true}`},
		{"dialog:1", `{"type":"personal","name":"Bob Stone","path":"chats/chat_1/"}`},
		{"dialog:2", `{"type":"public_channel","name":"News"}`},
		{"left:3", `{"type":"private_group","name":"Old group","path":"chats/left_3/"}`},
		{"message:1:1", `{"date":1500000000,"from":2,"text":"Hi Ann"}`},
		{"message:1:2", `{"date":1500000060,"from":1,"replyTo":1,"text":"Hi Bob","media":{"type":"photo","photo":{"path":"chats/chat_1/photos/photo_1.jpg","width":10,"height":20}}}`},
		{"message:1:3", `{"date":1500000120,"from":1,"action":{"type":"pin_message"}}`},
		{"message:2:1", `{"date":1500000000,"text":"Breaking","media":{"type":"poll"}}`},
		{"message:3:1", `{"date":1400000000,"from":2,"action":{"type":"chat_create","title":"Old group","users":[1,2]}}`},
	}
}

// CreateInMemoryDB creates an in-memory SQLite database with an empty exportKV table
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// every pooled connection would get its own empty database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createExportKVSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create exportKV table: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// CreateTestDB creates an in-memory database holding SampleRecords
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)
	InsertRecords(t, db, SampleRecords())
	return db
}

// InsertRecord inserts one record into the exportKV table
func InsertRecord(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO exportKV (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert record %s: %v", key, err)
	}
}

// InsertRecords inserts records in order
func InsertRecords(t *testing.T, db *sql.DB, records []Record) {
	t.Helper()
	stmt, err := db.Prepare("INSERT INTO exportKV (key, value) VALUES (?, ?)")
	if err != nil {
		t.Fatalf("Failed to prepare insert statement: %v", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if _, err := stmt.Exec(record.Key, record.Value); err != nil {
			t.Fatalf("Failed to insert record %s: %v", record.Key, err)
		}
	}
}
