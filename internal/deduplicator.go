package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/iksnae/chat-report/internal/data"
)

// Deduplicator removes repeated messages from dialogs
type Deduplicator struct {
	removed int
}

// NewDeduplicator creates a new Deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Removed returns how many messages were dropped so far
func (d *Deduplicator) Removed() int {
	return d.removed
}

// DeduplicateSnapshot deduplicates the messages of every dialog in place
func (d *Deduplicator) DeduplicateSnapshot(snapshot *data.Snapshot) {
	for i := range snapshot.Dialogs {
		snapshot.Dialogs[i].Messages = d.Deduplicate(snapshot.Dialogs[i].Info.Name, snapshot.Dialogs[i].Messages)
	}
	for i := range snapshot.LeftChannels {
		snapshot.LeftChannels[i].Messages = d.Deduplicate(snapshot.LeftChannels[i].Info.Name, snapshot.LeftChannels[i].Messages)
	}
}

// Deduplicate keeps the first message of every ID, preserving order.
// Copies whose content differs from the kept one are logged.
func (d *Deduplicator) Deduplicate(dialog string, messages []data.Message) []data.Message {
	seen := make(map[int32]string, len(messages))
	unique := messages[:0:0]

	for _, message := range messages {
		hash := d.hashMessageContent(&message)
		if kept, ok := seen[message.ID]; ok {
			d.removed++
			if kept != hash {
				LogWarn("Dialog %q has conflicting copies of message %d, keeping the first", dialog, message.ID)
			}
			continue
		}
		seen[message.ID] = hash
		unique = append(unique, message)
	}

	return unique
}

// hashMessageContent creates a content-based hash for a message
func (d *Deduplicator) hashMessageContent(message *data.Message) string {
	h := sha256.New()

	fmt.Fprintf(h, "%d|%d|%d|%d|%d|%d|", message.Date, message.Edited, message.FromID,
		message.ReplyToMsgID, message.ForwardedFromID, message.ViaBotID)
	h.Write([]byte(message.Signature))
	h.Write([]byte{0})
	h.Write([]byte(message.Text))
	h.Write([]byte{0})
	fmt.Fprintf(h, "%#v|%#v|%d", message.Action, message.Media.Content, message.Media.TTL)

	return hex.EncodeToString(h.Sum(nil))
}
