package internal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record key prefixes of the exportKV store
const (
	KeyPersonal = "personal"
	KeyUserpic  = "userpic:"
	KeyContact  = "contact:"
	KeyFrequent = "frequent:"
	KeySession  = "session:"
	KeyPeer     = "peer:"
	KeyDialog   = "dialog:"
	KeyLeft     = "left:"
	KeyMessage  = "message:"
)

// RawSnapshot is an extracted account archive as stored on disk
type RawSnapshot struct {
	Personal     *RawPersonal `json:"personal,omitempty" yaml:"personal,omitempty"`
	Userpics     []RawPhoto   `json:"userpics,omitempty" yaml:"userpics,omitempty"`
	Contacts     []RawContact `json:"contacts,omitempty" yaml:"contacts,omitempty"`
	Frequent     []RawTopPeer `json:"frequent,omitempty" yaml:"frequent,omitempty"`
	Sessions     []RawSession `json:"sessions,omitempty" yaml:"sessions,omitempty"`
	Peers        []RawPeer    `json:"peers,omitempty" yaml:"peers,omitempty"`
	Dialogs      []RawDialog  `json:"dialogs,omitempty" yaml:"dialogs,omitempty"`
	LeftChannels []RawDialog  `json:"leftChannels,omitempty" yaml:"leftChannels,omitempty"`
}

// RawUser is a user profile record
type RawUser struct {
	ID        int32  `json:"id" yaml:"id"`
	FirstName string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Username  string `json:"username,omitempty" yaml:"username,omitempty"`
	Bot       bool   `json:"bot,omitempty" yaml:"bot,omitempty"`
}

// RawPersonal is the account owner record
type RawPersonal struct {
	RawUser `yaml:",inline"`
	Bio     string `json:"bio,omitempty" yaml:"bio,omitempty"`
}

// RawPeer is a user or chat referenced by messages. Ref is "user<id>" or "chat<id>".
type RawPeer struct {
	Ref       string `json:"ref" yaml:"ref"`
	FirstName string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Username  string `json:"username,omitempty" yaml:"username,omitempty"`
	Bot       bool   `json:"bot,omitempty" yaml:"bot,omitempty"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Broadcast bool   `json:"broadcast,omitempty" yaml:"broadcast,omitempty"`
}

// RawPhoto is a profile photo or photo attachment.
// Skip names why the file is missing: "unavailable", "file_size" or "file_type".
type RawPhoto struct {
	ID     int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Date   int64  `json:"date,omitempty" yaml:"date,omitempty"`
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Skip   string `json:"skip,omitempty" yaml:"skip,omitempty"`
}

// RawContact is a saved contact
type RawContact struct {
	FirstName string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Date      int64  `json:"date,omitempty" yaml:"date,omitempty"`
}

// RawTopPeer is a frequent contacts entry.
// Category is "correspondents", "inline_bots" or "calls".
type RawTopPeer struct {
	Category string  `json:"category" yaml:"category"`
	Peer     string  `json:"peer" yaml:"peer"`
	Rating   float64 `json:"rating" yaml:"rating"`
}

// RawSession is an authorized device
type RawSession struct {
	Platform      string `json:"platform,omitempty" yaml:"platform,omitempty"`
	DeviceModel   string `json:"deviceModel,omitempty" yaml:"deviceModel,omitempty"`
	SystemVersion string `json:"systemVersion,omitempty" yaml:"systemVersion,omitempty"`
	AppName       string `json:"appName,omitempty" yaml:"appName,omitempty"`
	AppVersion    string `json:"appVersion,omitempty" yaml:"appVersion,omitempty"`
	Created       int64  `json:"created,omitempty" yaml:"created,omitempty"`
	LastActive    int64  `json:"lastActive,omitempty" yaml:"lastActive,omitempty"`
	IP            string `json:"ip,omitempty" yaml:"ip,omitempty"`
	Country       string `json:"country,omitempty" yaml:"country,omitempty"`
	Region        string `json:"region,omitempty" yaml:"region,omitempty"`
}

// RawDialog is a chat with its messages. In the exportKV store messages
// are kept as separate records and attached by ID.
type RawDialog struct {
	ID             string       `json:"id,omitempty" yaml:"id,omitempty"`
	Type           string       `json:"type" yaml:"type"`
	Name           string       `json:"name,omitempty" yaml:"name,omitempty"`
	Path           string       `json:"path,omitempty" yaml:"path,omitempty"`
	OnlyMyMessages bool         `json:"onlyMyMessages,omitempty" yaml:"onlyMyMessages,omitempty"`
	Messages       []RawMessage `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// RawMessage is one message. ForwardedFrom is a peer ref.
type RawMessage struct {
	ID            int32      `json:"id" yaml:"id"`
	DialogID      string     `json:"-" yaml:"-"`
	Date          int64      `json:"date,omitempty" yaml:"date,omitempty"`
	Edited        int64      `json:"edited,omitempty" yaml:"edited,omitempty"`
	From          int32      `json:"from,omitempty" yaml:"from,omitempty"`
	ReplyTo       int32      `json:"replyTo,omitempty" yaml:"replyTo,omitempty"`
	ForwardedFrom string     `json:"forwardedFrom,omitempty" yaml:"forwardedFrom,omitempty"`
	ViaBot        int32      `json:"viaBot,omitempty" yaml:"viaBot,omitempty"`
	Signature     string     `json:"signature,omitempty" yaml:"signature,omitempty"`
	Text          string     `json:"text,omitempty" yaml:"text,omitempty"`
	Action        *RawAction `json:"action,omitempty" yaml:"action,omitempty"`
	Media         *RawMedia  `json:"media,omitempty" yaml:"media,omitempty"`
}

// RawAction is a service message action. Type selects which fields apply.
type RawAction struct {
	Type     string    `json:"type" yaml:"type"`
	Title    string    `json:"title,omitempty" yaml:"title,omitempty"`
	Users    []int32   `json:"users,omitempty" yaml:"users,omitempty"`
	User     int32     `json:"user,omitempty" yaml:"user,omitempty"`
	Inviter  int32     `json:"inviter,omitempty" yaml:"inviter,omitempty"`
	Channel  int32     `json:"channel,omitempty" yaml:"channel,omitempty"`
	Chat     int32     `json:"chat,omitempty" yaml:"chat,omitempty"`
	Photo    *RawPhoto `json:"photo,omitempty" yaml:"photo,omitempty"`
	Game     int64     `json:"game,omitempty" yaml:"game,omitempty"`
	Score    int32     `json:"score,omitempty" yaml:"score,omitempty"`
	Currency string    `json:"currency,omitempty" yaml:"currency,omitempty"`
	Amount   uint64    `json:"amount,omitempty" yaml:"amount,omitempty"`
	Duration int32     `json:"duration,omitempty" yaml:"duration,omitempty"`
	Reason   string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	Message  string    `json:"message,omitempty" yaml:"message,omitempty"`
	Domain   string    `json:"domain,omitempty" yaml:"domain,omitempty"`
	Values   []string  `json:"values,omitempty" yaml:"values,omitempty"`
}

// RawMedia is a message attachment. Type selects which fields apply;
// Kind refines a document ("sticker", "video_message", "voice_message",
// "animation", "video_file", "audio_file").
type RawMedia struct {
	Type        string      `json:"type" yaml:"type"`
	TTL         int32       `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	Photo       *RawPhoto   `json:"photo,omitempty" yaml:"photo,omitempty"`
	Path        string      `json:"path,omitempty" yaml:"path,omitempty"`
	Skip        string      `json:"skip,omitempty" yaml:"skip,omitempty"`
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Mime        string      `json:"mime,omitempty" yaml:"mime,omitempty"`
	Kind        string      `json:"kind,omitempty" yaml:"kind,omitempty"`
	Emoji       string      `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Performer   string      `json:"performer,omitempty" yaml:"performer,omitempty"`
	Title       string      `json:"title,omitempty" yaml:"title,omitempty"`
	Width       int         `json:"width,omitempty" yaml:"width,omitempty"`
	Height      int         `json:"height,omitempty" yaml:"height,omitempty"`
	Duration    int32       `json:"duration,omitempty" yaml:"duration,omitempty"`
	Contact     *RawContact `json:"contact,omitempty" yaml:"contact,omitempty"`
	Latitude    *float64    `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude   *float64    `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	Address     string      `json:"address,omitempty" yaml:"address,omitempty"`
	GameID      int64       `json:"gameId,omitempty" yaml:"gameId,omitempty"`
	ShortName   string      `json:"shortName,omitempty" yaml:"shortName,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Bot         int32       `json:"bot,omitempty" yaml:"bot,omitempty"`
	Currency    string      `json:"currency,omitempty" yaml:"currency,omitempty"`
	Amount      uint64      `json:"amount,omitempty" yaml:"amount,omitempty"`
	Receipt     int32       `json:"receipt,omitempty" yaml:"receipt,omitempty"`
}

// ParseRecord decodes a JSON value of an exportKV record into v
func ParseRecord(key, value string, v interface{}) error {
	if err := json.Unmarshal([]byte(value), v); err != nil {
		return &ParseError{Source: "exportKV", Key: key, Err: err}
	}
	return nil
}

// ParseRawPeer parses a peer record, key format: peer:<ref>
func ParseRawPeer(key, value string) (*RawPeer, error) {
	parts := splitKey(key, KeyPeer)
	if len(parts) != 2 || parts[1] == "" {
		return nil, &ParseError{Source: "exportKV", Key: key, Err: fmt.Errorf("invalid peer key format")}
	}

	var peer RawPeer
	if err := ParseRecord(key, value, &peer); err != nil {
		return nil, err
	}
	peer.Ref = parts[1]

	return &peer, nil
}

// ParseRawDialog parses a dialog record, key format: dialog:<id> or left:<id>
func ParseRawDialog(key, value string) (*RawDialog, error) {
	parts := splitKey(key, KeyDialog)
	if parts == nil {
		parts = splitKey(key, KeyLeft)
	}
	if len(parts) != 2 || parts[1] == "" {
		return nil, &ParseError{Source: "exportKV", Key: key, Err: fmt.Errorf("invalid dialog key format")}
	}

	var dialog RawDialog
	if err := ParseRecord(key, value, &dialog); err != nil {
		return nil, err
	}
	dialog.ID = parts[1]

	return &dialog, nil
}

// ParseRawMessage parses a message record, key format: message:<dialogId>:<messageId>
func ParseRawMessage(key, value string) (*RawMessage, error) {
	parts := splitKey(key, KeyMessage)
	if len(parts) != 3 || parts[1] == "" {
		return nil, &ParseError{Source: "exportKV", Key: key, Err: fmt.Errorf("invalid message key format")}
	}
	id, err := strconv.ParseInt(parts[2], 10, 32)
	if err != nil {
		return nil, &ParseError{Source: "exportKV", Key: key, Err: fmt.Errorf("invalid message id: %w", err)}
	}

	var message RawMessage
	if err := ParseRecord(key, value, &message); err != nil {
		return nil, err
	}
	message.DialogID = parts[1]
	message.ID = int32(id)

	return &message, nil
}

// splitKey splits a key by prefix and returns [prefix, part1, part2, ...]
func splitKey(key, prefix string) []string {
	if !strings.HasPrefix(key, prefix) {
		return nil
	}
	return append([]string{""}, strings.Split(key[len(prefix):], ":")...)
}
