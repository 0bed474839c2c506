package internal

import (
	"errors"
	"reflect"
	"testing"

	"github.com/iksnae/chat-report/internal/data"
)

func float(v float64) *float64 { return &v }

func TestParsePeerRef(t *testing.T) {
	tests := []struct {
		ref     string
		want    data.PeerID
		wantErr bool
	}{
		{"user10", data.UserPeerID(10), false},
		{"chat40", data.ChatPeerID(40), false},
		{"channel1", 0, true},
		{"user", 0, true},
		{"userX", 0, true},
		{"user99999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ParsePeerRef(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePeerRef() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParsePeerRef() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizer_NormalizePeers(t *testing.T) {
	n := NewNormalizer()
	peers := n.NormalizePeers([]RawPeer{
		{Ref: "user10", FirstName: "Ann", LastName: "Lee", Username: "ann"},
		{Ref: "user20", FirstName: "Quiz", Bot: true},
		{Ref: "chat40", Title: "News", Broadcast: true},
		{Ref: "bogus"},
	})

	if len(peers) != 3 {
		t.Fatalf("NormalizePeers() returned %d peers, want 3", len(peers))
	}
	if got := peers[data.UserPeerID(10)].Name(); got != "Ann Lee" {
		t.Errorf("user10 name = %q, want Ann Lee", got)
	}
	if !peers[data.UserPeerID(20)].User.IsBot {
		t.Error("user20 should be a bot")
	}
	if chat := peers[data.ChatPeerID(40)].Chat; chat == nil || !chat.Broadcast || chat.Title != "News" {
		t.Errorf("chat40 = %+v, want broadcast News", chat)
	}
	if n.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", n.Skipped())
	}
}

func TestNormalizer_NormalizeMessage_Actions(t *testing.T) {
	tests := []struct {
		name   string
		action RawAction
		want   data.ActionContent
	}{
		{"create", RawAction{Type: "chat_create", Title: "G", Users: []int32{1, 2}}, data.ChatCreate{Title: "G", UserIDs: []int32{1, 2}}},
		{"edit title", RawAction{Type: "chat_edit_title", Title: "T"}, data.ChatEditTitle{Title: "T"}},
		{"delete photo", RawAction{Type: "chat_delete_photo"}, data.ChatDeletePhoto{}},
		{"add user", RawAction{Type: "chat_add_user", Users: []int32{3}}, data.ChatAddUser{UserIDs: []int32{3}}},
		{"delete user", RawAction{Type: "chat_delete_user", User: 3}, data.ChatDeleteUser{UserID: 3}},
		{"joined by link", RawAction{Type: "chat_joined_by_link", Inviter: 4}, data.ChatJoinedByLink{InviterID: 4}},
		{"channel create", RawAction{Type: "channel_create", Title: "C"}, data.ChannelCreate{Title: "C"}},
		{"migrate to", RawAction{Type: "chat_migrate_to", Channel: 5}, data.ChatMigrateTo{ChannelID: 5}},
		{"migrate from", RawAction{Type: "channel_migrate_from", Title: "Old", Chat: 6}, data.ChannelMigrateFrom{Title: "Old", ChatID: 6}},
		{"pin", RawAction{Type: "pin_message"}, data.PinMessage{}},
		{"clear", RawAction{Type: "history_clear"}, data.HistoryClear{}},
		{"score", RawAction{Type: "game_score", Game: 7, Score: 100}, data.GameScore{GameID: 7, Score: 100}},
		{"payment", RawAction{Type: "payment_sent", Currency: "USD", Amount: 500}, data.PaymentSent{Currency: "USD", Amount: 500}},
		{"call", RawAction{Type: "phone_call", Duration: 30, Reason: "busy"}, data.PhoneCall{Duration: 30, DiscardReason: data.DiscardReasonBusy}},
		{"call unknown reason", RawAction{Type: "phone_call", Reason: "aliens"}, data.PhoneCall{DiscardReason: data.DiscardReasonUnknown}},
		{"screenshot", RawAction{Type: "screenshot_taken"}, data.ScreenshotTaken{}},
		{"custom", RawAction{Type: "custom_action", Message: "hi"}, data.CustomAction{Message: "hi"}},
		{"bot allowed", RawAction{Type: "bot_allowed", Domain: "example.org"}, data.BotAllowed{Domain: "example.org"}},
		{"secure values", RawAction{Type: "secure_values_sent", Values: []string{"passport", "email", "dna"}},
			data.SecureValuesSent{Types: []data.SecureValueType{data.SecureValuePassport, data.SecureValueEmail, data.SecureValueUnknown}}},
		{"edit photo without photo", RawAction{Type: "chat_edit_photo"},
			data.ChatEditPhoto{Photo: data.Photo{Image: data.Image{File: data.File{SkipReason: data.SkipReasonUnavailable}}}}},
	}

	n := NewNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := tt.action
			message, err := n.NormalizeMessage(RawMessage{ID: 1, Action: &action})
			if err != nil {
				t.Fatalf("NormalizeMessage() error = %v", err)
			}
			if !reflect.DeepEqual(message.Action, tt.want) {
				t.Errorf("NormalizeMessage() action = %#v, want %#v", message.Action, tt.want)
			}
		})
	}
}

func TestNormalizer_NormalizeMessage_UnknownAction(t *testing.T) {
	_, err := NewNormalizer().NormalizeMessage(RawMessage{ID: 9, Action: &RawAction{Type: "gift_sent"}})

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("NormalizeMessage() error = %v, want *ParseError", err)
	}
	if parseErr.Key != "9" {
		t.Errorf("ParseError.Key = %q, want 9", parseErr.Key)
	}
}

func TestNormalizer_NormalizeMessage_Media(t *testing.T) {
	tests := []struct {
		name  string
		media RawMedia
		want  data.MediaContent
	}{
		{
			name:  "photo",
			media: RawMedia{Type: "photo", Photo: &RawPhoto{Width: 10, Height: 20, Path: "p.jpg"}},
			want:  data.Photo{Image: data.Image{Width: 10, Height: 20, File: data.File{RelativePath: "p.jpg"}}},
		},
		{
			name:  "voice message",
			media: RawMedia{Type: "document", Kind: "voice_message", Path: "v.ogg", Duration: 3},
			want:  data.Document{File: data.File{RelativePath: "v.ogg"}, Duration: 3, IsVoiceMessage: true},
		},
		{
			name:  "document too large",
			media: RawMedia{Type: "document", Skip: "file_size", Path: "ignored.bin"},
			want:  data.Document{File: data.File{SkipReason: data.SkipReasonFileSize}},
		},
		{
			name:  "document without path",
			media: RawMedia{Type: "document"},
			want:  data.Document{File: data.File{SkipReason: data.SkipReasonUnavailable}},
		},
		{
			name:  "contact",
			media: RawMedia{Type: "contact", Contact: &RawContact{FirstName: "Bob", Phone: "123"}},
			want:  data.SharedContact{Info: data.ContactInfo{FirstName: "Bob", PhoneNumber: "123"}},
		},
		{
			name:  "geo",
			media: RawMedia{Type: "geo", Latitude: float(1.5), Longitude: float(2)},
			want:  data.GeoPoint{Latitude: 1.5, Longitude: 2, Valid: true},
		},
		{
			name:  "geo without coordinates",
			media: RawMedia{Type: "geo", Latitude: float(1.5)},
			want:  data.GeoPoint{},
		},
		{
			name:  "venue",
			media: RawMedia{Type: "venue", Title: "Cafe", Address: "Main st", Latitude: float(1), Longitude: float(1)},
			want:  data.Venue{Point: data.GeoPoint{Latitude: 1, Longitude: 1, Valid: true}, Title: "Cafe", Address: "Main st"},
		},
		{
			name:  "game",
			media: RawMedia{Type: "game", GameID: 3, ShortName: "quiz", Title: "Quiz", Bot: 20},
			want:  data.Game{ID: 3, ShortName: "quiz", Title: "Quiz", BotID: 20},
		},
		{
			name:  "invoice",
			media: RawMedia{Type: "invoice", Title: "Order", Currency: "EUR", Amount: 1999, Receipt: 4},
			want:  data.Invoice{Title: "Order", Currency: "EUR", Amount: 1999, ReceiptMsgID: 4},
		},
		{
			name:  "unknown kind",
			media: RawMedia{Type: "poll"},
			want:  data.UnsupportedMedia{},
		},
	}

	n := NewNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media := tt.media
			message, err := n.NormalizeMessage(RawMessage{ID: 1, Media: &media})
			if err != nil {
				t.Fatalf("NormalizeMessage() error = %v", err)
			}
			if !reflect.DeepEqual(message.Media.Content, tt.want) {
				t.Errorf("NormalizeMessage() media = %#v, want %#v", message.Media.Content, tt.want)
			}
		})
	}
}

func TestNormalizer_NormalizeMessage_Fields(t *testing.T) {
	raw := RawMessage{
		ID: 3, Date: 100, Edited: 200, From: 10, ReplyTo: 2, ForwardedFrom: "chat40",
		ViaBot: 20, Signature: "ed", Text: "hello", Media: &RawMedia{Type: "poll", TTL: 15},
	}

	message, err := NewNormalizer().NormalizeMessage(raw)
	if err != nil {
		t.Fatalf("NormalizeMessage() error = %v", err)
	}
	if message.ForwardedFromID != data.ChatPeerID(40) {
		t.Errorf("ForwardedFromID = %v, want chat 40", message.ForwardedFromID)
	}
	if message.Date != 100 || message.Edited != 200 || message.FromID != 10 || message.ReplyToMsgID != 2 ||
		message.ViaBotID != 20 || message.Signature != "ed" || message.Text != "hello" || message.Media.TTL != 15 {
		t.Errorf("NormalizeMessage() = %+v, fields not copied", message)
	}

	raw.ForwardedFrom = "nobody"
	if _, err := NewNormalizer().NormalizeMessage(raw); err == nil {
		t.Error("NormalizeMessage() with bad forward ref error = nil, want error")
	}
}

func TestNormalizer_NormalizeSnapshot(t *testing.T) {
	raw := &RawSnapshot{
		Personal: &RawPersonal{RawUser: RawUser{ID: 1, FirstName: "Ann"}, Bio: "bio"},
		Userpics: []RawPhoto{{Path: "a.jpg"}, {Skip: "unavailable"}},
		Contacts: []RawContact{{FirstName: "Bob"}},
		Frequent: []RawTopPeer{
			{Category: "correspondents", Peer: "user2", Rating: 1},
			{Category: "inline_bots", Peer: "user3"},
			{Category: "calls", Peer: "chat9"},
			{Category: "unknown", Peer: "user2"},
		},
		Sessions: []RawSession{{AppName: "App"}},
		Peers:    []RawPeer{{Ref: "user2", FirstName: "Bob"}},
		Dialogs: []RawDialog{{
			Type: "bot", Name: "Quiz", Path: "chats/quiz",
			Messages: []RawMessage{{ID: 1, Text: "ok"}, {ID: 2, Action: &RawAction{Type: "nope"}}},
		}},
		LeftChannels: []RawDialog{{Type: "mystery", Name: "Gone"}},
	}

	n := NewNormalizer()
	snapshot := n.NormalizeSnapshot(raw)

	if snapshot.Personal == nil || snapshot.Personal.Bio != "bio" {
		t.Errorf("Personal = %+v, want bio", snapshot.Personal)
	}
	if _, ok := snapshot.Peers[data.UserPeerID(1)]; !ok {
		t.Error("personal user should be added to peers")
	}
	if len(snapshot.Userpics) != 2 || snapshot.Userpics[1].Image.File.SkipReason != data.SkipReasonUnavailable {
		t.Errorf("Userpics = %+v", snapshot.Userpics)
	}
	contacts := snapshot.Contacts
	if len(contacts.List) != 1 || len(contacts.Correspondents) != 1 || len(contacts.InlineBots) != 1 || len(contacts.PhoneCalls) != 1 {
		t.Errorf("Contacts = %+v", contacts)
	}
	if contacts.InlineBots[0].Peer.User == nil || contacts.InlineBots[0].Peer.Name() != "" {
		t.Errorf("unresolved top peer = %+v, want empty user", contacts.InlineBots[0].Peer)
	}
	if contacts.PhoneCalls[0].Peer.Chat == nil {
		t.Errorf("unresolved chat top peer = %+v, want empty chat", contacts.PhoneCalls[0].Peer)
	}
	if len(snapshot.Sessions.List) != 1 {
		t.Errorf("Sessions = %+v", snapshot.Sessions)
	}

	dialog := snapshot.Dialogs[0]
	if dialog.Info.Type != data.DialogTypeBot || dialog.Info.RelativePath != "chats/quiz/" {
		t.Errorf("dialog info = %+v, want bot at chats/quiz/", dialog.Info)
	}
	if len(dialog.Messages) != 1 {
		t.Errorf("dialog messages = %d, want 1", len(dialog.Messages))
	}
	if snapshot.LeftChannels[0].Info.Type != data.DialogTypeUnknown {
		t.Errorf("left chat type = %v, want unknown", snapshot.LeftChannels[0].Info.Type)
	}
	if n.Skipped() != 2 {
		t.Errorf("Skipped() = %d, want 2", n.Skipped())
	}
}

func TestNormalizeDialog_Path(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", ""},
		{"adds slash", "chats/quiz", "chats/quiz/"},
		{"cleans", "chats/./quiz//", "chats/quiz/"},
		{"inner parent", "chats/old/../quiz/", "chats/quiz/"},
		{"parent", "../escaped/", ""},
		{"nested parent", "chats/../../escaped", ""},
		{"absolute", "/tmp/escaped/", ""},
		{"dot", "./", ""},
		{"backslash", `..\escaped\`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer()
			dialog := n.NormalizeDialog(RawDialog{Type: "personal", Name: "Bob", Path: tt.path})
			if dialog.Info.RelativePath != tt.want {
				t.Errorf("NormalizeDialog() RelativePath = %q, want %q", dialog.Info.RelativePath, tt.want)
			}
			if n.Skipped() != 0 {
				t.Errorf("Skipped() = %d, want 0", n.Skipped())
			}
		})
	}
}

func TestNormalizeDialogPath_Error(t *testing.T) {
	if _, err := normalizeDialogPath("../escaped/"); err == nil {
		t.Error("normalizeDialogPath() error = nil, want error")
	}
	if _, err := normalizeDialogPath("chats/chat_1/"); err != nil {
		t.Errorf("normalizeDialogPath() error = %v, want nil", err)
	}
}
