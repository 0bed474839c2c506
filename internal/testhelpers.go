package internal

// CreateTestRawMessage creates a plain text RawMessage
func CreateTestRawMessage(id int32, from int32, text string) RawMessage {
	return RawMessage{
		ID:   id,
		Date: 1500000000 + int64(id)*60,
		From: from,
		Text: text,
	}
}

// CreateTestRawSnapshot creates a RawSnapshot with one personal dialog
// between user1 and user2
func CreateTestRawSnapshot() *RawSnapshot {
	return &RawSnapshot{
		Personal: &RawPersonal{
			RawUser: RawUser{ID: 1, FirstName: "Ann", LastName: "Lee", Phone: "15551234567"},
		},
		Contacts: []RawContact{{FirstName: "Bob", Phone: "15550001111"}},
		Peers: []RawPeer{
			{Ref: "user1", FirstName: "Ann", LastName: "Lee"},
			{Ref: "user2", FirstName: "Bob"},
		},
		Dialogs: []RawDialog{{
			ID:   "1",
			Type: "personal",
			Name: "Bob",
			Path: "chats/chat_1/",
			Messages: []RawMessage{
				CreateTestRawMessage(1, 2, "Hi Ann"),
				CreateTestRawMessage(2, 1, "Hi Bob"),
			},
		}},
	}
}
