package data

// TimeID is a Unix timestamp in seconds. Zero means "no date".
type TimeID int64

// PeerID identifies a user or a chat in a single id space.
type PeerID int64

const (
	userPeerIDShift = PeerID(1) << 32
	chatPeerIDShift = PeerID(2) << 32
	bareIDMask      = PeerID(0xFFFFFFFF)
)

// UserPeerID converts a bare user id to a PeerID
func UserPeerID(userID int32) PeerID {
	return userPeerIDShift | PeerID(uint32(userID))
}

// ChatPeerID converts a bare chat id to a PeerID
func ChatPeerID(chatID int32) PeerID {
	return chatPeerIDShift | PeerID(uint32(chatID))
}

// BarePeerID strips the peer kind from a PeerID
func BarePeerID(id PeerID) int32 {
	return int32(uint32(id & bareIDMask))
}

// IsUserPeerID reports whether id refers to a user
func IsUserPeerID(id PeerID) bool {
	return id&^bareIDMask == userPeerIDShift
}

// IsChatPeerID reports whether id refers to a chat or channel
func IsChatPeerID(id PeerID) bool {
	return id&^bareIDMask == chatPeerIDShift
}

// ContactInfo holds the personal fields shared by users and saved contacts
type ContactInfo struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Date        TimeID
}

// Name returns "First Last", skipping empty parts
func (c ContactInfo) Name() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// User represents a resolved user
type User struct {
	ID       int32
	Info     ContactInfo
	Username string
	IsBot    bool
}

// Name returns the display name of the user
func (u *User) Name() string {
	return u.Info.Name()
}

// Chat represents a resolved group, supergroup or channel
type Chat struct {
	ID        int32
	Title     string
	Username  string
	Broadcast bool
}

// Peer is either a User or a Chat. Exactly one field is set.
type Peer struct {
	User *User
	Chat *Chat
}

// ID returns the PeerID of the peer
func (p Peer) ID() PeerID {
	switch {
	case p.User != nil:
		return UserPeerID(p.User.ID)
	case p.Chat != nil:
		return ChatPeerID(p.Chat.ID)
	}
	return 0
}

// Name returns the user name or the chat title
func (p Peer) Name() string {
	switch {
	case p.User != nil:
		return p.User.Name()
	case p.Chat != nil:
		return p.Chat.Title
	}
	return ""
}

// Peers maps peer ids to resolved peers for one slice of messages
type Peers map[PeerID]Peer

// SkipReason explains why an attachment was not exported
type SkipReason int

const (
	SkipReasonNone SkipReason = iota
	SkipReasonUnavailable
	SkipReasonFileSize
	SkipReasonFileType
)

// File references an exported attachment.
// RelativePath is empty only when SkipReason is set.
type File struct {
	RelativePath string
	SkipReason   SkipReason
}

// Image is a file with known dimensions
type Image struct {
	Width  int
	Height int
	File   File
}

// PersonalInfo is the account owner's profile
type PersonalInfo struct {
	User User
	Bio  string
}

// UserpicsInfo announces the number of profile photos
type UserpicsInfo struct {
	Count int
}

// UserpicsSlice is one batch of profile photos
type UserpicsSlice struct {
	List []Photo
}

// TopPeer is an entry of a frequent contacts category
type TopPeer struct {
	Peer   Peer
	Rating float64
}

// ContactsList holds saved contacts and frequent contacts categories
type ContactsList struct {
	List           []ContactInfo
	Correspondents []TopPeer
	InlineBots     []TopPeer
	PhoneCalls     []TopPeer
}

// Session is one authorized device
type Session struct {
	Platform           string
	DeviceModel        string
	SystemVersion      string
	ApplicationName    string
	ApplicationVersion string
	Created            TimeID
	LastActive         TimeID
	IP                 string
	Country            string
	Region             string
}

// SessionsList holds all authorized sessions
type SessionsList struct {
	List []Session
}

// DialogType classifies a dialog for the chats list
type DialogType int

const (
	DialogTypeUnknown DialogType = iota
	DialogTypePersonal
	DialogTypeBot
	DialogTypePrivateGroup
	DialogTypePublicGroup
	DialogTypePrivateChannel
	DialogTypePublicChannel
)

// DialogInfo describes one dialog in a chats list
type DialogInfo struct {
	Type           DialogType
	Name           string
	RelativePath   string // directory relative to the export root, "/"-terminated
	OnlyMyMessages bool
}

// DialogsInfo is the full list of dialogs of one chats section
type DialogsInfo struct {
	List []DialogInfo
}

// MessagesSlice is one batch of messages with the peers they reference
type MessagesSlice struct {
	List  []Message
	Peers Peers
}

// Message is one message of a dialog
type Message struct {
	ID              int32
	Date            TimeID
	Edited          TimeID
	FromID          int32
	ReplyToMsgID    int32
	ForwardedFromID PeerID
	ViaBotID        int32
	Signature       string
	Text            string
	Action          ActionContent // nil for regular messages
	Media           Media
}

// Media wraps the attachment of a message
type Media struct {
	Content MediaContent // nil when the message has no media
	TTL     int32
}
