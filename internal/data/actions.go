package data

// ActionContent is implemented by every service message action.
// The set is closed: only types in this file implement it.
type ActionContent interface {
	isActionContent()
}

// ChatCreate is a group created with a title and initial members
type ChatCreate struct {
	Title   string
	UserIDs []int32
}

// ChatEditTitle is a chat rename
type ChatEditTitle struct {
	Title string
}

// ChatEditPhoto is a new chat photo
type ChatEditPhoto struct {
	Photo Photo
}

// ChatDeletePhoto is a removed chat photo
type ChatDeletePhoto struct{}

// ChatAddUser lists members invited to a chat
type ChatAddUser struct {
	UserIDs []int32
}

// ChatDeleteUser is a member removed from a chat
type ChatDeleteUser struct {
	UserID int32
}

// ChatJoinedByLink is a join through an invite link
type ChatJoinedByLink struct {
	InviterID int32
}

// ChannelCreate is a channel created with a title
type ChannelCreate struct {
	Title string
}

// ChatMigrateTo is a group upgraded to a supergroup
type ChatMigrateTo struct {
	ChannelID int32
}

// ChannelMigrateFrom is a supergroup created from a basic group
type ChannelMigrateFrom struct {
	Title  string
	ChatID int32
}

// PinMessage is a pinned message
type PinMessage struct{}

// HistoryClear is a cleared chat history
type HistoryClear struct{}

// GameScore is a score reached in a game
type GameScore struct {
	GameID int64
	Score  int32
}

// PaymentSent is a completed payment
type PaymentSent struct {
	Currency string
	Amount   uint64
}

// DiscardReason explains how a phone call ended
type DiscardReason int

const (
	DiscardReasonUnknown DiscardReason = iota
	DiscardReasonMissed
	DiscardReasonDisconnect
	DiscardReasonHangup
	DiscardReasonBusy
)

// PhoneCall is a voice call and how it ended
type PhoneCall struct {
	Duration      int32
	DiscardReason DiscardReason
}

// ScreenshotTaken is a screenshot notification
type ScreenshotTaken struct{}

// CustomAction is a service message with free text
type CustomAction struct {
	Message string
}

// BotAllowed is a bot login permission granted on a website
type BotAllowed struct {
	Domain string
}

// SecureValueType is a kind of Telegram Passport value
type SecureValueType int

const (
	SecureValueUnknown SecureValueType = iota
	SecureValuePersonalDetails
	SecureValuePassport
	SecureValueDriverLicense
	SecureValueIdentityCard
	SecureValueInternalPassport
	SecureValueAddress
	SecureValueUtilityBill
	SecureValueBankStatement
	SecureValueRentalAgreement
	SecureValuePassportRegistration
	SecureValueTemporaryRegistration
	SecureValuePhone
	SecureValueEmail
)

// SecureValuesSent lists Telegram Passport values shared with a service
type SecureValuesSent struct {
	Types []SecureValueType
}

func (ChatCreate) isActionContent()         {}
func (ChatEditTitle) isActionContent()      {}
func (ChatEditPhoto) isActionContent()      {}
func (ChatDeletePhoto) isActionContent()    {}
func (ChatAddUser) isActionContent()        {}
func (ChatDeleteUser) isActionContent()     {}
func (ChatJoinedByLink) isActionContent()   {}
func (ChannelCreate) isActionContent()      {}
func (ChatMigrateTo) isActionContent()      {}
func (ChannelMigrateFrom) isActionContent() {}
func (PinMessage) isActionContent()         {}
func (HistoryClear) isActionContent()       {}
func (GameScore) isActionContent()          {}
func (PaymentSent) isActionContent()        {}
func (PhoneCall) isActionContent()          {}
func (ScreenshotTaken) isActionContent()    {}
func (CustomAction) isActionContent()       {}
func (BotAllowed) isActionContent()         {}
func (SecureValuesSent) isActionContent()   {}
