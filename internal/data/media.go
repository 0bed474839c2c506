package data

// MediaContent is implemented by every message attachment kind.
// The set is closed: only types in this file implement it.
type MediaContent interface {
	isMediaContent()
}

// Photo is a photo attachment or a profile photo
type Photo struct {
	ID    int64
	Date  TimeID
	Image Image
}

// Document covers every file-like attachment. At most one kind flag is set;
// none set means a generic file.
type Document struct {
	File          File
	Name          string
	Mime          string
	StickerEmoji  string
	SongPerformer string
	SongTitle     string
	Width         int
	Height        int
	Duration      int32

	IsSticker      bool
	IsVideoMessage bool
	IsVoiceMessage bool
	IsAnimated     bool
	IsVideoFile    bool
	IsAudioFile    bool
}

// SharedContact is a contact card sent as a message
type SharedContact struct {
	Info ContactInfo
}

// GeoPoint is a location. Valid is false for an empty location.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
	Valid     bool
}

// Venue is a named place with an address
type Venue struct {
	Point   GeoPoint
	Title   string
	Address string
}

// Game is a bot game attachment
type Game struct {
	ID          int64
	ShortName   string
	Title       string
	Description string
	BotID       int32
}

// Invoice is a payment request
type Invoice struct {
	Title        string
	Description  string
	Currency     string
	Amount       uint64
	ReceiptMsgID int32
}

// UnsupportedMedia marks an attachment the exporter cannot represent
type UnsupportedMedia struct{}

func (Photo) isMediaContent()            {}
func (Document) isMediaContent()         {}
func (SharedContact) isMediaContent()    {}
func (GeoPoint) isMediaContent()         {}
func (Venue) isMediaContent()            {}
func (Game) isMediaContent()             {}
func (Invoice) isMediaContent()          {}
func (UnsupportedMedia) isMediaContent() {}
