package export

import (
	"fmt"

	"github.com/iksnae/chat-report/internal/data"
)

// unsupportedMessageNotice replaces the whole record of a message whose
// media this exporter cannot represent
const unsupportedMessageNotice = "Error! This message is not supported " +
	"by this version of chat-report. " +
	"Please update the application."

// messageFormatter accumulates the fields of one message record
type messageFormatter struct {
	message *data.Message
	peers   data.Peers
	domain  string
	values  []keyValue
}

// serializeMessage renders one message record. The output depends only on
// its arguments.
func serializeMessage(message *data.Message, peers data.Peers, internalLinksDomain string) string {
	if _, ok := message.Media.Content.(data.UnsupportedMedia); ok {
		return unsupportedMessageNotice
	}

	f := &messageFormatter{
		message: message,
		peers:   peers,
		domain:  internalLinksDomain,
		values: []keyValue{
			{key: "ID", value: data.NumberToString(message.ID)},
			{key: "Date", value: data.FormatDateTime(message.Date)},
			{key: "Edited", value: data.FormatDateTime(message.Edited)},
		},
	}

	if message.Action != nil {
		f.pushAction(message.Action)
	} else {
		f.pushFrom("From")
		f.push("Author", message.Signature)
		if message.ForwardedFromID != 0 {
			f.push("Forwarded from", f.wrapPeerName(message.ForwardedFromID))
		}
		f.pushReplyToMsgID("Reply to message")
		if message.ViaBotID != 0 {
			if bot, ok := f.user(message.ViaBotID); ok {
				f.push("Via", bot.Username)
			}
		}
	}

	if message.Media.Content != nil {
		f.pushMedia(message.Media.Content)
	}

	f.push("Text", message.Text)

	return serializeKeyValue(f.values)
}

func (f *messageFormatter) push(key, value string) {
	if value != "" {
		f.values = append(f.values, keyValue{key: key, value: value})
	}
}

func (f *messageFormatter) pushBlock(key, block string) {
	if block != "" {
		f.values = append(f.values, keyValue{key: key, value: block, block: true})
	}
}

func (f *messageFormatter) peer(id data.PeerID) (data.Peer, bool) {
	peer, ok := f.peers[id]
	return peer, ok
}

func (f *messageFormatter) user(userID int32) (*data.User, bool) {
	peer, ok := f.peer(data.UserPeerID(userID))
	if !ok || peer.User == nil {
		return nil, false
	}
	return peer.User, true
}

func (f *messageFormatter) wrapPeerName(id data.PeerID) string {
	if peer, ok := f.peer(id); ok {
		if name := peer.Name(); name != "" {
			return name
		}
	}
	return "(unknown peer)"
}

func (f *messageFormatter) wrapUserName(userID int32) string {
	if user, ok := f.user(userID); ok {
		if name := user.Name(); name != "" {
			return name
		}
	}
	return "(unknown user)"
}

func (f *messageFormatter) pushFrom(label string) {
	if f.message.FromID != 0 {
		f.push(label, f.wrapUserName(f.message.FromID))
	}
}

func (f *messageFormatter) pushActor() {
	f.pushFrom("Actor")
}

func (f *messageFormatter) pushActionName(action string) {
	f.push("Action", action)
}

func (f *messageFormatter) pushReplyToMsgID(label string) {
	if f.message.ReplyToMsgID != 0 {
		f.push(label, "ID-"+data.NumberToString(f.message.ReplyToMsgID))
	}
}

func (f *messageFormatter) pushUserNames(userIDs []int32) {
	names := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		names = append(names, f.wrapUserName(id))
	}
	f.pushNames(names, "Member", "Members")
}

func (f *messageFormatter) pushNames(names []string, labelOne, labelMany string) {
	switch len(names) {
	case 0:
	case 1:
		f.push(labelOne, names[0])
	default:
		f.push(labelMany, joinList(", ", names))
	}
}

func (f *messageFormatter) pushTTL(label string) {
	if ttl := f.message.Media.TTL; ttl != 0 {
		f.push(label, data.NumberToString(ttl)+" sec.")
	}
}

func (f *messageFormatter) pushDuration(duration int32) {
	if duration != 0 {
		f.push("Duration", data.NumberToString(duration)+" sec.")
	}
}

func (f *messageFormatter) pushSize(width, height int) {
	if width != 0 && height != 0 {
		f.push("Width", data.NumberToString(width))
		f.push("Height", data.NumberToString(height))
	}
}

func (f *messageFormatter) pushPath(file data.File, label string) {
	expects(file.RelativePath != "" || file.SkipReason != data.SkipReasonNone,
		"file reference has neither a path nor a skip reason")

	switch file.SkipReason {
	case data.SkipReasonUnavailable:
		f.push(label, "(file unavailable)")
	case data.SkipReasonFileSize:
		f.push(label, "(file too large)")
	case data.SkipReasonFileType:
		f.push(label, "(file skipped)")
	case data.SkipReasonNone:
		f.push(label, file.RelativePath)
	default:
		panic(fmt.Sprintf("export: unexpected skip reason %d", file.SkipReason))
	}
}

func (f *messageFormatter) pushPhoto(image data.Image) {
	f.pushPath(image.File, "Photo")
	f.pushSize(image.Width, image.Height)
}

func (f *messageFormatter) pushAction(action data.ActionContent) {
	switch action := action.(type) {
	case data.ChatCreate:
		f.pushActor()
		f.pushActionName("Create group")
		f.push("Title", action.Title)
		f.pushUserNames(action.UserIDs)
	case data.ChatEditTitle:
		f.pushActor()
		f.pushActionName("Edit group title")
		f.push("New title", action.Title)
	case data.ChatEditPhoto:
		f.pushActor()
		f.pushActionName("Edit group photo")
		f.pushPhoto(action.Photo.Image)
	case data.ChatDeletePhoto:
		f.pushActor()
		f.pushActionName("Delete group photo")
	case data.ChatAddUser:
		f.pushActor()
		f.pushActionName("Invite members")
		f.pushUserNames(action.UserIDs)
	case data.ChatDeleteUser:
		f.pushActor()
		f.pushActionName("Remove members")
		f.push("Member", f.wrapUserName(action.UserID))
	case data.ChatJoinedByLink:
		f.pushActor()
		f.pushActionName("Join group by link")
		f.push("Inviter", f.wrapUserName(action.InviterID))
	case data.ChannelCreate:
		f.pushActor()
		f.pushActionName("Create channel")
		f.push("Title", action.Title)
	case data.ChatMigrateTo:
		f.pushActor()
		f.pushActionName("Migrate this group to supergroup")
	case data.ChannelMigrateFrom:
		f.pushActor()
		f.pushActionName("Migrate this supergroup from group")
		f.push("Title", action.Title)
	case data.PinMessage:
		f.pushActor()
		f.pushActionName("Pin message")
		f.pushReplyToMsgID("Message")
	case data.HistoryClear:
		f.pushActor()
		f.pushActionName("Clear history")
	case data.GameScore:
		f.pushActor()
		f.pushActionName("Score in a game")
		f.pushReplyToMsgID("Game message")
		f.push("Score", data.NumberToString(action.Score))
	case data.PaymentSent:
		f.pushActionName("Send payment")
		f.push("Amount", data.FormatMoneyAmount(action.Amount, action.Currency))
		f.pushReplyToMsgID("Invoice message")
	case data.PhoneCall:
		f.pushActor()
		f.pushActionName("Phone call")
		f.pushDuration(action.Duration)
		f.push("Discard reason", discardReasonText(action.DiscardReason))
	case data.ScreenshotTaken:
		f.pushActor()
		f.pushActionName("Take screenshot")
	case data.CustomAction:
		f.pushActor()
		f.push("Information", action.Message)
	case data.BotAllowed:
		f.pushActionName("Allow sending messages")
		f.push("Reason", `Login on "`+action.Domain+`"`)
	case data.SecureValuesSent:
		f.pushActionName("Send Telegram Passport values")
		values := make([]string, 0, len(action.Types))
		for _, t := range action.Types {
			values = append(values, secureValueText(t))
		}
		f.pushNames(values, "Value", "Values")
	default:
		panic(fmt.Sprintf("export: unexpected action type %T", action))
	}
}

func (f *messageFormatter) pushMedia(media data.MediaContent) {
	switch media := media.(type) {
	case data.Photo:
		f.pushPhoto(media.Image)
		f.pushTTL("Self destruct period")
	case data.Document:
		f.pushDocument(media)
	case data.SharedContact:
		f.pushBlock("Contact information", serializeBlock([]keyValue{
			{key: "First name", value: media.Info.FirstName},
			{key: "Last name", value: media.Info.LastName},
			{key: "Phone number", value: data.FormatPhoneNumber(media.Info.PhoneNumber)},
		}))
	case data.GeoPoint:
		if media.Valid {
			f.pushBlock("Location", serializeLocation(media))
		} else {
			f.push("Location", "(empty value)")
		}
		f.pushTTL("Live location period")
	case data.Venue:
		f.push("Place name", media.Title)
		f.push("Address", media.Address)
		if media.Point.Valid {
			f.pushBlock("Location", serializeLocation(media.Point))
		}
	case data.Game:
		f.push("Game", media.Title)
		f.push("Description", media.Description)
		if media.BotID != 0 && media.ShortName != "" {
			if bot, ok := f.user(media.BotID); ok && bot.IsBot && bot.Username != "" {
				f.push("Link", f.domain+bot.Username+"?game="+media.ShortName)
			}
		}
	case data.Invoice:
		receipt := ""
		if media.ReceiptMsgID != 0 {
			receipt = "ID-" + data.NumberToString(media.ReceiptMsgID)
		}
		f.pushBlock("Invoice", serializeBlock([]keyValue{
			{key: "Title", value: media.Title},
			{key: "Description", value: media.Description},
			{key: "Amount", value: data.FormatMoneyAmount(media.Amount, media.Currency)},
			{key: "Receipt message", value: receipt},
		}))
	case data.UnsupportedMedia:
		panic("export: unsupported media must be handled before formatting fields")
	default:
		panic(fmt.Sprintf("export: unexpected media type %T", media))
	}
}

func (f *messageFormatter) pushDocument(document data.Document) {
	switch {
	case document.IsSticker:
		f.pushPath(document.File, "Sticker")
		f.push("Emoji", document.StickerEmoji)
	case document.IsVideoMessage:
		f.pushPath(document.File, "Video message")
	case document.IsVoiceMessage:
		f.pushPath(document.File, "Voice message")
	case document.IsAnimated:
		f.pushPath(document.File, "Animation")
	case document.IsVideoFile:
		f.pushPath(document.File, "Video file")
	case document.IsAudioFile:
		f.pushPath(document.File, "Audio file")
		f.push("Performer", document.SongPerformer)
		f.push("Title", document.SongTitle)
	default:
		f.pushPath(document.File, "File")
	}
	if !document.IsSticker {
		f.push("Mime type", document.Mime)
	}
	f.pushDuration(document.Duration)
	f.pushSize(document.Width, document.Height)
	f.pushTTL("Self destruct period")
}

func serializeLocation(point data.GeoPoint) string {
	return serializeBlock([]keyValue{
		{key: "Latitude", value: data.FloatToString(point.Latitude)},
		{key: "Longitude", value: data.FloatToString(point.Longitude)},
	})
}

func discardReasonText(reason data.DiscardReason) string {
	switch reason {
	case data.DiscardReasonBusy:
		return "Busy"
	case data.DiscardReasonDisconnect:
		return "Disconnect"
	case data.DiscardReasonHangup:
		return "Hangup"
	case data.DiscardReasonMissed:
		return "Missed"
	}
	return ""
}

func secureValueText(value data.SecureValueType) string {
	switch value {
	case data.SecureValuePersonalDetails:
		return "Personal details"
	case data.SecureValuePassport:
		return "Passport"
	case data.SecureValueDriverLicense:
		return "Driver license"
	case data.SecureValueIdentityCard:
		return "Identity card"
	case data.SecureValueInternalPassport:
		return "Internal passport"
	case data.SecureValueAddress:
		return "Address information"
	case data.SecureValueUtilityBill:
		return "Utility bill"
	case data.SecureValueBankStatement:
		return "Bank statement"
	case data.SecureValueRentalAgreement:
		return "Rental agreement"
	case data.SecureValuePassportRegistration:
		return "Passport registration"
	case data.SecureValueTemporaryRegistration:
		return "Temporary registration"
	case data.SecureValuePhone:
		return "Phone number"
	case data.SecureValueEmail:
		return "Email"
	}
	return ""
}
