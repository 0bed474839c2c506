package internal

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/iksnae/chat-report/internal/data"
)

var dialogTypes = map[string]data.DialogType{
	"personal":        data.DialogTypePersonal,
	"bot":             data.DialogTypeBot,
	"private_group":   data.DialogTypePrivateGroup,
	"public_group":    data.DialogTypePublicGroup,
	"private_channel": data.DialogTypePrivateChannel,
	"public_channel":  data.DialogTypePublicChannel,
}

var skipReasons = map[string]data.SkipReason{
	"":            data.SkipReasonNone,
	"unavailable": data.SkipReasonUnavailable,
	"file_size":   data.SkipReasonFileSize,
	"file_type":   data.SkipReasonFileType,
}

var discardReasons = map[string]data.DiscardReason{
	"missed":     data.DiscardReasonMissed,
	"disconnect": data.DiscardReasonDisconnect,
	"hangup":     data.DiscardReasonHangup,
	"busy":       data.DiscardReasonBusy,
}

var secureValueTypes = map[string]data.SecureValueType{
	"personal_details":       data.SecureValuePersonalDetails,
	"passport":               data.SecureValuePassport,
	"driver_license":         data.SecureValueDriverLicense,
	"identity_card":          data.SecureValueIdentityCard,
	"internal_passport":      data.SecureValueInternalPassport,
	"address":                data.SecureValueAddress,
	"utility_bill":           data.SecureValueUtilityBill,
	"bank_statement":         data.SecureValueBankStatement,
	"rental_agreement":       data.SecureValueRentalAgreement,
	"passport_registration":  data.SecureValuePassportRegistration,
	"temporary_registration": data.SecureValueTemporaryRegistration,
	"phone":                  data.SecureValuePhone,
	"email":                  data.SecureValueEmail,
}

// Normalizer converts raw snapshot records into the export data model
type Normalizer struct {
	skipped int
}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Skipped returns how many records were dropped so far
func (n *Normalizer) Skipped() int {
	return n.skipped
}

func (n *Normalizer) skip(err error) {
	n.skipped++
	LogWarn("Skipping record: %v", err)
}

// NormalizeSnapshot converts raw into a data.Snapshot. Records that cannot
// be represented are logged and skipped.
func (n *Normalizer) NormalizeSnapshot(raw *RawSnapshot) *data.Snapshot {
	snapshot := &data.Snapshot{
		Peers: n.NormalizePeers(raw.Peers),
	}

	if raw.Personal != nil {
		personal := data.PersonalInfo{User: normalizeUser(raw.Personal.RawUser), Bio: raw.Personal.Bio}
		snapshot.Personal = &personal
		if _, ok := snapshot.Peers[data.UserPeerID(personal.User.ID)]; !ok {
			user := personal.User
			snapshot.Peers[data.UserPeerID(user.ID)] = data.Peer{User: &user}
		}
	}

	for _, photo := range raw.Userpics {
		snapshot.Userpics = append(snapshot.Userpics, normalizePhoto(photo))
	}
	for _, contact := range raw.Contacts {
		snapshot.Contacts.List = append(snapshot.Contacts.List, normalizeContact(contact))
	}
	for _, top := range raw.Frequent {
		n.addTopPeer(&snapshot.Contacts, top, snapshot.Peers)
	}
	for _, session := range raw.Sessions {
		snapshot.Sessions.List = append(snapshot.Sessions.List, normalizeSession(session))
	}
	for _, dialog := range raw.Dialogs {
		snapshot.Dialogs = append(snapshot.Dialogs, n.NormalizeDialog(dialog))
	}
	for _, dialog := range raw.LeftChannels {
		snapshot.LeftChannels = append(snapshot.LeftChannels, n.NormalizeDialog(dialog))
	}

	return snapshot
}

// NormalizePeers resolves peer records into a Peers map
func (n *Normalizer) NormalizePeers(raw []RawPeer) data.Peers {
	peers := make(data.Peers, len(raw))
	for _, peer := range raw {
		id, err := ParsePeerRef(peer.Ref)
		if err != nil {
			n.skip(err)
			continue
		}
		if data.IsUserPeerID(id) {
			peers[id] = data.Peer{User: &data.User{
				ID: data.BarePeerID(id),
				Info: data.ContactInfo{
					FirstName:   peer.FirstName,
					LastName:    peer.LastName,
					PhoneNumber: peer.Phone,
				},
				Username: peer.Username,
				IsBot:    peer.Bot,
			}}
		} else {
			peers[id] = data.Peer{Chat: &data.Chat{
				ID:        data.BarePeerID(id),
				Title:     peer.Title,
				Username:  peer.Username,
				Broadcast: peer.Broadcast,
			}}
		}
	}
	return peers
}

func (n *Normalizer) addTopPeer(contacts *data.ContactsList, raw RawTopPeer, peers data.Peers) {
	id, err := ParsePeerRef(raw.Peer)
	if err != nil {
		n.skip(err)
		return
	}
	peer, ok := peers[id]
	if !ok {
		// unresolved peers are exported as deleted
		if data.IsUserPeerID(id) {
			peer = data.Peer{User: &data.User{ID: data.BarePeerID(id)}}
		} else {
			peer = data.Peer{Chat: &data.Chat{ID: data.BarePeerID(id)}}
		}
	}
	top := data.TopPeer{Peer: peer, Rating: raw.Rating}

	switch raw.Category {
	case "correspondents":
		contacts.Correspondents = append(contacts.Correspondents, top)
	case "inline_bots":
		contacts.InlineBots = append(contacts.InlineBots, top)
	case "calls":
		contacts.PhoneCalls = append(contacts.PhoneCalls, top)
	default:
		n.skip(&ParseError{Source: "frequent", Key: raw.Peer, Err: fmt.Errorf("unknown category: %q", raw.Category)})
	}
}

// NormalizeDialog converts a dialog and its messages
func (n *Normalizer) NormalizeDialog(raw RawDialog) data.DialogContent {
	relativePath, err := normalizeDialogPath(raw.Path)
	if err != nil {
		LogWarn("Ignoring dialog path: %v", &ParseError{Source: "dialog", Key: raw.Name, Err: err})
	}
	dialog := data.DialogContent{
		Info: data.DialogInfo{
			Type:           dialogTypes[raw.Type],
			Name:           raw.Name,
			RelativePath:   relativePath,
			OnlyMyMessages: raw.OnlyMyMessages,
		},
	}

	for _, rawMessage := range raw.Messages {
		message, err := n.NormalizeMessage(rawMessage)
		if err != nil {
			n.skip(err)
			continue
		}
		dialog.Messages = append(dialog.Messages, message)
	}
	return dialog
}

// normalizeDialogPath cleans a dialog directory into a relative, slash-terminated
// path. Paths leaving the output directory are rejected and map to "".
func normalizeDialogPath(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if strings.Contains(raw, `\`) {
		return "", fmt.Errorf("backslash in path: %q", raw)
	}
	cleaned := path.Clean(raw)
	switch {
	case path.IsAbs(cleaned):
		return "", fmt.Errorf("absolute path: %q", raw)
	case cleaned == ".":
		return "", errors.New("path resolves to the output directory")
	case cleaned == ".." || strings.HasPrefix(cleaned, "../"):
		return "", fmt.Errorf("path leaves the output directory: %q", raw)
	}
	return cleaned + "/", nil
}

// NormalizeMessage converts one message. Unknown action types are a ParseError;
// unknown media types become data.UnsupportedMedia.
func (n *Normalizer) NormalizeMessage(raw RawMessage) (data.Message, error) {
	message := data.Message{
		ID:           raw.ID,
		Date:         data.TimeID(raw.Date),
		Edited:       data.TimeID(raw.Edited),
		FromID:       raw.From,
		ReplyToMsgID: raw.ReplyTo,
		ViaBotID:     raw.ViaBot,
		Signature:    raw.Signature,
		Text:         raw.Text,
	}

	if raw.ForwardedFrom != "" {
		id, err := ParsePeerRef(raw.ForwardedFrom)
		if err != nil {
			return data.Message{}, &ParseError{Source: "message", Key: strconv.Itoa(int(raw.ID)), Err: err}
		}
		message.ForwardedFromID = id
	}

	if raw.Action != nil {
		action, err := normalizeAction(*raw.Action)
		if err != nil {
			return data.Message{}, &ParseError{Source: "message", Key: strconv.Itoa(int(raw.ID)), Err: err}
		}
		message.Action = action
	}

	if raw.Media != nil {
		message.Media = data.Media{Content: normalizeMedia(*raw.Media), TTL: raw.Media.TTL}
	}

	return message, nil
}

func normalizeAction(raw RawAction) (data.ActionContent, error) {
	switch raw.Type {
	case "chat_create":
		return data.ChatCreate{Title: raw.Title, UserIDs: raw.Users}, nil
	case "chat_edit_title":
		return data.ChatEditTitle{Title: raw.Title}, nil
	case "chat_edit_photo":
		var photo data.Photo
		if raw.Photo != nil {
			photo = normalizePhoto(*raw.Photo)
		} else {
			photo.Image.File.SkipReason = data.SkipReasonUnavailable
		}
		return data.ChatEditPhoto{Photo: photo}, nil
	case "chat_delete_photo":
		return data.ChatDeletePhoto{}, nil
	case "chat_add_user":
		return data.ChatAddUser{UserIDs: raw.Users}, nil
	case "chat_delete_user":
		return data.ChatDeleteUser{UserID: raw.User}, nil
	case "chat_joined_by_link":
		return data.ChatJoinedByLink{InviterID: raw.Inviter}, nil
	case "channel_create":
		return data.ChannelCreate{Title: raw.Title}, nil
	case "chat_migrate_to":
		return data.ChatMigrateTo{ChannelID: raw.Channel}, nil
	case "channel_migrate_from":
		return data.ChannelMigrateFrom{Title: raw.Title, ChatID: raw.Chat}, nil
	case "pin_message":
		return data.PinMessage{}, nil
	case "history_clear":
		return data.HistoryClear{}, nil
	case "game_score":
		return data.GameScore{GameID: raw.Game, Score: raw.Score}, nil
	case "payment_sent":
		return data.PaymentSent{Currency: raw.Currency, Amount: raw.Amount}, nil
	case "phone_call":
		return data.PhoneCall{Duration: raw.Duration, DiscardReason: discardReasons[raw.Reason]}, nil
	case "screenshot_taken":
		return data.ScreenshotTaken{}, nil
	case "custom_action":
		return data.CustomAction{Message: raw.Message}, nil
	case "bot_allowed":
		return data.BotAllowed{Domain: raw.Domain}, nil
	case "secure_values_sent":
		types := make([]data.SecureValueType, 0, len(raw.Values))
		for _, value := range raw.Values {
			types = append(types, secureValueTypes[value])
		}
		return data.SecureValuesSent{Types: types}, nil
	}
	return nil, fmt.Errorf("unknown action type: %q", raw.Type)
}

func normalizeMedia(raw RawMedia) data.MediaContent {
	switch raw.Type {
	case "photo":
		if raw.Photo == nil {
			return data.Photo{Image: data.Image{File: normalizeFile("", "")}}
		}
		return normalizePhoto(*raw.Photo)
	case "document":
		document := data.Document{
			File:          normalizeFile(raw.Path, raw.Skip),
			Name:          raw.Name,
			Mime:          raw.Mime,
			StickerEmoji:  raw.Emoji,
			SongPerformer: raw.Performer,
			SongTitle:     raw.Title,
			Width:         raw.Width,
			Height:        raw.Height,
			Duration:      raw.Duration,
		}
		switch raw.Kind {
		case "sticker":
			document.IsSticker = true
		case "video_message":
			document.IsVideoMessage = true
		case "voice_message":
			document.IsVoiceMessage = true
		case "animation":
			document.IsAnimated = true
		case "video_file":
			document.IsVideoFile = true
		case "audio_file":
			document.IsAudioFile = true
		}
		return document
	case "contact":
		var info data.ContactInfo
		if raw.Contact != nil {
			info = normalizeContact(*raw.Contact)
		}
		return data.SharedContact{Info: info}
	case "geo":
		return normalizeGeoPoint(raw)
	case "venue":
		return data.Venue{Point: normalizeGeoPoint(raw), Title: raw.Title, Address: raw.Address}
	case "game":
		return data.Game{ID: raw.GameID, ShortName: raw.ShortName, Title: raw.Title, Description: raw.Description, BotID: raw.Bot}
	case "invoice":
		return data.Invoice{Title: raw.Title, Description: raw.Description, Currency: raw.Currency, Amount: raw.Amount, ReceiptMsgID: raw.Receipt}
	}
	LogDebug("Unsupported media type: %q", raw.Type)
	return data.UnsupportedMedia{}
}

func normalizeGeoPoint(raw RawMedia) data.GeoPoint {
	if raw.Latitude == nil || raw.Longitude == nil {
		return data.GeoPoint{}
	}
	return data.GeoPoint{Latitude: *raw.Latitude, Longitude: *raw.Longitude, Valid: true}
}

// normalizeFile keeps a File valid: an empty path always carries a skip reason
func normalizeFile(path, skip string) data.File {
	reason, ok := skipReasons[skip]
	if !ok {
		reason = data.SkipReasonUnavailable
	}
	if path == "" && reason == data.SkipReasonNone {
		reason = data.SkipReasonUnavailable
	}
	if reason != data.SkipReasonNone {
		path = ""
	}
	return data.File{RelativePath: path, SkipReason: reason}
}

func normalizePhoto(raw RawPhoto) data.Photo {
	return data.Photo{
		ID:   raw.ID,
		Date: data.TimeID(raw.Date),
		Image: data.Image{
			Width:  raw.Width,
			Height: raw.Height,
			File:   normalizeFile(raw.Path, raw.Skip),
		},
	}
}

func normalizeUser(raw RawUser) data.User {
	return data.User{
		ID: raw.ID,
		Info: data.ContactInfo{
			FirstName:   raw.FirstName,
			LastName:    raw.LastName,
			PhoneNumber: raw.Phone,
		},
		Username: raw.Username,
		IsBot:    raw.Bot,
	}
}

func normalizeContact(raw RawContact) data.ContactInfo {
	return data.ContactInfo{
		FirstName:   raw.FirstName,
		LastName:    raw.LastName,
		PhoneNumber: raw.Phone,
		Date:        data.TimeID(raw.Date),
	}
}

func normalizeSession(raw RawSession) data.Session {
	return data.Session{
		Platform:           raw.Platform,
		DeviceModel:        raw.DeviceModel,
		SystemVersion:      raw.SystemVersion,
		ApplicationName:    raw.AppName,
		ApplicationVersion: raw.AppVersion,
		Created:            data.TimeID(raw.Created),
		LastActive:         data.TimeID(raw.LastActive),
		IP:                 raw.IP,
		Country:            raw.Country,
		Region:             raw.Region,
	}
}

// ParsePeerRef converts "user<id>" or "chat<id>" to a PeerID
func ParsePeerRef(ref string) (data.PeerID, error) {
	var kind string
	switch {
	case strings.HasPrefix(ref, "user"):
		kind = "user"
	case strings.HasPrefix(ref, "chat"):
		kind = "chat"
	default:
		return 0, fmt.Errorf("invalid peer ref: %q", ref)
	}

	id, err := strconv.ParseInt(ref[len(kind):], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid peer ref: %q: %w", ref, err)
	}
	if kind == "user" {
		return data.UserPeerID(int32(id)), nil
	}
	return data.ChatPeerID(int32(id)), nil
}
