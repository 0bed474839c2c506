package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iksnae/chat-report/internal/data"
	"github.com/iksnae/chat-report/internal/output"
)

const (
	mainFileRelativePath = "overview.txt"
	userpicsFileName     = "personal_photos.txt"
	contactsFileName     = "contacts.txt"
	frequentFileName     = "frequent.txt"
	sessionsFileName     = "sessions.txt"
	dialogsFileName      = "chats.txt"
	leftChannelsFileName = "left_chats.txt"
	messagesFileName     = "messages.txt"
)

// userpicsState exists while the userpics section is open.
// file is nil when the section has no items.
type userpicsState struct {
	file  *output.File
	count int
}

// chatsState exists while a dialogs or left channels section is open.
// file is nil when the section has no items.
type chatsState struct {
	file  *output.File
	count int
	index int
}

// chatState exists while one dialog is open
type chatState struct {
	file          *output.File
	info          data.DialogInfo
	relativePath  string
	messagesCount int
}

// TextWriter writes an export as a tree of plain-text files
type TextWriter struct {
	settings output.Settings
	stats    *output.Stats
	summary  *output.File

	userpics *userpicsState
	chats    *chatsState
	chat     *chatState
}

// Extension returns the file extension for this format
func (w *TextWriter) Extension() string {
	return "txt"
}

// Start prepares the writer for one export into settings.Path
func (w *TextWriter) Start(settings output.Settings, stats *output.Stats) error {
	expects(strings.HasSuffix(settings.Path, "/"), "export path %q must end with a slash", settings.Path)

	w.settings = settings
	w.stats = stats
	w.summary = w.fileWithRelativePath(mainFileRelativePath)
	w.userpics = nil
	w.chats = nil
	w.chat = nil
	return nil
}

// MainFilePath returns the absolute path of the summary file
func (w *TextWriter) MainFilePath() string {
	if w.summary != nil {
		return w.summary.Path()
	}
	return w.settings.PathWithRelativePath(mainFileRelativePath)
}

// Finish completes the export
func (w *TextWriter) Finish() error {
	w.expectStarted()
	expects(w.userpics == nil && w.chats == nil, "finish with a section still open")
	return nil
}

func (w *TextWriter) fileWithRelativePath(path string) *output.File {
	return output.NewFile(w.settings.PathWithRelativePath(path), w.stats)
}

func (w *TextWriter) expectStarted() {
	expects(w.summary != nil, "writer is not started")
}

func (w *TextWriter) expectNoSection() {
	expects(w.userpics == nil, "userpics section is already open")
	expects(w.chats == nil, "chats section is already open")
}

func (w *TextWriter) writeSummaryHeader(section string, count int, fileName string) error {
	header := section + " (" + data.NumberToString(count) + ") - " + fileName +
		lineBreak + lineBreak
	return w.summary.WriteBlock([]byte(header))
}

// WritePersonal writes the account owner's record into the summary
func (w *TextWriter) WritePersonal(personal data.PersonalInfo) error {
	w.expectStarted()

	info := personal.User.Info
	serialized := serializeKeyValue([]keyValue{
		{key: "First name", value: info.FirstName},
		{key: "Last name", value: info.LastName},
		{key: "Phone number", value: data.FormatPhoneNumber(info.PhoneNumber)},
		{key: "Username", value: data.FormatUsername(personal.User.Username)},
		{key: "Bio", value: personal.Bio},
	}) + lineBreak
	return w.summary.WriteBlock([]byte(serialized))
}

// WriteUserpicsStart opens the profile photos section
func (w *TextWriter) WriteUserpicsStart(info data.UserpicsInfo) error {
	w.expectStarted()
	w.expectNoSection()

	w.userpics = &userpicsState{count: info.Count}
	if info.Count == 0 {
		return nil
	}
	w.userpics.file = w.fileWithRelativePath(userpicsFileName)
	return w.writeSummaryHeader("Personal photos", info.Count, userpicsFileName)
}

// WriteUserpicsSlice appends a batch of profile photos
func (w *TextWriter) WriteUserpicsSlice(slice data.UserpicsSlice) error {
	expects(w.userpics != nil && w.userpics.file != nil, "userpics slice without an open userpics file")
	expects(len(slice.List) > 0, "empty userpics slice")

	lines := make([]string, 0, len(slice.List))
	for _, userpic := range slice.List {
		if userpic.Date == 0 {
			lines = append(lines, "(deleted photo)")
			continue
		}
		photo := userpic.Image.File.RelativePath
		if photo == "" {
			photo = "(file unavailable)"
		}
		lines = append(lines, serializeKeyValue([]keyValue{
			{key: "Date", value: data.FormatDateTime(userpic.Date)},
			{key: "Photo", value: photo},
		}))
	}
	return w.userpics.file.WriteBlock([]byte(joinList(lineBreak, lines) + lineBreak))
}

// WriteUserpicsEnd closes the profile photos section
func (w *TextWriter) WriteUserpicsEnd() error {
	expects(w.userpics != nil, "userpics end without start")
	w.userpics = nil
	return nil
}

// WriteContactsList writes saved contacts and frequent contacts
func (w *TextWriter) WriteContactsList(list data.ContactsList) error {
	w.expectStarted()
	w.expectNoSection()

	if err := w.writeSavedContacts(list); err != nil {
		return err
	}
	return w.writeFrequentContacts(list)
}

func (w *TextWriter) writeSavedContacts(list data.ContactsList) error {
	if len(list.List) == 0 {
		return nil
	}

	records := make([]string, 0, len(list.List))
	for _, index := range data.SortedContactsIndices(list) {
		contact := list.List[index]
		if contact.FirstName == "" && contact.LastName == "" && contact.PhoneNumber == "" {
			records = append(records, "(deleted user)"+lineBreak)
			continue
		}
		records = append(records, serializeKeyValue([]keyValue{
			{key: "First name", value: contact.FirstName},
			{key: "Last name", value: contact.LastName},
			{key: "Phone number", value: data.FormatPhoneNumber(contact.PhoneNumber)},
			{key: "Date", value: data.FormatDateTime(contact.Date)},
		}))
	}

	file := w.fileWithRelativePath(contactsFileName)
	if err := file.WriteBlock([]byte(joinList(lineBreak, records))); err != nil {
		return err
	}
	return w.writeSummaryHeader("Contacts", len(list.List), contactsFileName)
}

func (w *TextWriter) writeFrequentContacts(list data.ContactsList) error {
	size := len(list.Correspondents) + len(list.InlineBots) + len(list.PhoneCalls)
	if size == 0 {
		return nil
	}

	records := make([]string, 0, size)
	appendCategory := func(peers []data.TopPeer, category string) {
		for _, top := range peers {
			records = append(records, serializeTopPeer(top, category))
		}
	}
	appendCategory(list.Correspondents, "Correspondents")
	appendCategory(list.InlineBots, "Inline bots")
	appendCategory(list.PhoneCalls, "Calls")

	file := w.fileWithRelativePath(frequentFileName)
	if err := file.WriteBlock([]byte(joinList(lineBreak, records))); err != nil {
		return err
	}
	return w.writeSummaryHeader("Frequent contacts", size, frequentFileName)
}

func serializeTopPeer(top data.TopPeer, category string) string {
	var user, chatType, chat string
	if top.Peer.User != nil {
		user = top.Peer.Name()
		if user == "" {
			user = "(deleted user)"
		}
	}
	if c := top.Peer.Chat; c != nil {
		switch {
		case c.Username == "" && c.Broadcast:
			chatType = "Private channel"
		case c.Username == "":
			chatType = "Private group"
		case c.Broadcast:
			chatType = "Public channel"
		default:
			chatType = "Public group"
		}
		chat = top.Peer.Name()
		if chat == "" {
			chat = "(deleted chat)"
		}
	}
	return serializeKeyValue([]keyValue{
		{key: "Category", value: category},
		{key: "User", value: user},
		{key: chatType, value: chat},
		{key: "Rating", value: data.FormatRating(top.Rating)},
	})
}

// WriteSessionsList writes all authorized sessions
func (w *TextWriter) WriteSessionsList(list data.SessionsList) error {
	w.expectStarted()
	w.expectNoSection()

	if len(list.List) == 0 {
		return nil
	}

	records := make([]string, 0, len(list.List))
	for _, session := range list.List {
		applicationName := session.ApplicationName
		if applicationName == "" {
			applicationName = "(unknown)"
		}
		records = append(records, serializeKeyValue([]keyValue{
			{key: "Last active", value: data.FormatDateTime(session.LastActive)},
			{key: "Last IP address", value: session.IP},
			{key: "Last country", value: session.Country},
			{key: "Last region", value: session.Region},
			{key: "Application name", value: applicationName},
			{key: "Application version", value: session.ApplicationVersion},
			{key: "Device model", value: session.DeviceModel},
			{key: "Platform", value: session.Platform},
			{key: "System version", value: session.SystemVersion},
			{key: "Created", value: data.FormatDateTime(session.Created)},
		}))
	}

	file := w.fileWithRelativePath(sessionsFileName)
	if err := file.WriteBlock([]byte(joinList(lineBreak, records))); err != nil {
		return err
	}
	return w.writeSummaryHeader("Sessions", len(list.List), sessionsFileName)
}

// WriteDialogsStart opens the chats section
func (w *TextWriter) WriteDialogsStart(info data.DialogsInfo) error {
	return w.writeChatsStart(info, "Chats", dialogsFileName)
}

// WriteDialogStart opens one dialog of the chats section
func (w *TextWriter) WriteDialogStart(info data.DialogInfo) error {
	return w.writeChatStart(info)
}

// WriteDialogSlice appends a batch of messages to the open dialog
func (w *TextWriter) WriteDialogSlice(slice data.MessagesSlice) error {
	return w.writeChatSlice(slice)
}

// WriteDialogEnd closes the open dialog and lists it in chats.txt
func (w *TextWriter) WriteDialogEnd() error {
	return w.writeChatEnd()
}

// WriteDialogsEnd closes the chats section
func (w *TextWriter) WriteDialogsEnd() error {
	return w.writeChatsEnd()
}

// WriteLeftChannelsStart opens the left chats section
func (w *TextWriter) WriteLeftChannelsStart(info data.DialogsInfo) error {
	return w.writeChatsStart(info, "Left chats", leftChannelsFileName)
}

// WriteLeftChannelStart opens one left channel
func (w *TextWriter) WriteLeftChannelStart(info data.DialogInfo) error {
	return w.writeChatStart(info)
}

// WriteLeftChannelSlice appends a batch of messages to the open left channel
func (w *TextWriter) WriteLeftChannelSlice(slice data.MessagesSlice) error {
	return w.writeChatSlice(slice)
}

// WriteLeftChannelEnd closes the open left channel and lists it in left_chats.txt
func (w *TextWriter) WriteLeftChannelEnd() error {
	return w.writeChatEnd()
}

// WriteLeftChannelsEnd closes the left chats section
func (w *TextWriter) WriteLeftChannelsEnd() error {
	return w.writeChatsEnd()
}

func (w *TextWriter) writeChatsStart(info data.DialogsInfo, listName, fileName string) error {
	w.expectStarted()
	w.expectNoSection()

	w.chats = &chatsState{count: len(info.List)}
	if len(info.List) == 0 {
		return nil
	}
	w.chats.file = w.fileWithRelativePath(fileName)
	return w.writeSummaryHeader(listName, len(info.List), fileName)
}

func (w *TextWriter) writeChatStart(info data.DialogInfo) error {
	expects(w.chats != nil, "dialog start without an open chats section")
	expects(w.chat == nil, "dialog is already open")
	expects(w.chats.index < w.chats.count, "dialog %d exceeds announced count %d", w.chats.index+1, w.chats.count)

	digits := len(data.NumberToString(w.chats.count - 1))
	w.chats.index++
	number := data.PaddedNumber(w.chats.index, digits)

	relativePath := info.RelativePath
	if relativePath == "" {
		relativePath = "chats/chat_" + number + "/"
	}
	if !filepath.IsLocal(filepath.FromSlash(relativePath)) {
		return fmt.Errorf("dialog %q: path %q is outside the output directory", info.Name, relativePath)
	}

	w.chat = &chatState{
		file:         w.fileWithRelativePath(relativePath + messagesFileName),
		info:         info,
		relativePath: relativePath,
	}
	return nil
}

func (w *TextWriter) writeChatSlice(slice data.MessagesSlice) error {
	expects(w.chat != nil, "messages slice without an open dialog")
	expects(len(slice.List) > 0, "empty messages slice")

	w.chat.messagesCount += len(slice.List)
	records := make([]string, 0, len(slice.List))
	for i := range slice.List {
		records = append(records, serializeMessage(&slice.List[i], slice.Peers, w.settings.InternalLinksDomain))
	}

	full := joinList(lineBreak, records)
	if !w.chat.file.Empty() {
		full = lineBreak + full
	}
	return w.chat.file.WriteBlock([]byte(full))
}

func (w *TextWriter) writeChatEnd() error {
	expects(w.chats != nil && w.chats.file != nil, "dialog end without an open chats file")
	expects(w.chat != nil, "dialog end without start")

	chat := w.chat
	w.chat = nil

	countLabel := "Messages count"
	if chat.info.OnlyMyMessages {
		countLabel = "Outgoing messages count"
	}
	content := ""
	if chat.messagesCount > 0 {
		content = chat.relativePath + messagesFileName
	}

	record := serializeKeyValue([]keyValue{
		{key: "Name", value: dialogNameText(chat.info.Name, chat.info.Type)},
		{key: "Type", value: dialogTypeText(chat.info.Type)},
		{key: countLabel, value: data.NumberToString(chat.messagesCount)},
		{key: "Content", value: content},
	}) + lineBreak
	return w.chats.file.WriteBlock([]byte(record))
}

func (w *TextWriter) writeChatsEnd() error {
	expects(w.chats != nil, "chats end without start")
	expects(w.chat == nil, "chats end with a dialog still open")
	w.chats = nil
	return nil
}

func dialogTypeText(dialogType data.DialogType) string {
	switch dialogType {
	case data.DialogTypeUnknown:
		return "(unknown)"
	case data.DialogTypePersonal:
		return "Personal chat"
	case data.DialogTypeBot:
		return "Bot chat"
	case data.DialogTypePrivateGroup:
		return "Private group"
	case data.DialogTypePublicGroup:
		return "Public group"
	case data.DialogTypePrivateChannel:
		return "Private channel"
	case data.DialogTypePublicChannel:
		return "Public channel"
	}
	return ""
}

func dialogNameText(name string, dialogType data.DialogType) string {
	if name != "" {
		return name
	}
	switch dialogType {
	case data.DialogTypePersonal:
		return "(deleted user)"
	case data.DialogTypeBot:
		return "(deleted bot)"
	case data.DialogTypePrivateGroup, data.DialogTypePublicGroup:
		return "(deleted group)"
	case data.DialogTypePrivateChannel, data.DialogTypePublicChannel:
		return "(deleted channel)"
	}
	return "(unknown)"
}
