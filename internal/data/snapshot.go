package data

// DialogContent is one dialog together with all of its messages in arrival order
type DialogContent struct {
	Info     DialogInfo
	Messages []Message
}

// Snapshot is the complete extracted data model handed to an export run
type Snapshot struct {
	Personal     *PersonalInfo
	Userpics     []Photo
	Contacts     ContactsList
	Sessions     SessionsList
	Dialogs      []DialogContent
	LeftChannels []DialogContent
	Peers        Peers
}

// DialogsInfoOf collects the DialogInfo of every dialog, keeping order
func DialogsInfoOf(dialogs []DialogContent) DialogsInfo {
	list := make([]DialogInfo, 0, len(dialogs))
	for _, dialog := range dialogs {
		list = append(list, dialog.Info)
	}
	return DialogsInfo{List: list}
}

// MessagesCount returns the total number of messages across dialogs
func (s *Snapshot) MessagesCount() int {
	count := 0
	for _, dialog := range s.Dialogs {
		count += len(dialog.Messages)
	}
	for _, dialog := range s.LeftChannels {
		count += len(dialog.Messages)
	}
	return count
}
