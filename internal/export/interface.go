package export

import (
	"fmt"
	"strings"

	"github.com/iksnae/chat-report/internal/data"
	"github.com/iksnae/chat-report/internal/output"
)

// Writer defines the streaming interface for all export formats.
// Calls follow the fixed section order and each section is
// start, zero or more slices, end.
type Writer interface {
	Start(settings output.Settings, stats *output.Stats) error

	WritePersonal(info data.PersonalInfo) error

	WriteUserpicsStart(info data.UserpicsInfo) error
	WriteUserpicsSlice(slice data.UserpicsSlice) error
	WriteUserpicsEnd() error

	WriteContactsList(list data.ContactsList) error

	WriteSessionsList(list data.SessionsList) error

	WriteDialogsStart(info data.DialogsInfo) error
	WriteDialogStart(info data.DialogInfo) error
	WriteDialogSlice(slice data.MessagesSlice) error
	WriteDialogEnd() error
	WriteDialogsEnd() error

	WriteLeftChannelsStart(info data.DialogsInfo) error
	WriteLeftChannelStart(info data.DialogInfo) error
	WriteLeftChannelSlice(slice data.MessagesSlice) error
	WriteLeftChannelEnd() error
	WriteLeftChannelsEnd() error

	Finish() error
	MainFilePath() string
	Extension() string
}

// NewWriter creates a new writer based on format
func NewWriter(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case "text", "txt":
		return &TextWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: text)", format)
	}
}
