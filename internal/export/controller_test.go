package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/chat-report/internal/data"
	"github.com/iksnae/chat-report/internal/output"
)

// recordingWriter logs every call it receives
type recordingWriter struct {
	calls  []string
	failOn string
}

func (r *recordingWriter) record(call string) error {
	r.calls = append(r.calls, call)
	if call == r.failOn {
		return errors.New("write failed")
	}
	return nil
}

func (r *recordingWriter) Start(output.Settings, *output.Stats) error { return r.record("start") }
func (r *recordingWriter) WritePersonal(data.PersonalInfo) error       { return r.record("personal") }
func (r *recordingWriter) WriteUserpicsStart(info data.UserpicsInfo) error {
	return r.record(fmt.Sprintf("userpics start %d", info.Count))
}
func (r *recordingWriter) WriteUserpicsSlice(slice data.UserpicsSlice) error {
	return r.record(fmt.Sprintf("userpics slice %d", len(slice.List)))
}
func (r *recordingWriter) WriteUserpicsEnd() error { return r.record("userpics end") }
func (r *recordingWriter) WriteContactsList(list data.ContactsList) error {
	return r.record(fmt.Sprintf("contacts %d", len(list.List)))
}
func (r *recordingWriter) WriteSessionsList(list data.SessionsList) error {
	return r.record(fmt.Sprintf("sessions %d", len(list.List)))
}
func (r *recordingWriter) WriteDialogsStart(info data.DialogsInfo) error {
	return r.record(fmt.Sprintf("dialogs start %d", len(info.List)))
}
func (r *recordingWriter) WriteDialogStart(info data.DialogInfo) error {
	return r.record("dialog start " + info.Name)
}
func (r *recordingWriter) WriteDialogSlice(slice data.MessagesSlice) error {
	return r.record(fmt.Sprintf("dialog slice %d", len(slice.List)))
}
func (r *recordingWriter) WriteDialogEnd() error  { return r.record("dialog end") }
func (r *recordingWriter) WriteDialogsEnd() error { return r.record("dialogs end") }
func (r *recordingWriter) WriteLeftChannelsStart(info data.DialogsInfo) error {
	return r.record(fmt.Sprintf("left start %d", len(info.List)))
}
func (r *recordingWriter) WriteLeftChannelStart(info data.DialogInfo) error {
	return r.record("left channel start " + info.Name)
}
func (r *recordingWriter) WriteLeftChannelSlice(slice data.MessagesSlice) error {
	return r.record(fmt.Sprintf("left channel slice %d", len(slice.List)))
}
func (r *recordingWriter) WriteLeftChannelEnd() error  { return r.record("left channel end") }
func (r *recordingWriter) WriteLeftChannelsEnd() error { return r.record("left end") }
func (r *recordingWriter) Finish() error                { return r.record("finish") }
func (r *recordingWriter) MainFilePath() string         { return "overview.txt" }
func (r *recordingWriter) Extension() string            { return "txt" }

func testMessages(count int) []data.Message {
	list := make([]data.Message, count)
	for i := range list {
		list[i] = data.Message{ID: int32(i + 1), Text: fmt.Sprintf("message %d", i+1)}
	}
	return list
}

func testSnapshot() *data.Snapshot {
	return &data.Snapshot{
		Personal: &data.PersonalInfo{User: data.User{Info: data.ContactInfo{FirstName: "Ann"}}},
		Userpics: []data.Photo{{Date: 1}, {Date: 2}, {Date: 3}},
		Contacts: data.ContactsList{List: []data.ContactInfo{{FirstName: "Bob"}}},
		Dialogs: []data.DialogContent{
			{Info: data.DialogInfo{Name: "first", RelativePath: "chats/chat_1/"}, Messages: testMessages(5)},
			{Info: data.DialogInfo{Name: "second", RelativePath: "chats/chat_2/"}},
		},
	}
}

func TestRun_CallOrder(t *testing.T) {
	writer := &recordingWriter{}
	options := Options{UserpicsSliceSize: 2, MessagesSliceSize: 2}

	err := Run(context.Background(), writer, testSnapshot(), output.Settings{Path: "/tmp/x/"}, nil, options)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"start",
		"personal",
		"userpics start 3",
		"userpics slice 2",
		"userpics slice 1",
		"userpics end",
		"contacts 1",
		"sessions 0",
		"dialogs start 2",
		"dialog start first",
		"dialog slice 2",
		"dialog slice 2",
		"dialog slice 1",
		"dialog end",
		"dialog start second",
		"dialog end",
		"dialogs end",
		"left start 0",
		"left end",
		"finish",
	}, writer.calls)
}

func TestRun_StopsOnError(t *testing.T) {
	writer := &recordingWriter{failOn: "dialog slice 2"}

	err := Run(context.Background(), writer, testSnapshot(), output.Settings{Path: "/tmp/x/"}, nil, Options{MessagesSliceSize: 2})
	require.Error(t, err)

	assert.Equal(t, "dialog slice 2", writer.calls[len(writer.calls)-1])
	assert.NotContains(t, writer.calls, "finish")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	writer := &recordingWriter{}

	err := Run(ctx, writer, testSnapshot(), output.Settings{Path: "/tmp/x/"}, nil, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, writer.calls)
}

func TestRun_DefaultsSliceSizes(t *testing.T) {
	writer := &recordingWriter{}

	require.NoError(t, Run(context.Background(), writer, testSnapshot(), output.Settings{Path: "/tmp/x/"}, nil, Options{}))
	assert.Contains(t, writer.calls, "dialog slice 5")
	assert.Contains(t, writer.calls, "userpics slice 3")
}

func TestRun_SliceSizeDoesNotChangeOutput(t *testing.T) {
	export := func(sliceSize int) string {
		dir := t.TempDir()
		settings, err := output.NewSettings(dir, "")
		require.NoError(t, err)

		stats := &output.Stats{}
		err = Run(context.Background(), &TextWriter{}, testSnapshot(), settings, stats, Options{MessagesSliceSize: sliceSize, UserpicsSliceSize: sliceSize})
		require.NoError(t, err)
		assert.Greater(t, stats.BytesCount(), int64(0))
		return readFile(t, dir, "chats/chat_1/messages.txt") + readFile(t, dir, "personal_photos.txt")
	}

	assert.Equal(t, export(100), export(1))
	assert.Equal(t, export(100), export(2))
}

func TestRun_TextWriterTree(t *testing.T) {
	dir := t.TempDir()
	settings, err := output.NewSettings(dir, "")
	require.NoError(t, err)

	stats := &output.Stats{}
	require.NoError(t, Run(context.Background(), &TextWriter{}, testSnapshot(), settings, stats, DefaultOptions()))

	for _, name := range []string{"overview.txt", "personal_photos.txt", "contacts.txt", "chats.txt", "chats/chat_1/messages.txt"} {
		assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(name)))
	}
	for _, name := range []string{"frequent.txt", "sessions.txt", "left_chats.txt", "chats/chat_2/messages.txt"} {
		assert.NoFileExists(t, filepath.Join(dir, filepath.FromSlash(name)))
	}
	assert.Equal(t, 5, stats.FilesCount())
}
