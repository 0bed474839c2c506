package export

import (
	"context"

	"github.com/iksnae/chat-report/internal"
	"github.com/iksnae/chat-report/internal/data"
	"github.com/iksnae/chat-report/internal/output"
)

// Options controls how a snapshot is fed to a Writer
type Options struct {
	UserpicsSliceSize int
	MessagesSliceSize int
}

// DefaultOptions returns the slice sizes used when none are configured
func DefaultOptions() Options {
	return Options{
		UserpicsSliceSize: internal.DefaultUserpicsSliceSize,
		MessagesSliceSize: internal.DefaultMessagesSliceSize,
	}
}

// controller drives one Writer through every section of a snapshot
type controller struct {
	ctx      context.Context
	writer   Writer
	snapshot *data.Snapshot
	options  Options
}

// Run exports snapshot through writer in the fixed section order.
// It stops at the first write error or when ctx is done; files written
// so far are left in place.
func Run(ctx context.Context, writer Writer, snapshot *data.Snapshot, settings output.Settings, stats *output.Stats, options Options) error {
	if options.UserpicsSliceSize <= 0 {
		options.UserpicsSliceSize = internal.DefaultUserpicsSliceSize
	}
	if options.MessagesSliceSize <= 0 {
		options.MessagesSliceSize = internal.DefaultMessagesSliceSize
	}

	c := &controller{ctx: ctx, writer: writer, snapshot: snapshot, options: options}
	steps := []func() error{
		func() error { return writer.Start(settings, stats) },
		c.exportPersonal,
		c.exportUserpics,
		c.exportContacts,
		c.exportSessions,
		c.exportDialogs,
		c.exportLeftChannels,
		writer.Finish,
	}
	for _, step := range steps {
		if err := c.call(step); err != nil {
			return err
		}
	}

	internal.LogDebug("Export finished: %s", writer.MainFilePath())
	return nil
}

// call runs fn unless the export was cancelled
func (c *controller) call(fn func() error) error {
	if err := c.ctx.Err(); err != nil {
		return err
	}
	return fn()
}

func (c *controller) exportPersonal() error {
	if c.snapshot.Personal == nil {
		return nil
	}
	internal.LogDebug("Writing personal information")
	return c.writer.WritePersonal(*c.snapshot.Personal)
}

func (c *controller) exportUserpics() error {
	userpics := c.snapshot.Userpics
	internal.LogDebug("Writing %d personal photos", len(userpics))

	if err := c.writer.WriteUserpicsStart(data.UserpicsInfo{Count: len(userpics)}); err != nil {
		return err
	}
	for start := 0; start < len(userpics); start += c.options.UserpicsSliceSize {
		end := min(start+c.options.UserpicsSliceSize, len(userpics))
		slice := data.UserpicsSlice{List: userpics[start:end]}
		if err := c.call(func() error { return c.writer.WriteUserpicsSlice(slice) }); err != nil {
			return err
		}
	}
	return c.call(c.writer.WriteUserpicsEnd)
}

func (c *controller) exportContacts() error {
	internal.LogDebug("Writing %d contacts", len(c.snapshot.Contacts.List))
	return c.writer.WriteContactsList(c.snapshot.Contacts)
}

func (c *controller) exportSessions() error {
	internal.LogDebug("Writing %d sessions", len(c.snapshot.Sessions.List))
	return c.writer.WriteSessionsList(c.snapshot.Sessions)
}

// chatSection binds the writer methods of one dialog-list section
type chatSection struct {
	name      string
	start     func(data.DialogsInfo) error
	chatStart func(data.DialogInfo) error
	chatSlice func(data.MessagesSlice) error
	chatEnd   func() error
	end       func() error
}

func (c *controller) exportDialogs() error {
	return c.exportChats(c.snapshot.Dialogs, chatSection{
		name:      "chats",
		start:     c.writer.WriteDialogsStart,
		chatStart: c.writer.WriteDialogStart,
		chatSlice: c.writer.WriteDialogSlice,
		chatEnd:   c.writer.WriteDialogEnd,
		end:       c.writer.WriteDialogsEnd,
	})
}

func (c *controller) exportLeftChannels() error {
	return c.exportChats(c.snapshot.LeftChannels, chatSection{
		name:      "left chats",
		start:     c.writer.WriteLeftChannelsStart,
		chatStart: c.writer.WriteLeftChannelStart,
		chatSlice: c.writer.WriteLeftChannelSlice,
		chatEnd:   c.writer.WriteLeftChannelEnd,
		end:       c.writer.WriteLeftChannelsEnd,
	})
}

func (c *controller) exportChats(dialogs []data.DialogContent, section chatSection) error {
	internal.LogDebug("Writing %d %s", len(dialogs), section.name)

	if err := section.start(data.DialogsInfoOf(dialogs)); err != nil {
		return err
	}
	for i := range dialogs {
		if err := c.exportChat(&dialogs[i], section); err != nil {
			return err
		}
	}
	return c.call(section.end)
}

func (c *controller) exportChat(dialog *data.DialogContent, section chatSection) error {
	if err := c.call(func() error { return section.chatStart(dialog.Info) }); err != nil {
		return err
	}

	messages := dialog.Messages
	for start := 0; start < len(messages); start += c.options.MessagesSliceSize {
		end := min(start+c.options.MessagesSliceSize, len(messages))
		slice := data.MessagesSlice{List: messages[start:end], Peers: c.snapshot.Peers}
		if err := c.call(func() error { return section.chatSlice(slice) }); err != nil {
			return err
		}
	}
	internal.LogDebug("Wrote %d messages of %q", len(messages), dialog.Info.Name)
	return c.call(section.chatEnd)
}
