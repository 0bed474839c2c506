package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iksnae/chat-report/internal"
)

var inspectFormat string

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <snapshot>",
	Short: "Summarize the contents of a snapshot",
	Long: `Show what a snapshot holds before exporting it: record counts per
section and the messages of every dialog.

Examples:
  chat-report inspect snapshot.db                 # Text summary
  chat-report inspect snapshot.db --format yaml   # Dump the raw records as YAML`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		format, err := internal.DetectSnapshotFormat(path)
		if err != nil {
			return err
		}
		raw, err := internal.LoadRawSnapshot(path)
		if err != nil {
			return err
		}

		switch inspectFormat {
		case "text":
			info, err := os.Stat(path)
			if err != nil {
				return &internal.StorageError{Path: path, Op: "open", Err: err}
			}
			return printSnapshotSummary(cmd.OutOrStdout(), path, format, info.Size(), raw)
		case "yaml":
			encoder := yaml.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent(2)
			if err := encoder.Encode(raw); err != nil {
				return fmt.Errorf("failed to encode snapshot: %w", err)
			}
			return encoder.Close()
		}
		return fmt.Errorf("unsupported format: %s (supported: text, yaml)", inspectFormat)
	},
}

func printSnapshotSummary(w io.Writer, path string, format internal.SnapshotFormat, size int64, raw *internal.RawSnapshot) error {
	messages := 0
	for _, dialog := range raw.Dialogs {
		messages += len(dialog.Messages)
	}
	for _, dialog := range raw.LeftChannels {
		messages += len(dialog.Messages)
	}

	owner := "(none)"
	if raw.Personal != nil {
		owner = fmt.Sprintf("%s %s", raw.Personal.FirstName, raw.Personal.LastName)
	}

	fmt.Fprintln(w, internal.HeaderStyle.Render("Snapshot"))
	fmt.Fprintf(w, "  Path:      %s\n", path)
	fmt.Fprintf(w, "  Format:    %s\n", format)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.Bytes(uint64(size)))
	fmt.Fprintf(w, "  Owner:     %s\n", owner)
	fmt.Fprintln(w)

	fmt.Fprintln(w, internal.HeaderStyle.Render("Records"))
	counts := []struct {
		name  string
		count int
	}{
		{"Userpics", len(raw.Userpics)},
		{"Contacts", len(raw.Contacts)},
		{"Frequent", len(raw.Frequent)},
		{"Sessions", len(raw.Sessions)},
		{"Peers", len(raw.Peers)},
		{"Chats", len(raw.Dialogs)},
		{"Left chats", len(raw.LeftChannels)},
		{"Messages", messages},
	}
	for _, c := range counts {
		fmt.Fprintf(w, "  %-10s %s\n", c.name+":", humanize.Comma(int64(c.count)))
	}

	if len(raw.Dialogs)+len(raw.LeftChannels) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, internal.HeaderStyle.Render("Chats"))
	for _, dialog := range raw.Dialogs {
		printDialogLine(w, dialog, false)
	}
	for _, dialog := range raw.LeftChannels {
		printDialogLine(w, dialog, true)
	}
	return nil
}

func printDialogLine(w io.Writer, dialog internal.RawDialog, left bool) {
	name := dialog.Name
	if name == "" {
		name = "(unknown)"
	}
	suffix := ""
	if left {
		suffix = " [left]"
	}
	fmt.Fprintf(w, "  %-30s %-16s %s messages%s\n", name, dialog.Type, humanize.Comma(int64(len(dialog.Messages))), suffix)
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format (text, yaml)")
}
