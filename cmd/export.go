package cmd

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iksnae/chat-report/internal"
	"github.com/iksnae/chat-report/internal/data"
	"github.com/iksnae/chat-report/internal/export"
	"github.com/iksnae/chat-report/internal/output"
)

var (
	inputPath     string
	outputDir     string
	format        string
	linksDomain   string
	timezone      string
	messagesSlice int
	userpicsSlice int
	copySnapshot  bool
)

// exportSummary describes a finished export run
type exportSummary struct {
	RunID    string
	MainFile string
	Files    int
	Bytes    int64
	Messages int
}

// String renders the summary as the success line of the export command
func (s *exportSummary) String() string {
	return fmt.Sprintf("Export %s complete: %s messages, %d files, %s written to %s",
		s.RunID, humanize.Comma(int64(s.Messages)), s.Files, humanize.Bytes(uint64(s.Bytes)), s.MainFile)
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a snapshot as a text report",
	Long: `Write every section of a snapshot (personal info, photos, contacts,
sessions, chats and left chats) as a tree of text files under --out.

Settings come from defaults, then the --config file, then a .env file and
CHAT_REPORT_* environment variables, then flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadExportConfig(cmd)
		if err != nil {
			return err
		}

		summary, err := runExport(cmd.Context(), cfg, inputPath, copySnapshot)
		if err != nil {
			return err
		}

		internal.PrintSuccess(summary.String())
		return nil
	},
}

// loadExportConfig layers the flags the user set over the loaded config
func loadExportConfig(cmd *cobra.Command) (*internal.Config, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("links-domain") {
		cfg.InternalLinksDomain = linksDomain
	}
	if flags.Changed("timezone") {
		cfg.Timezone = timezone
	}
	if flags.Changed("messages-slice") {
		cfg.MessagesSliceSize = messagesSlice
	}
	if flags.Changed("userpics-slice") {
		cfg.UserpicsSliceSize = userpicsSlice
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runExport loads the snapshot at input and writes it with the configured writer
func runExport(ctx context.Context, cfg *internal.Config, input string, copyInput bool) (*exportSummary, error) {
	runID := uuid.NewString()
	internal.LogDebug("Export run %s: %s -> %s", runID, input, cfg.OutputDir)

	if !verbose {
		level, err := internal.ParseLogLevel(cfg.LogLevel)
		if err != nil {
			return nil, &internal.ConfigError{Key: "log_level", Err: err}
		}
		internal.SetLogLevel(level)
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	data.SetDateLocation(location)

	writer, err := export.NewWriter(cfg.Format)
	if err != nil {
		return nil, err
	}
	settings, err := output.NewSettings(cfg.OutputDir, cfg.InternalLinksDomain)
	if err != nil {
		return nil, &internal.ConfigError{Key: "output_dir", Err: err}
	}

	if copyInput {
		copied, cleanup, err := internal.CopySnapshot(input)
		if err != nil {
			return nil, fmt.Errorf("failed to copy snapshot: %w", err)
		}
		defer func() {
			if err := cleanup(); err != nil {
				internal.LogWarn("Failed to cleanup temporary files: %v", err)
			} else {
				internal.LogDebug("Cleaned up temporary snapshot copy")
			}
		}()
		input = copied
	}

	var snapshot *data.Snapshot
	stats := &output.Stats{}
	options := export.Options{
		UserpicsSliceSize: cfg.UserpicsSliceSize,
		MessagesSliceSize: cfg.MessagesSliceSize,
	}

	steps := []internal.ProgressStep{
		{
			Message: "Loading snapshot",
			Fn: func() error {
				var loadErr error
				snapshot, loadErr = internal.LoadSnapshot(input)
				return loadErr
			},
		},
		{
			Message: fmt.Sprintf("Writing report to %s", settings.Path),
			Fn: func() error {
				if err := export.Run(ctx, writer, snapshot, settings, stats, options); err != nil {
					return &internal.ExportError{Format: cfg.Format, Path: settings.Path, Err: err}
				}
				return nil
			},
		},
	}
	if err := internal.ShowProgressWithSteps(ctx, steps); err != nil {
		return nil, err
	}

	return &exportSummary{
		RunID:    runID,
		MainFile: writer.MainFilePath(),
		Files:    stats.FilesCount(),
		Bytes:    stats.BytesCount(),
		Messages: snapshot.MessagesCount(),
	}, nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Snapshot to export (SQLite store, YAML or JSON file)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", internal.DefaultOutputDir, "Output directory")
	exportCmd.Flags().StringVarP(&format, "format", "f", internal.DefaultFormat, "Report format (text)")
	exportCmd.Flags().StringVar(&linksDomain, "links-domain", internal.DefaultInternalLinksDomain, "Domain of internal links such as game links")
	exportCmd.Flags().StringVar(&timezone, "timezone", internal.DefaultTimezone, "Timezone of dates in the report (e.g. UTC, Local, Europe/Berlin)")
	exportCmd.Flags().IntVar(&messagesSlice, "messages-slice", internal.DefaultMessagesSliceSize, "Messages handed to the writer at once")
	exportCmd.Flags().IntVar(&userpicsSlice, "userpics-slice", internal.DefaultUserpicsSliceSize, "Profile photos handed to the writer at once")
	exportCmd.Flags().BoolVar(&copySnapshot, "copy", false, "Copy the snapshot to a temporary location before reading it")
	_ = exportCmd.MarkFlagRequired("input")
}
