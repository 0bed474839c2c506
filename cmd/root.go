package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/chat-report/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chat-report",
	Short: "Write chat history snapshots as plain-text reports",
	Long: `A CLI tool that turns an extracted chat history snapshot into a tree of
human-readable text files.

A snapshot is either a SQLite store with an exportKV table or a YAML/JSON
file. The report holds an overview, personal photos, contacts, frequent
contacts, sessions, a chats list and one messages file per chat.

Quick Start:
  chat-report inspect snapshot.db                 # Summarize a snapshot
  chat-report export --input snapshot.db --out ./report
  chat-report export -i snapshot.yaml --config chat-report.yaml

For detailed usage, see: https://github.com/iksnae/chat-report`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(fmt.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (.yaml, .yml or .toml)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
