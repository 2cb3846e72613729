package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var verbose bool

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leadgest",
		Short: "leadgest - real-estate lead extraction",
		Long: `leadgest pulls a structured lead (type, name, email, phone, address,
beds, baths) out of a customer inquiry saved as HTML, text, Markdown, CSV,
PDF or DOCX.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(newExtractCmd())
	return rootCmd
}

// newLogger writes human-readable logs to the command's stderr.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
