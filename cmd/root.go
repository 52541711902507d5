package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/writetutor/internal/config"
)

var (
	cfgFile string
	verbose bool
	logger  = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "writetutor",
	Short: "A patient Spanish writing tutor backed by an LLM",
	Long: `writetutor sends your Spanish text to a language model and walks you
through its suggestions one at a time, grounded in the RAE "Libro de estilo
de la lengua española". Ask for a deeper explanation of any suggestion, in
the terminal, in the browser dashboard, or from an AI agent over MCP.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
