package cmd

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/writetutor/internal/progress"
	"github.com/ziadkadry99/writetutor/internal/review"
	"github.com/ziadkadry99/writetutor/internal/terminal"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Review a text interactively in the terminal",
	Long: `Starts an interactive review. Paste a text and finish it with an empty
line; the tutor then presents each suggestion as a card you can acknowledge
or ask to have explained better. Type /salir to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		setup, err := setupTutor()
		if err != nil {
			return err
		}
		defer setup.close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// One buffer for texts and card actions.
		in := bufio.NewReader(cmd.InOrStdin())

		conv := review.NewConversation(setup.client, setup.client, review.WithLogger(logger))
		chat := terminal.NewChat(conv, in, cmd.OutOrStdout(),
			terminal.NewPromptChooser(in), progress.NewSpinner(cmd.ErrOrStderr()))
		return chat.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
