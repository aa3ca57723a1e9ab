package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mailtab",
		Short:        "mailtab is the mail engine of a tabbed IMAP/SMTP client",
		SilenceUsage: true,
	}

	cmd.AddCommand(newProvidersCmd())
	cmd.AddCommand(newAuthCmd())
	cmd.AddCommand(newTestCmd())
	cmd.AddCommand(newMailboxesCmd())
	cmd.AddCommand(newEmailsCmd())
	cmd.AddCommand(newSendCmd())
	cmd.AddCommand(newReplyCmd())
	cmd.AddCommand(newMarkCmd())
	cmd.AddCommand(newStarCmd())
	cmd.AddCommand(newUnstarCmd())
	cmd.AddCommand(newArchiveCmd())
	cmd.AddCommand(newTrashCmd())
	cmd.AddCommand(newSpamCmd())
	cmd.AddCommand(newMoveCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newConfigCmd())

	cmd.SetErr(os.Stderr)
	cmd.SetOut(os.Stdout)

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
