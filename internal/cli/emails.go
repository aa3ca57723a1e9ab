package cli

import (
	"github.com/spf13/cobra"
)

func newEmailsCmd() *cobra.Command {
	var sessionID string
	var limit int

	cmd := &cobra.Command{
		Use:   "emails [folder]",
		Short: "List the newest messages in a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHost(sessionID)
			if err != nil {
				return err
			}
			defer h.close()

			folder := h.appCfg.Defaults.Mailbox
			if len(args) == 1 {
				folder = args[0]
			}
			if limit <= 0 {
				limit = h.appCfg.Defaults.FetchLimit
			}

			messages, err := h.registry.Emails(h.sessionID, folder, limit)
			if err != nil {
				return err
			}

			printMessages(cmd.OutOrStdout(), messages)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session identifier")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of messages")

	return cmd
}
