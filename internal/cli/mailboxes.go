package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mailtab/internal/provider"
)

func newMailboxesCmd() *cobra.Command {
	var sessionID string
	var showRoles bool

	cmd := &cobra.Command{
		Use:   "mailboxes",
		Short: "List the account's folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHost(sessionID)
			if err != nil {
				return err
			}
			defer h.close()

			folders, err := h.registry.Mailboxes(h.sessionID)
			if err != nil {
				return err
			}
			printFolders(cmd.OutOrStdout(), folders)

			if !showRoles {
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "")
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "ROLE\tFOLDER")
			for _, role := range provider.Roles {
				path, err := h.registry.ResolveFolder(h.sessionID, role)
				if err != nil {
					return err
				}
				if path == "" {
					path = "(unresolved)"
				}
				fmt.Fprintf(tw, "%s\t%s\n", role, path)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session identifier")
	cmd.Flags().BoolVar(&showRoles, "roles", false, "Also show resolved folder roles")

	return cmd
}
