package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mailtab/internal/provider"
)

func newProvidersCmd() *cobra.Command {
	var showFolders bool

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List known provider presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tIMAP\tSMTP\tNOTE")
			for _, id := range provider.PresetIDs {
				preset := provider.Presets[id]
				fmt.Fprintf(tw, "%s\t%s\t%s:%d\t%s:%d\t%s\n",
					preset.ID, preset.Name,
					preset.IMAP.Host, preset.IMAP.Port,
					preset.SMTP.Host, preset.SMTP.Port,
					preset.Note)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if !showFolders {
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "")
			tw = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tROLE\tFOLDER")
			for _, id := range provider.PresetIDs {
				for _, role := range provider.Roles {
					if path := provider.DefaultFolder(id, role); path != "" {
						fmt.Fprintf(tw, "%s\t%s\t%s\n", id, role, path)
					}
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&showFolders, "folders", false, "Also list per-role folder defaults")

	return cmd
}
