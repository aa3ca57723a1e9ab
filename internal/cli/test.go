package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mailtab/internal/session"
)

func newTestCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test a session's IMAP connection and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadSessionEnv(sessionID)
			if err != nil {
				return err
			}

			registry := session.NewRegistry(env.store, env.appCfg.Network.InsecureSkipVerify)
			if err := registry.TestConnection(env.conn); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Connection OK.")
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session identifier")

	return cmd
}
