package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mailtab/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect saved configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSessionsCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a session's saved connection record",
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := config.Load()
			if err != nil {
				return err
			}
			if sessionID == "" {
				sessionID = appCfg.Defaults.Session
			}

			store, err := config.NewStore()
			if err != nil {
				return err
			}

			conn, ok, err := store.Load(sessionID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no saved config for session %q", sessionID)
			}

			data, err := yaml.Marshal(config.Redact(conn))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s", data)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session identifier")

	return cmd
}

func newConfigSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List saved sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewStore()
			if err != nil {
				return err
			}

			ids, err := store.List()
			if err != nil {
				return err
			}

			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	return cmd
}
