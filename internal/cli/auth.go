package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mailtab/internal/config"
	"mailtab/internal/secrets"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Account and session setup",
	}
	cmd.AddCommand(newAuthLoginCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		sessionID  string
		account    string
		password   string
		providerID string

		imapHost string
		imapPort int
		imapTLS  bool

		smtpHost string
		smtpPort int
		smtpTLS  bool

		useKeyring bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save a session's connection settings",
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

			conn, _, err := store.Load(sessionID)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("account") {
				conn.Account = account
			}
			if cmd.Flags().Changed("password") {
				conn.Secret = password
			}
			if cmd.Flags().Changed("provider") {
				conn.Provider = providerID
			}
			if cmd.Flags().Changed("imap-host") {
				conn.IMAPHost = imapHost
			}
			if cmd.Flags().Changed("imap-port") {
				conn.IMAPPort = imapPort
			}
			if cmd.Flags().Changed("imap-tls") {
				conn.IMAPTLS = imapTLS
			}
			if cmd.Flags().Changed("smtp-host") {
				conn.SMTPHost = smtpHost
			}
			if cmd.Flags().Changed("smtp-port") {
				conn.SMTPPort = smtpPort
			}
			if cmd.Flags().Changed("smtp-tls") {
				conn.SMTPTLS = smtpTLS
			}

			conn = conn.ApplyPreset()
			if err := conn.Validate(); err != nil {
				return err
			}

			if useKeyring {
				if err := secrets.SetPassword(conn.Account, conn.Secret); err != nil {
					return err
				}
				// The record keeps no plaintext secret; lookups go through
				// the keyring from now on.
				conn.Secret = ""
			}

			if err := store.Save(sessionID, conn); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Session %q saved.\n", sessionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session identifier")
	cmd.Flags().StringVar(&account, "account", "", "Account email address")
	cmd.Flags().StringVar(&password, "password", "", "Password or app password")
	cmd.Flags().StringVar(&providerID, "provider", "", "Provider preset id (see mailtab providers)")

	cmd.Flags().StringVar(&imapHost, "imap-host", "", "IMAP host")
	cmd.Flags().IntVar(&imapPort, "imap-port", 0, "IMAP port")
	cmd.Flags().BoolVar(&imapTLS, "imap-tls", true, "Use implicit TLS for IMAP")

	cmd.Flags().StringVar(&smtpHost, "smtp-host", "", "SMTP host")
	cmd.Flags().IntVar(&smtpPort, "smtp-port", 0, "SMTP port")
	cmd.Flags().BoolVar(&smtpTLS, "smtp-tls", false, "Use implicit TLS for SMTP (otherwise STARTTLS)")

	cmd.Flags().BoolVar(&useKeyring, "keyring", false, "Store the password in the OS keyring instead of the session record")

	return cmd
}
