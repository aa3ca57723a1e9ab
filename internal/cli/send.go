package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mailtab/internal/email"
)

func newSendCmd() *cobra.Command {
	var (
		sessionID string
		to        string
		cc        string
		bcc       string
		subject   string
		body      string
		bodyFile  string
		htmlFile  string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an email",
		RunE: func(cmd *cobra.Command, args []string) error {
			toList := splitList(to)
			if len(toList) == 0 {
				return fmt.Errorf("at least one recipient is required")
			}

			text, err := loadBody(body, bodyFile)
			if err != nil {
				return err
			}
			html := ""
			if htmlFile != "" {
				data, err := os.ReadFile(htmlFile)
				if err != nil {
					return err
				}
				html = string(data)
			}

			h, err := openHost(sessionID)
			if err != nil {
				return err
			}
			defer h.close()

			msg := email.Message{
				To:      toList,
				Cc:      splitList(cc),
				Bcc:     splitList(bcc),
				Subject: subject,
				Text:    text,
				HTML:    html,
			}
			if err := h.registry.Send(h.sessionID, msg); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Sent.")
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session identifier")
	cmd.Flags().StringVar(&to, "to", "", "Comma-separated recipients")
	cmd.Flags().StringVar(&cc, "cc", "", "Comma-separated CC recipients")
	cmd.Flags().StringVar(&bcc, "bcc", "", "Comma-separated BCC recipients")
	cmd.Flags().StringVar(&subject, "subject", "", "Message subject")
	cmd.Flags().StringVar(&body, "body", "", "Plain text body")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Path to file containing the plain text body")
	cmd.Flags().StringVar(&htmlFile, "html-file", "", "Path to file containing an HTML body")

	return cmd
}
