package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mailtab/internal/email"
)

func newReplyCmd() *cobra.Command {
	var (
		sessionID string
		mailbox   string
		subject   string
		body      string
		bodyFile  string
	)

	cmd := &cobra.Command{
		Use:   "reply <uid>",
		Short: "Reply to a message by UID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseUID(args[0])
			if err != nil {
				return err
			}

			text, err := loadBody(body, bodyFile)
			if err != nil {
				return err
			}

			h, err := openHost(sessionID)
			if err != nil {
				return err
			}
			defer h.close()

			if mailbox == "" {
				mailbox = h.appCfg.Defaults.Mailbox
			}
			limit := h.appCfg.Defaults.FetchLimit
			messages, err := h.registry.Emails(h.sessionID, mailbox, limit)
			if err != nil {
				return err
			}

			for _, msg := range messages {
				if msg.UID != uid {
					continue
				}
				if msg.ReplyTo == "" {
					return fmt.Errorf("message %d has no usable sender address", uid)
				}
				if subject == "" {
					subject = "Re: " + msg.Subject
				}
				reply := email.Message{
					To:        []string{msg.ReplyTo},
					Subject:   subject,
					Text:      text,
					InReplyTo: msg.MessageID,
				}
				if err := h.registry.Send(h.sessionID, reply); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Sent.")
				return nil
			}

			return fmt.Errorf("message %d not found in the newest %d of %s", uid, limit, mailbox)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session identifier")
	cmd.Flags().StringVar(&mailbox, "mailbox", "", "Mailbox holding the message")
	cmd.Flags().StringVar(&subject, "subject", "", "Reply subject (defaults to Re: original)")
	cmd.Flags().StringVar(&body, "body", "", "Reply body")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Path to file containing the reply body")

	return cmd
}
