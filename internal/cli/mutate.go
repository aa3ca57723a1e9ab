package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newUIDActionCmd builds a command of the shape "<verb> <uid>" operating
// on one message in a mailbox through the registry.
func newUIDActionCmd(use, short, doneMsg string, action func(h *host, uid uint32, mailbox string) error) *cobra.Command {
	var sessionID string
	var mailbox string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseUID(args[0])
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
			if err := action(h, uid, mailbox); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), doneMsg)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session identifier")
	cmd.Flags().StringVar(&mailbox, "mailbox", "", "Mailbox holding the message")

	return cmd
}

func newMarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Mark messages read or unread",
	}
	cmd.AddCommand(newUIDActionCmd("read <uid>", "Mark a message as read", "Marked read.",
		func(h *host, uid uint32, mailbox string) error {
			return h.registry.MarkRead(h.sessionID, uid, mailbox)
		}))
	cmd.AddCommand(newUIDActionCmd("unread <uid>", "Mark a message as unread", "Marked unread.",
		func(h *host, uid uint32, mailbox string) error {
			return h.registry.MarkUnread(h.sessionID, uid, mailbox)
		}))
	return cmd
}

func newStarCmd() *cobra.Command {
	return newUIDActionCmd("star <uid>", "Star a message", "Starred.",
		func(h *host, uid uint32, mailbox string) error {
			return h.registry.Star(h.sessionID, uid, mailbox)
		})
}

func newUnstarCmd() *cobra.Command {
	return newUIDActionCmd("unstar <uid>", "Remove a message's star", "Unstarred.",
		func(h *host, uid uint32, mailbox string) error {
			return h.registry.Unstar(h.sessionID, uid, mailbox)
		})
}

func newArchiveCmd() *cobra.Command {
	return newUIDActionCmd("archive <uid>", "Move a message to the archive folder", "Archived.",
		func(h *host, uid uint32, mailbox string) error {
			if err := listFoldersFirst(h); err != nil {
				return err
			}
			return h.registry.Archive(h.sessionID, uid, mailbox)
		})
}

func newTrashCmd() *cobra.Command {
	return newUIDActionCmd("trash <uid>", "Move a message to the trash folder", "Trashed.",
		func(h *host, uid uint32, mailbox string) error {
			if err := listFoldersFirst(h); err != nil {
				return err
			}
			return h.registry.Trash(h.sessionID, uid, mailbox)
		})
}

func newSpamCmd() *cobra.Command {
	return newUIDActionCmd("spam <uid>", "Move a message to the spam folder", "Marked as spam.",
		func(h *host, uid uint32, mailbox string) error {
			if err := listFoldersFirst(h); err != nil {
				return err
			}
			return h.registry.Spam(h.sessionID, uid, mailbox)
		})
}

// listFoldersFirst primes the session's folder cache so role resolution
// can prefer the server's real folder names over preset defaults.
func listFoldersFirst(h *host) error {
	_, err := h.registry.Mailboxes(h.sessionID)
	return err
}

func newDeleteCmd() *cobra.Command {
	return newUIDActionCmd("delete <uid>", "Delete a message permanently", "Deleted.",
		func(h *host, uid uint32, mailbox string) error {
			return h.registry.Delete(h.sessionID, uid, mailbox)
		})
}

func newMoveCmd() *cobra.Command {
	var sessionID string
	var mailbox string

	cmd := &cobra.Command{
		Use:   "move <uid> <folder>",
		Short: "Move a message to another folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseUID(args[0])
			if err != nil {
				return err
			}
			dest := args[1]

			h, err := openHost(sessionID)
			if err != nil {
				return err
			}
			defer h.close()

			if mailbox == "" {
				mailbox = h.appCfg.Defaults.Mailbox
			}
			if err := h.registry.Move(h.sessionID, uid, mailbox, dest); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Moved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session identifier")
	cmd.Flags().StringVar(&mailbox, "mailbox", "", "Source mailbox")

	return cmd
}
