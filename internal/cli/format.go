package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"mailtab/internal/imap"
)

func printMessages(out io.Writer, messages []imap.MessageRecord) {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "UID\tFLAGS\tDATE\tFROM\tSUBJECT")
	for _, msg := range messages {
		flags := ""
		if !msg.IsRead {
			flags += "N"
		}
		if msg.IsStarred {
			flags += "*"
		}
		if msg.HasAttachments {
			flags += "@"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			msg.UID, flags, msg.Date.Format(time.RFC3339), msg.SenderName, msg.Subject)
	}
	_ = tw.Flush()
}

func printFolders(out io.Writer, folders []imap.FolderDescriptor) {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tATTRIBUTES")
	for _, folder := range folders {
		fmt.Fprintf(tw, "%s\t%s\n", folder.Path, strings.Join(folder.Attributes, " "))
	}
	_ = tw.Flush()
}
