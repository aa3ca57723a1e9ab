package imap

import "time"

// State tracks the session lifecycle. Transitions are owned exclusively by
// Session; see Connect/Disconnect and the logout watcher.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// FolderDescriptor is one entry of the flattened folder tree. Path is the
// fully qualified mailbox name and is what every open/fetch/move call takes;
// Name is the leaf component.
type FolderDescriptor struct {
	Name       string
	Path       string
	Delimiter  string
	Attributes []string
	Children   []string
}

type Attachment struct {
	Filename    string
	Size        int64
	ContentType string
}

// MessageRecord is the normalized unit handed to the host. UID is the
// stable server-assigned identifier and is the only field valid for
// mutations; SeqNum is only meaningful while the mailbox stays open.
type MessageRecord struct {
	SeqNum         uint32
	UID            uint32
	MessageID      string
	SenderName     string
	SenderFull     string
	SenderAddress  string
	ReplyTo        string
	To             string
	Cc             string
	Subject        string
	Date           time.Time
	BodyText       string
	BodyHTML       string
	Flags          []string
	IsRead         bool
	IsStarred      bool
	HasAttachments bool
	Attachments    []Attachment
}
