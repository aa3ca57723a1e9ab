package imap

import (
	"fmt"

	"github.com/emersion/go-imap"

	"mailtab/internal/provider"
)

// Mutations take the stable UID, never the sequence number. folder may be
// empty to target the currently open mailbox; a different folder is
// re-opened read-write first.

// SetFlag adds or removes a single flag on one message.
func (s *Session) SetFlag(folder string, uid uint32, flag string, on bool) error {
	c, err := s.ensureSelected(folder, false)
	if err != nil {
		return err
	}

	// Only SetFlags carries the FlagsOp type in go-imap; the add and remove
	// constants are untyped strings.
	op := imap.FlagsOp(imap.AddFlags)
	if !on {
		op = imap.RemoveFlags
	}
	item := imap.FormatFlagsOp(op, true)
	if err := c.UidStore(uidSet(uid), item, []interface{}{flag}, nil); err != nil {
		return fmt.Errorf("store flags: %w", err)
	}

	return nil
}

// Move relocates a message server-side in a single MOVE call. There is no
// copy+delete fallback; servers without MOVE surface the rejection.
func (s *Session) Move(folder string, uid uint32, dest string) error {
	c, err := s.ensureSelected(folder, false)
	if err != nil {
		return err
	}

	if err := c.UidMove(uidSet(uid), dest); err != nil {
		return fmt.Errorf("move to %s: %w", dest, err)
	}

	return nil
}

// Copy duplicates a message into dest, leaving the original in place.
func (s *Session) Copy(folder string, uid uint32, dest string) error {
	c, err := s.ensureSelected(folder, false)
	if err != nil {
		return err
	}

	if err := c.UidCopy(uidSet(uid), dest); err != nil {
		return fmt.Errorf("copy to %s: %w", dest, err)
	}

	return nil
}

// MoveToRole resolves a folder role and moves the message there.
func (s *Session) MoveToRole(folder string, uid uint32, role provider.Role) error {
	dest := s.ResolveRole(role)
	if dest == "" {
		return fmt.Errorf("%s: %w", role, ErrFolderNotFound)
	}

	return s.Move(folder, uid, dest)
}

// DeleteExpunge flags the message \Deleted and expunges the mailbox. When
// the expunge fails after a successful flag store, the error is surfaced:
// the message is left flagged but present, and the host needs to know.
func (s *Session) DeleteExpunge(folder string, uid uint32) error {
	c, err := s.ensureSelected(folder, false)
	if err != nil {
		return err
	}

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := c.UidStore(uidSet(uid), item, []interface{}{imap.DeletedFlag}, nil); err != nil {
		return fmt.Errorf("store deleted flag: %w", err)
	}

	ch := make(chan uint32)
	done := make(chan error, 1)
	go func() {
		done <- c.Expunge(ch)
	}()
	for range ch {
	}
	if err := <-done; err != nil {
		return fmt.Errorf("expunge (message %d is flagged deleted but not removed): %w", uid, err)
	}

	return nil
}

func uidSet(uid uint32) *imap.SeqSet {
	seqset := new(imap.SeqSet)
	seqset.AddNum(uid)
	return seqset
}
