package imap

import "errors"

var (
	// ErrNotConnected is returned by any operation that requires an
	// authenticated session when there is none.
	ErrNotConnected = errors.New("not connected")

	// ErrTimeout is returned when connect or login exceeds its deadline.
	ErrTimeout = errors.New("connection timed out")

	// ErrFolderNotFound is returned when a folder role resolves to nothing:
	// no alias matched the server's folders and the provider preset declares
	// no default.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrNoMailboxOpen is returned by mutations called without a target
	// folder while no mailbox is open.
	ErrNoMailboxOpen = errors.New("no mailbox open")
)
