// Package session maps opaque session identifiers to live IMAP sessions
// and their SMTP senders. The registry is an explicit object owned by the
// host and injected where needed; nothing in the core holds global state.
package session

import (
	"fmt"
	"sync"

	goimap "github.com/emersion/go-imap"

	"mailtab/internal/config"
	"mailtab/internal/email"
	"mailtab/internal/imap"
	"mailtab/internal/provider"
	"mailtab/internal/smtp"
)

type Registry struct {
	// NewSession is swapped by tests to inject mock dialers.
	NewSession func() *imap.Session

	// PersistSecrets controls whether the secret is written into the saved
	// session record. It defaults to true, which stores the secret in
	// plaintext on disk; see internal/config.Store.
	PersistSecrets bool

	store              *config.Store
	insecureSkipVerify bool

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	session *imap.Session
	sender  *smtp.Sender
}

func NewRegistry(store *config.Store, insecureSkipVerify bool) *Registry {
	return &Registry{
		NewSession:         imap.NewSession,
		PersistSecrets:     true,
		store:              store,
		insecureSkipVerify: insecureSkipVerify,
		entries:            map[string]*entry{},
	}
}

func (r *Registry) newSession() *imap.Session {
	newSession := r.NewSession
	if newSession == nil {
		newSession = imap.NewSession
	}
	s := newSession()
	s.InsecureSkipVerify = r.insecureSkipVerify
	return s
}

// TestConnection is diagnostic only: it authenticates and closes without
// registering anything.
func (r *Registry) TestConnection(conn config.Connection) error {
	conn = conn.ApplyPreset()
	if err := conn.Validate(); err != nil {
		return err
	}
	return r.newSession().Test(conn)
}

// Connect opens and authenticates a session under id, replacing any
// existing one, and persists the connection record for later reconnect.
func (r *Registry) Connect(id string, conn config.Connection) error {
	conn = conn.ApplyPreset()
	if err := conn.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	if old, ok := r.entries[id]; ok {
		old.session.Disconnect()
	}
	sess := r.newSession()
	r.entries[id] = &entry{session: sess}
	r.mu.Unlock()

	if err := sess.Connect(conn); err != nil {
		return err
	}

	r.mu.Lock()
	r.entries[id].sender = smtp.NewSender(conn, r.insecureSkipVerify)
	r.mu.Unlock()

	saved := conn
	if !r.PersistSecrets {
		saved.Secret = ""
	}
	if err := r.store.Save(id, saved); err != nil {
		return fmt.Errorf("session connected but config not saved: %w", err)
	}

	return nil
}

// Disconnect closes the session under id. Unknown ids are a no-op; the
// call never fails.
func (r *Registry) Disconnect(id string) {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if ok {
		e.session.Disconnect()
	}
}

func (r *Registry) IsConnected(id string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	r.mu.Unlock()
	return ok && e.session.Ready()
}

// SavedConfig returns the persisted connection record for id, if any.
func (r *Registry) SavedConfig(id string) (config.Connection, bool, error) {
	return r.store.Load(id)
}

// Mailboxes lists and caches the session's folder tree.
func (r *Registry) Mailboxes(id string) ([]imap.FolderDescriptor, error) {
	sess, err := r.session(id)
	if err != nil {
		return nil, err
	}
	return sess.ListFolders()
}

// Emails returns the newest limit messages of a folder, newest first.
func (r *Registry) Emails(id, folder string, limit int) ([]imap.MessageRecord, error) {
	sess, err := r.session(id)
	if err != nil {
		return nil, err
	}
	return sess.FetchMessages(folder, limit)
}

// Send submits one outbound message over the session's SMTP credentials.
func (r *Registry) Send(id string, msg email.Message) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	r.mu.Unlock()
	if !ok || e.sender == nil {
		return smtp.ErrNotConnected
	}
	return e.sender.Send(msg)
}

func (r *Registry) MarkRead(id string, uid uint32, folder string) error {
	return r.setFlag(id, uid, folder, goimap.SeenFlag, true)
}

func (r *Registry) MarkUnread(id string, uid uint32, folder string) error {
	return r.setFlag(id, uid, folder, goimap.SeenFlag, false)
}

func (r *Registry) Star(id string, uid uint32, folder string) error {
	return r.setFlag(id, uid, folder, goimap.FlaggedFlag, true)
}

func (r *Registry) Unstar(id string, uid uint32, folder string) error {
	return r.setFlag(id, uid, folder, goimap.FlaggedFlag, false)
}

func (r *Registry) Archive(id string, uid uint32, folder string) error {
	return r.moveToRole(id, uid, folder, provider.RoleArchive)
}

func (r *Registry) Trash(id string, uid uint32, folder string) error {
	return r.moveToRole(id, uid, folder, provider.RoleTrash)
}

func (r *Registry) Spam(id string, uid uint32, folder string) error {
	return r.moveToRole(id, uid, folder, provider.RoleSpam)
}

func (r *Registry) Move(id string, uid uint32, folder, dest string) error {
	sess, err := r.session(id)
	if err != nil {
		return err
	}
	return sess.Move(folder, uid, dest)
}

func (r *Registry) Copy(id string, uid uint32, folder, dest string) error {
	sess, err := r.session(id)
	if err != nil {
		return err
	}
	return sess.Copy(folder, uid, dest)
}

// Delete flags the message deleted and expunges the mailbox.
func (r *Registry) Delete(id string, uid uint32, folder string) error {
	sess, err := r.session(id)
	if err != nil {
		return err
	}
	return sess.DeleteExpunge(folder, uid)
}

// ResolveFolder maps a role to a concrete path for the session, using the
// cached folder listing and the provider preset fallback.
func (r *Registry) ResolveFolder(id string, role provider.Role) (string, error) {
	sess, err := r.session(id)
	if err != nil {
		return "", err
	}
	return sess.ResolveRole(role), nil
}

func (r *Registry) setFlag(id string, uid uint32, folder, flag string, on bool) error {
	sess, err := r.session(id)
	if err != nil {
		return err
	}
	return sess.SetFlag(folder, uid, flag, on)
}

func (r *Registry) moveToRole(id string, uid uint32, folder string, role provider.Role) error {
	sess, err := r.session(id)
	if err != nil {
		return err
	}
	return sess.MoveToRole(folder, uid, role)
}

// session resolves id to a live session. Unknown ids fail fast with
// ErrNotConnected before any transport is touched.
func (r *Registry) session(id string) (*imap.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, imap.ErrNotConnected
	}
	return e.session, nil
}
