package imap

import (
	"fmt"
	"sync"
	"time"

	"github.com/emersion/go-imap"

	"mailtab/internal/config"
)

const (
	connectTimeout = 15 * time.Second
	loginTimeout   = 10 * time.Second
	commandTimeout = 30 * time.Second

	// noopInterval keeps the connection warm; refreshInterval re-opens the
	// selected mailbox so servers that expire idle selections don't drop us.
	noopInterval    = 10 * time.Second
	refreshInterval = 5 * time.Minute

	// logoutGrace is how long Disconnect waits for a polite LOGOUT before
	// tearing the socket down.
	logoutGrace = 5 * time.Second
)

// Session owns one IMAP connection's lifecycle: state machine, keepalive,
// the cached folder listing, and which mailbox is currently open. Top-level
// calls are not queued internally; concurrent host calls against one
// session must be serialized by the host.
type Session struct {
	// Dial is swapped out by tests.
	Dial DialFunc

	// InsecureSkipVerify disables TLS certificate verification, for
	// self-hosted servers with self-signed certificates.
	InsecureSkipVerify bool

	mu       sync.Mutex
	state    State
	client   Client
	conn     config.Connection
	folders  []FolderDescriptor
	openPath string
	openRead bool
	stop     chan struct{}
}

func NewSession() *Session {
	return &Session{Dial: Dial}
}

// Test opens a session, authenticates and closes it again, persisting
// nothing. Purely diagnostic.
func (s *Session) Test(conn config.Connection) error {
	c, err := s.dial(conn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	if err := login(c, conn.Account, conn.Secret, loginTimeout); err != nil {
		_ = c.Terminate()
		return fmt.Errorf("authenticate: %w", err)
	}

	_ = c.Logout()
	return nil
}

// Connect dials and authenticates. On success the session is Authenticated
// and the keepalive loop is running; on failure it is Failed and a later
// Connect starts cleanly.
func (s *Session) Connect(conn config.Connection) error {
	s.mu.Lock()
	if s.state == StateConnecting {
		s.mu.Unlock()
		return fmt.Errorf("connect already in progress")
	}
	if s.state == StateAuthenticated {
		s.closeLocked()
	}
	s.state = StateConnecting
	s.mu.Unlock()

	c, err := s.dial(conn)
	if err != nil {
		s.fail()
		return fmt.Errorf("connect: %w", err)
	}

	if err := login(c, conn.Account, conn.Secret, loginTimeout); err != nil {
		_ = c.Terminate()
		s.fail()
		return fmt.Errorf("authenticate: %w", err)
	}

	stop := make(chan struct{})

	s.mu.Lock()
	s.state = StateAuthenticated
	s.client = c
	s.conn = conn
	s.folders = nil
	s.openPath = ""
	s.openRead = false
	s.stop = stop
	s.mu.Unlock()

	go s.keepalive(c, stop)
	go s.watchLogout(c, stop)

	return nil
}

// Disconnect is best-effort and idempotent: it never fails, even when the
// underlying connection is already gone.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
	s.state = StateDisconnected
}

// Ready reports whether operations may proceed. The transport state is
// double-checked because an unsolicited logout can race the state machine.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readyLocked()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns the connection settings this session was opened with.
func (s *Session) Config() config.Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// OpenMailbox reports the currently selected folder path, if any.
func (s *Session) OpenMailbox() (path string, readOnly bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openPath, s.openRead
}

func (s *Session) dial(conn config.Connection) (Client, error) {
	dial := s.Dial
	if dial == nil {
		dial = Dial
	}
	return dial(conn, s.InsecureSkipVerify)
}

func (s *Session) fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateFailed
	s.client = nil
	s.openPath = ""
}

func (s *Session) readyLocked() bool {
	if s.state != StateAuthenticated || s.client == nil {
		return false
	}
	return s.client.State()&imap.AuthenticatedState == imap.AuthenticatedState
}

// ready hands out the live client for one operation. Borrowers must not
// retain it past the call.
func (s *Session) ready() (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.readyLocked() {
		return nil, ErrNotConnected
	}
	return s.client, nil
}

// ensureSelected opens folder if it is not already open with sufficient
// access. An empty folder means "whatever is open now". A read-write
// selection satisfies a read-only request but not the other way around.
func (s *Session) ensureSelected(folder string, readOnly bool) (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.readyLocked() {
		return nil, ErrNotConnected
	}

	if folder == "" {
		if s.openPath == "" {
			return nil, ErrNoMailboxOpen
		}
		folder = s.openPath
	}

	if s.openPath == folder && (!s.openRead || readOnly) {
		return s.client, nil
	}

	// A failed SELECT leaves no mailbox selected (RFC 3501), so the old
	// selection must not survive the attempt.
	s.openPath = ""
	s.openRead = false
	if _, err := s.client.Select(folder, readOnly); err != nil {
		return nil, fmt.Errorf("open %s: %w", folder, err)
	}
	s.openPath = folder
	s.openRead = readOnly

	return s.client, nil
}

func (s *Session) closeLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	if c := s.client; c != nil {
		go func() {
			done := make(chan struct{})
			go func() {
				_ = c.Logout()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(logoutGrace):
				_ = c.Terminate()
			}
		}()
	}
	s.client = nil
	s.folders = nil
	s.openPath = ""
	s.openRead = false
}

// watchLogout drops the session back to Disconnected when the server ends
// it unsolicited, so later calls fail fast instead of hanging.
func (s *Session) watchLogout(c Client, stop chan struct{}) {
	select {
	case <-c.LoggedOut():
		s.mu.Lock()
		if s.client == c {
			s.state = StateDisconnected
			s.client = nil
			s.folders = nil
			s.openPath = ""
			if s.stop != nil {
				close(s.stop)
				s.stop = nil
			}
		}
		s.mu.Unlock()
	case <-stop:
	}
}

func (s *Session) keepalive(c Client, stop chan struct{}) {
	noop := time.NewTicker(noopInterval)
	defer noop.Stop()
	refresh := time.NewTicker(refreshInterval)
	defer refresh.Stop()

	for {
		select {
		case <-stop:
			return
		case <-c.LoggedOut():
			return
		case <-noop.C:
			if err := c.Noop(); err != nil {
				return
			}
		case <-refresh.C:
			s.mu.Lock()
			path, readOnly := s.openPath, s.openRead
			current := s.client
			s.mu.Unlock()
			if current != c {
				return
			}
			if path == "" {
				_ = c.Noop()
				continue
			}
			if _, err := c.Select(path, readOnly); err != nil {
				return
			}
		}
	}
}
