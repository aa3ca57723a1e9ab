package imap

import (
	"sync"

	"github.com/emersion/go-imap"

	"mailtab/internal/config"
)

type storeCall struct {
	seqset string
	item   imap.StoreItem
	value  interface{}
}

type selectCall struct {
	name     string
	readOnly bool
}

type mockClient struct {
	mu sync.Mutex

	loginErr   error
	selectErr  error
	fetchErr   error
	storeErr   error
	moveErr    error
	copyErr    error
	expungeErr error

	authenticated bool
	loggedOut     chan struct{}
	logoutOnce    sync.Once

	listInfos    []*imap.MailboxInfo
	messageCount uint32
	messages     []*imap.Message

	selects     []selectCall
	storeCalls  []storeCall
	moveCalls   []string
	copyCalls   []string
	fetchSets   []string
	expunges    int
	noops       int
	terminated  bool
	loggedOutOK bool
}

func newMockClient() *mockClient {
	return &mockClient{loggedOut: make(chan struct{})}
}

func (m *mockClient) Login(username, password string) error {
	if m.loginErr != nil {
		return m.loginErr
	}
	m.mu.Lock()
	m.authenticated = true
	m.mu.Unlock()
	return nil
}

func (m *mockClient) Logout() error {
	m.mu.Lock()
	m.authenticated = false
	m.loggedOutOK = true
	m.mu.Unlock()
	m.logoutOnce.Do(func() { close(m.loggedOut) })
	return nil
}

func (m *mockClient) Terminate() error {
	m.mu.Lock()
	m.terminated = true
	m.authenticated = false
	m.mu.Unlock()
	m.logoutOnce.Do(func() { close(m.loggedOut) })
	return nil
}

// dropConnection simulates the server ending the session unsolicited.
func (m *mockClient) dropConnection() {
	m.mu.Lock()
	m.authenticated = false
	m.mu.Unlock()
	m.logoutOnce.Do(func() { close(m.loggedOut) })
}

func (m *mockClient) Noop() error {
	m.mu.Lock()
	m.noops++
	m.mu.Unlock()
	return nil
}

func (m *mockClient) State() imap.ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.authenticated {
		return imap.AuthenticatedState
	}
	return imap.LogoutState
}

func (m *mockClient) LoggedOut() <-chan struct{} {
	return m.loggedOut
}

func (m *mockClient) Select(name string, readOnly bool) (*imap.MailboxStatus, error) {
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	m.mu.Lock()
	m.selects = append(m.selects, selectCall{name: name, readOnly: readOnly})
	m.mu.Unlock()
	return &imap.MailboxStatus{Name: name, Messages: m.messageCount, ReadOnly: readOnly}, nil
}

func (m *mockClient) List(ref, name string, ch chan *imap.MailboxInfo) error {
	for _, info := range m.listInfos {
		ch <- info
	}
	close(ch)
	return nil
}

func (m *mockClient) Fetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error {
	m.mu.Lock()
	m.fetchSets = append(m.fetchSets, seqset.String())
	m.mu.Unlock()
	for _, msg := range m.messages {
		ch <- msg
	}
	close(ch)
	return m.fetchErr
}

func (m *mockClient) UidStore(seqset *imap.SeqSet, item imap.StoreItem, value interface{}, ch chan *imap.Message) error {
	if ch != nil {
		close(ch)
	}
	if m.storeErr != nil {
		return m.storeErr
	}
	m.mu.Lock()
	m.storeCalls = append(m.storeCalls, storeCall{seqset: seqset.String(), item: item, value: value})
	m.mu.Unlock()
	return nil
}

func (m *mockClient) UidMove(seqset *imap.SeqSet, dest string) error {
	if m.moveErr != nil {
		return m.moveErr
	}
	m.mu.Lock()
	m.moveCalls = append(m.moveCalls, dest)
	m.mu.Unlock()
	return nil
}

func (m *mockClient) UidCopy(seqset *imap.SeqSet, dest string) error {
	if m.copyErr != nil {
		return m.copyErr
	}
	m.mu.Lock()
	m.copyCalls = append(m.copyCalls, dest)
	m.mu.Unlock()
	return nil
}

func (m *mockClient) Expunge(ch chan uint32) error {
	if ch != nil {
		close(ch)
	}
	m.mu.Lock()
	m.expunges++
	m.mu.Unlock()
	return m.expungeErr
}

func testConn() config.Connection {
	return config.Connection{
		Account:  "user@example.com",
		Secret:   "hunter2",
		IMAPHost: "imap.example.com",
		IMAPPort: 993,
		IMAPTLS:  true,
		SMTPHost: "smtp.example.com",
		SMTPPort: 587,
		Provider: "custom",
	}
}

func newTestSession(mc *mockClient) *Session {
	s := NewSession()
	s.Dial = func(conn config.Connection, insecure bool) (Client, error) {
		return mc, nil
	}
	return s
}

func mustConnect(s *Session) {
	if err := s.Connect(testConn()); err != nil {
		panic(err)
	}
}
