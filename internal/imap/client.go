package imap

import (
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"

	"mailtab/internal/config"
)

// Client is the subset of the go-imap client the session uses, abstracted
// so tests can substitute a mock.
type Client interface {
	Login(username, password string) error
	Logout() error
	Terminate() error
	Noop() error
	State() imap.ConnState
	LoggedOut() <-chan struct{}
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	List(ref, name string, ch chan *imap.MailboxInfo) error
	Fetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	UidStore(seqset *imap.SeqSet, item imap.StoreItem, value interface{}, ch chan *imap.Message) error
	UidMove(seqset *imap.SeqSet, dest string) error
	UidCopy(seqset *imap.SeqSet, dest string) error
	Expunge(ch chan uint32) error
}

// DialFunc opens a transport connection without authenticating.
type DialFunc func(conn config.Connection, insecureSkipVerify bool) (Client, error)

// Dial connects to the IMAP endpoint described by conn. The dial itself is
// bounded by connectTimeout; authentication is the caller's job.
func Dial(conn config.Connection, insecureSkipVerify bool) (Client, error) {
	addr := fmt.Sprintf("%s:%d", conn.IMAPHost, conn.IMAPPort)
	dialer := &net.Dialer{Timeout: connectTimeout}

	var c *imapclient.Client
	var err error
	if conn.IMAPTLS {
		tlsConfig := &tls.Config{
			ServerName:         conn.IMAPHost,
			InsecureSkipVerify: insecureSkipVerify,
		}
		c, err = imapclient.DialWithDialerTLS(dialer, addr, tlsConfig)
	} else {
		c, err = imapclient.DialWithDialer(dialer, addr)
	}
	if err != nil {
		return nil, err
	}

	c.Timeout = commandTimeout

	return c, nil
}

// login runs LOGIN with its own deadline. On timeout the half-open
// connection is torn down so it cannot linger.
func login(c Client, account, secret string, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- c.Login(account, secret)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		_ = c.Terminate()
		return fmt.Errorf("login: %w", ErrTimeout)
	}
}
