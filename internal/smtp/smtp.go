package smtp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"mailtab/internal/config"
	"mailtab/internal/email"
)

// ErrNotConnected is returned when Send is called before a sender was
// initialized by a successful session connect.
var ErrNotConnected = errors.New("smtp sender not initialized")

const dialTimeout = 30 * time.Second

// Sender submits outbound mail over the account's SMTP endpoint. Each Send
// is one synchronous connect-auth-submit-quit cycle; there is no queue and
// no retry, that policy belongs to the host.
type Sender struct {
	// Submit is swapped out by tests.
	Submit func(conn config.Connection, insecureSkipVerify bool, from string, recipients []string, raw []byte) error

	conn               config.Connection
	insecureSkipVerify bool
}

func NewSender(conn config.Connection, insecureSkipVerify bool) *Sender {
	return &Sender{
		Submit:             Submit,
		conn:               conn,
		insecureSkipVerify: insecureSkipVerify,
	}
}

// Send builds and submits the message. The envelope and header sender is
// always the account's own address, never caller-supplied.
func (s *Sender) Send(msg email.Message) error {
	if s == nil {
		return ErrNotConnected
	}

	from := s.conn.Account
	raw, err := email.Build(from, msg)
	if err != nil {
		return err
	}

	submit := s.Submit
	if submit == nil {
		submit = Submit
	}
	if err := submit(s.conn, s.insecureSkipVerify, from, msg.Recipients(), raw); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	return nil
}

// Submit performs one SMTP submission: implicit TLS when the endpoint says
// so, STARTTLS upgrade otherwise, then PLAIN auth.
func Submit(conn config.Connection, insecureSkipVerify bool, from string, recipients []string, raw []byte) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients provided")
	}

	addr := fmt.Sprintf("%s:%d", conn.SMTPHost, conn.SMTPPort)
	host := conn.SMTPHost
	tlsConfig := &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: insecureSkipVerify,
	}

	var c *smtp.Client
	if conn.SMTPTLS {
		tlsConn, err := tls.DialWithDialer(&net.Dialer{Timeout: dialTimeout}, "tcp", addr, tlsConfig)
		if err != nil {
			return err
		}
		c, err = smtp.NewClient(tlsConn, host)
		if err != nil {
			return err
		}
	} else {
		var err error
		c, err = smtp.Dial(addr)
		if err != nil {
			return err
		}
		if err := c.StartTLS(tlsConfig); err != nil {
			_ = c.Quit()
			return err
		}
	}
	defer func() {
		_ = c.Close()
	}()

	auth := smtp.PlainAuth("", conn.Account, conn.Secret, host)
	if err := c.Auth(auth); err != nil {
		return err
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range recipients {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.Quit()
}
