package email

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"
	"time"
)

// Message is an outbound mail. The sender address is deliberately absent:
// it is always the connected account's own address, supplied by the caller
// that owns the credentials.
type Message struct {
	To         []string
	Cc         []string
	Bcc        []string
	Subject    string
	Text       string
	HTML       string
	InReplyTo  string
	References string
}

// Recipients returns every envelope recipient, Bcc included. Bcc addresses
// go on the envelope only, never into a header.
func (m Message) Recipients() []string {
	recipients := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	recipients = append(recipients, m.To...)
	recipients = append(recipients, m.Cc...)
	recipients = append(recipients, m.Bcc...)
	return recipients
}

// Build renders the message as RFC 5322 bytes. The body is always
// multipart/alternative with a quoted-printable text part and an HTML part;
// when no HTML was given the plain text stands in for it.
func Build(from string, m Message) ([]byte, error) {
	if from == "" {
		return nil, fmt.Errorf("from address is required")
	}
	if len(m.To) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	htmlBody := m.HTML
	if htmlBody == "" {
		htmlBody = m.Text
	}

	var buf bytes.Buffer

	writeHeader(&buf, "From", from)
	writeHeader(&buf, "To", strings.Join(m.To, ", "))
	if len(m.Cc) > 0 {
		writeHeader(&buf, "Cc", strings.Join(m.Cc, ", "))
	}
	writeHeader(&buf, "Subject", m.Subject)
	if m.InReplyTo != "" {
		writeHeader(&buf, "In-Reply-To", m.InReplyTo)
	}
	if refs := buildReferences(m.References, m.InReplyTo); refs != "" {
		writeHeader(&buf, "References", refs)
	}
	writeHeader(&buf, "Date", time.Now().Format(time.RFC1123Z))
	writeHeader(&buf, "MIME-Version", "1.0")

	writer := multipart.NewWriter(&buf)
	writeHeader(&buf, "Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", writer.Boundary()))
	buf.WriteString("\r\n")

	if err := writeTextPart(writer, "text/plain", m.Text); err != nil {
		return nil, err
	}
	if err := writeTextPart(writer, "text/html", htmlBody); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// buildReferences appends the replied-to message id to an existing
// References chain, once.
func buildReferences(references, inReplyTo string) string {
	refs := strings.TrimSpace(references)
	id := strings.TrimSpace(inReplyTo)
	if id == "" {
		return refs
	}
	if refs == "" {
		return id
	}
	if strings.Contains(refs, id) {
		return refs
	}
	return refs + " " + id
}

func writeTextPart(writer *multipart.Writer, contentType, body string) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType+"; charset=\"utf-8\"")
	header.Set("Content-Transfer-Encoding", "quoted-printable")
	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(body)); err != nil {
		return err
	}
	return qp.Close()
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	if value == "" {
		return
	}
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}
