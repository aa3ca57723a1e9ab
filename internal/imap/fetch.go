package imap

import (
	"fmt"
	"html"
	"io"
	netmail "net/mail"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message/mail"
	"golang.org/x/sync/errgroup"
)

const defaultFetchLimit = 50

const unparsedSubject = "(Could not parse email)"

// FetchMessages opens folder read-only and returns the most recent limit
// messages by mailbox order, normalized and sorted newest first by date.
// Messages in the window are parsed concurrently; a message whose body
// cannot be parsed still yields a degraded record, so the result length is
// always min(limit, total).
func (s *Session) FetchMessages(folder string, limit int) ([]MessageRecord, error) {
	if limit <= 0 {
		limit = defaultFetchLimit
	}

	s.mu.Lock()
	if !s.readyLocked() {
		s.mu.Unlock()
		return nil, ErrNotConnected
	}
	c := s.client
	// Always re-select, even when the folder is already open: the message
	// count must be current for the window math below. A failed SELECT
	// leaves no mailbox selected.
	s.openPath = ""
	s.openRead = false
	status, err := c.Select(folder, true)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("open %s: %w", folder, err)
	}
	s.openPath = folder
	s.openRead = true
	s.mu.Unlock()

	total := status.Messages
	if total == 0 {
		return []MessageRecord{}, nil
	}

	// Compare in uint64 so an oversized limit cannot wrap the conversion.
	from := uint32(1)
	if uint64(limit) < uint64(total) {
		from = total - uint32(limit) + 1
	}
	count := int(total - from + 1)

	seqset := new(imap.SeqSet)
	seqset.AddRange(from, total)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{
		imap.FetchUid,
		imap.FetchFlags,
		imap.FetchInternalDate,
		section.FetchItem(),
	}

	ch := make(chan *imap.Message, count)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, ch)
	}()

	// One slot per sequence number in the window; each goroutine writes its
	// own slot, so no lock is needed around the slice.
	results := make([]*fetchResult, count)
	var g errgroup.Group
	for msg := range ch {
		msg := msg
		if msg == nil || msg.SeqNum < from || msg.SeqNum > total {
			continue
		}
		slot := int(msg.SeqNum - from)
		g.Go(func() error {
			results[slot] = buildRecord(msg, section)
			return nil
		})
	}

	fetchErr := <-done
	_ = g.Wait()
	if fetchErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", folder, fetchErr)
	}

	return sortRecords(results), nil
}

type fetchResult struct {
	rec MessageRecord
	// dateKnown is false when the date fell all the way through to
	// wall-clock time; such records sort after everything else.
	dateKnown bool
}

// sortRecords orders newest first. Records without a usable date go last,
// and the sort is stable so equal dates (and the dateless tail) keep their
// original sequence order.
func sortRecords(results []*fetchResult) []MessageRecord {
	compact := make([]*fetchResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			compact = append(compact, r)
		}
	}

	sort.SliceStable(compact, func(i, j int) bool {
		a, b := compact[i], compact[j]
		if a.dateKnown != b.dateKnown {
			return a.dateKnown
		}
		if !a.dateKnown {
			return false
		}
		return a.rec.Date.After(b.rec.Date)
	})

	records := make([]MessageRecord, 0, len(compact))
	for _, r := range compact {
		records = append(records, r.rec)
	}
	return records
}

func buildRecord(msg *imap.Message, section *imap.BodySectionName) *fetchResult {
	rec := MessageRecord{
		SeqNum: msg.SeqNum,
		UID:    msg.Uid,
		Flags:  append([]string(nil), msg.Flags...),
	}
	for _, flag := range msg.Flags {
		switch flag {
		case imap.SeenFlag:
			rec.IsRead = true
		case imap.FlaggedFlag:
			rec.IsStarred = true
		}
	}

	var headerDate time.Time
	parsed := false
	if body := msg.GetBody(section); body != nil {
		parsed, headerDate = parseBody(body, &rec)
	}
	if !parsed {
		// Parse failure is local to this message: keep the attributes that
		// did arrive and emit a placeholder record.
		rec.Subject = unparsedSubject
		rec.BodyText = ""
		rec.BodyHTML = ""
		rec.Attachments = nil
		rec.HasAttachments = false
	}

	dateKnown := true
	switch {
	case !headerDate.IsZero():
		rec.Date = headerDate
	case !msg.InternalDate.IsZero():
		rec.Date = msg.InternalDate
	default:
		rec.Date = time.Now()
		dateKnown = false
	}

	return &fetchResult{rec: rec, dateKnown: dateKnown}
}

// parseBody fills rec from the raw message. It reports whether the message
// parsed at all, plus the date taken from the header when one exists.
func parseBody(body io.Reader, rec *MessageRecord) (ok bool, date time.Time) {
	mr, err := mail.CreateReader(body)
	if err != nil {
		return false, time.Time{}
	}

	header := mr.Header

	if subject, err := header.Subject(); err == nil && subject != "" {
		rec.Subject = subject
	} else {
		rec.Subject = "(No Subject)"
	}
	if id, err := header.MessageID(); err == nil {
		rec.MessageID = id
	}

	froms, _ := header.AddressList("From")
	var sender *mail.Address
	if len(froms) > 0 && froms[0] != nil {
		sender = froms[0]
	}
	switch {
	case sender != nil && sender.Name != "":
		rec.SenderName = sender.Name
	case sender != nil && sender.Address != "":
		rec.SenderName = sender.Address
	default:
		rec.SenderName = "Unknown"
	}
	if sender != nil {
		rec.SenderAddress = sender.Address
	}
	rec.SenderFull = formatAddresses(froms)

	if replyTo, _ := header.AddressList("Reply-To"); len(replyTo) > 0 && replyTo[0] != nil {
		rec.ReplyTo = replyTo[0].Address
	} else {
		rec.ReplyTo = rec.SenderAddress
	}

	tos, _ := header.AddressList("To")
	rec.To = formatAddresses(tos)
	ccs, _ := header.AddressList("Cc")
	rec.Cc = formatAddresses(ccs)

	if d, err := header.Date(); err == nil && !d.IsZero() {
		date = d
	} else if raw := header.Get("Date"); raw != "" {
		if d, err := netmail.ParseDate(raw); err == nil {
			date = d
		}
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep whatever parts were already read.
			break
		}
		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			data, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			switch {
			case strings.HasPrefix(contentType, "text/plain") && rec.BodyText == "":
				rec.BodyText = string(data)
			case strings.HasPrefix(contentType, "text/html") && rec.BodyHTML == "":
				rec.BodyHTML = string(data)
			}
		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			contentType, _, _ := h.ContentType()
			data, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			rec.Attachments = append(rec.Attachments, Attachment{
				Filename:    filename,
				Size:        int64(len(data)),
				ContentType: contentType,
			})
		}
	}

	if rec.BodyText == "" && rec.BodyHTML != "" {
		rec.BodyText = htmlToText(rec.BodyHTML)
	}
	rec.HasAttachments = len(rec.Attachments) > 0

	return true, date
}

func formatAddresses(addrs []*mail.Address) string {
	if len(addrs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		if addr == nil {
			continue
		}
		if addr.Name != "" {
			parts = append(parts, fmt.Sprintf("%s <%s>", addr.Name, addr.Address))
		} else {
			parts = append(parts, addr.Address)
		}
	}
	return strings.Join(parts, ", ")
}

var (
	htmlBlockRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	htmlTagRe   = regexp.MustCompile(`(?s)<[^>]*>`)
)

// htmlToText is the fallback when a message has an HTML part but no plain
// text part: strip tags, unescape entities, collapse whitespace.
func htmlToText(s string) string {
	s = htmlBlockRe.ReplaceAllString(s, " ")
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
