package core

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/supriyakanse/agent-email-query/internal/utils"
)

var (
	// Quoted-reply and forward delimiters. A match truncates the remainder
	// of the body, which by convention is earlier conversation, not content.
	replyHeaderRe   = regexp.MustCompile(`^On .{0,200}wrote:\s*$`)
	quotedLineRe    = regexp.MustCompile(`^\s*>`)
	originalMsgRe   = regexp.MustCompile(`(?i)^-{2,}\s*(original message|forwarded message)\s*-{2,}`)
	signatureLineRe = regexp.MustCompile(`^--\s*$`)
)

// Normalizer turns a raw message into a clean document suitable for
// embedding. Normalize is deterministic: the same message always yields the
// same document, including its ID.
type Normalizer struct {
	textProcessor *utils.TextProcessor
	maxBodySize   int
}

// NewNormalizer creates a new Normalizer. maxBodySize caps the cleaned body
// in bytes before it is embedded; zero or negative means no cap.
func NewNormalizer(textProcessor *utils.TextProcessor, maxBodySize int) *Normalizer {
	return &Normalizer{
		textProcessor: textProcessor,
		maxBodySize:   maxBodySize,
	}
}

// Normalize converts one RawMessage into a Document. It strips quoted-reply
// chains and signature boilerplate, then combines sender, subject, date and
// the cleaned body into a single text block in a fixed field order so header
// context is retrievable even when similarity matches only the body.
//
// Returns ErrEmptyMessage when nothing indexable remains.
func (n *Normalizer) Normalize(msg RawMessage) (Document, error) {
	body := n.cleanBody(msg.Body)

	if body == "" && msg.Subject == "" && msg.Sender == "" {
		return Document{}, fmt.Errorf("message %q: %w", msg.MessageID, ErrEmptyMessage)
	}

	text := fmt.Sprintf("Sender: %s\nSubject: %s\nDate: %s\n\n%s",
		msg.Sender, msg.Subject, formatDate(msg.Date), body)

	return Document{
		ID:   documentID(msg),
		Text: text,
		Metadata: DocumentMeta{
			Sender:  msg.Sender,
			Subject: msg.Subject,
			Date:    msg.Date,
		},
	}, nil
}

// cleanBody removes the quoted-reply chain and trailing signature from an
// email body using line-based heuristics, then normalizes whitespace.
func (n *Normalizer) cleanBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	var kept []string
	for _, line := range strings.Split(body, "\n") {
		if replyHeaderRe.MatchString(line) ||
			quotedLineRe.MatchString(line) ||
			originalMsgRe.MatchString(line) ||
			signatureLineRe.MatchString(line) {
			break
		}
		kept = append(kept, strings.TrimRight(line, " \t"))
	}

	cleaned := strings.TrimSpace(strings.Join(kept, "\n"))
	cleaned = n.textProcessor.SanitizeUTF8(cleaned)
	if n.maxBodySize > 0 {
		cleaned = n.textProcessor.TruncateText(cleaned, n.maxBodySize)
	}
	return cleaned
}

// documentID derives a stable document identity from the message id, so a
// rebuild over the same mailbox upserts instead of duplicating. Messages
// without a Message-ID header fall back to a digest of their header fields.
func documentID(msg RawMessage) string {
	key := msg.MessageID
	if key == "" {
		key = msg.Sender + "\x00" + msg.Subject + "\x00" + formatDate(msg.Date)
	}
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC1123Z)
}
