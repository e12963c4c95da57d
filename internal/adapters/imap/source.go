package imap

import (
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/supriyakanse/agent-email-query/internal/core"
	"go.uber.org/zap"
)

// Source is an IMAP implementation of the MailSource interface. Each Fetch
// opens a fresh connection, searches the mailbox by date range, downloads
// the matching messages and logs out.
type Source struct {
	address  string
	username string
	password string
	mailbox  string
	logger   *zap.Logger
}

// NewSource creates a new IMAP mail source. address is host:port of an
// IMAPS endpoint.
func NewSource(address, username, password, mailbox string, logger *zap.Logger) *Source {
	return &Source{
		address:  address,
		username: username,
		password: password,
		mailbox:  mailbox,
		logger:   logger,
	}
}

// Fetch downloads all messages received since (inclusive) and before
// (exclusive) the given dates. IMAP commands carry no context; cancellation
// applies between protocol steps only.
func (s *Source) Fetch(ctx context.Context, since, before time.Time) ([]core.RawMessage, error) {
	client, err := imapclient.DialTLS(s.address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server %s: %w", s.address, err)
	}
	defer client.Close()

	if err := client.Login(s.username, s.password).Wait(); err != nil {
		return nil, fmt.Errorf("IMAP authentication failed for %s: %w", s.username, err)
	}
	defer func() {
		if err := client.Logout().Wait(); err != nil {
			s.logger.Debug("IMAP logout failed", zap.Error(err))
		}
	}()

	if _, err := client.Select(s.mailbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("failed to select mailbox %s: %w", s.mailbox, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	criteria := &imap.SearchCriteria{
		Since:  since,
		Before: before,
	}
	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("IMAP search failed: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		s.logger.Info("No messages in date range",
			zap.Time("since", since),
			zap.Time("before", before))
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bodySection := &imap.FetchItemBodySection{}
	fetchOptions := &imap.FetchOptions{
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}
	buffers, err := client.Fetch(imap.UIDSetNum(uids...), fetchOptions).Collect()
	if err != nil {
		return nil, fmt.Errorf("IMAP fetch failed: %w", err)
	}

	messages := make([]core.RawMessage, 0, len(buffers))
	for _, buf := range buffers {
		if buf.Envelope == nil {
			s.logger.Warn("Fetched message without envelope, skipping",
				zap.Uint32("uid", uint32(buf.UID)))
			continue
		}

		body, err := extractTextBody(buf.FindBodySection(bodySection))
		if err != nil {
			s.logger.Warn("Failed to extract message body",
				zap.String("message_id", buf.Envelope.MessageID),
				zap.Error(err))
			body = ""
		}

		messages = append(messages, core.RawMessage{
			MessageID: buf.Envelope.MessageID,
			Sender:    formatSender(buf.Envelope.From),
			Subject:   buf.Envelope.Subject,
			Date:      buf.Envelope.Date,
			Body:      body,
		})
	}

	s.logger.Info("Fetched messages from IMAP",
		zap.Int("count", len(messages)),
		zap.String("mailbox", s.mailbox))

	return messages, nil
}

func formatSender(from []imap.Address) string {
	if len(from) == 0 {
		return ""
	}
	addr := from[0]
	if addr.Name != "" {
		return fmt.Sprintf("%s <%s>", addr.Name, addr.Addr())
	}
	return addr.Addr()
}
