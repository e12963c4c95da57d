package imap

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
)

// extractTextBody pulls the plain-text content out of a raw RFC 822
// message. For multipart messages it returns the concatenated text/plain
// parts; attachments and HTML alternatives are skipped.
func extractTextBody(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse message: %w", err)
	}

	contentType := msg.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return readPart(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	}

	boundary, ok := params["boundary"]
	if !ok {
		return readPart(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	}

	var text bytes.Buffer
	collectTextParts(msg.Body, boundary, &text)
	return text.String(), nil
}

// collectTextParts walks one multipart level, descending into nested
// multipart containers and appending every text/plain leaf it finds.
func collectTextParts(r io.Reader, boundary string, text *bytes.Buffer) {
	reader := multipart.NewReader(r, boundary)
	for {
		part, err := reader.NextPart()
		if err != nil {
			// io.EOF, or a malformed trailing part that should not
			// discard what we already have
			return
		}

		partType, params, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil {
			partType = "text/plain"
		}

		if strings.HasPrefix(partType, "multipart/") {
			if nested, ok := params["boundary"]; ok {
				collectTextParts(part, nested, text)
			}
			continue
		}
		if partType != "text/plain" {
			continue
		}

		content, err := readPart(part, part.Header.Get("Content-Transfer-Encoding"))
		if err != nil {
			continue
		}
		text.WriteString(content)
		text.WriteString("\n")
	}
}

// readPart decodes a body stream according to its transfer encoding.
func readPart(r io.Reader, encoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read message part: %w", err)
	}
	return string(content), nil
}
