package intake

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

	"github.com/mikey/portfolio-backend/internal/core"
)

// maxPartDepth bounds recursion into nested multipart bodies
const maxPartDepth = 5

var headerDecoder = new(mime.WordDecoder)

// ParseMessage converts a raw RFC 5322 mail into a contact submission.
// envelopeFrom is used when the From header is missing or unparsable.
func ParseMessage(r io.Reader, envelopeFrom string) (*core.Submission, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email message: %w", err)
	}

	sub := &core.Submission{
		Subject: decodeHeader(msg.Header.Get("Subject")),
		Source:  core.SourceEmail,
	}

	if addr, err := msg.Header.AddressList("From"); err == nil && len(addr) > 0 {
		sub.Name = addr[0].Name
		sub.Email = addr[0].Address
	} else if envelopeFrom != "" {
		sub.Email = envelopeFrom
	}
	if sub.Name == "" && sub.Email != "" {
		sub.Name = localPart(sub.Email)
	}

	text, err := extractTextFromMessage(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text content: %w", err)
	}
	sub.Message = strings.TrimSpace(text)

	return sub, nil
}

func decodeHeader(value string) string {
	decoded, err := headerDecoder.DecodeHeader(value)
	if err != nil {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(decoded)
}

func localPart(addr string) string {
	if i := strings.LastIndex(addr, "@"); i > 0 {
		return addr[:i]
	}
	return addr
}

// extractTextFromMessage returns the text/plain content of msg. Multipart
// bodies contribute every text/plain part in order.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	return extractText(
		msg.Header.Get("Content-Type"),
		msg.Header.Get("Content-Transfer-Encoding"),
		msg.Body,
		0,
	)
}

func extractText(contentType, encoding string, body io.Reader, depth int) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		data, err := io.ReadAll(decodeTransfer(encoding, body))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	boundary, ok := params["boundary"]
	if !ok || depth >= maxPartDepth {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	mr := multipart.NewReader(body, boundary)
	var textContent bytes.Buffer

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep what was readable before the broken part
			if textContent.Len() > 0 {
				return textContent.String(), nil
			}
			return "", err
		}

		partType := part.Header.Get("Content-Type")
		partMedia, _, _ := mime.ParseMediaType(partType)
		switch {
		case partType == "" || partMedia == "text/plain":
			data, err := io.ReadAll(decodeTransfer(part.Header.Get("Content-Transfer-Encoding"), part))
			if err != nil {
				continue
			}
			textContent.Write(data)
			textContent.WriteString("\n")
		case strings.HasPrefix(partMedia, "multipart/"):
			nested, err := extractText(partType, "", part, depth+1)
			if err != nil {
				continue
			}
			if nested != "" {
				textContent.WriteString(nested)
			}
		}
		// Attachments and other media are skipped
	}

	return textContent.String(), nil
}

// decodeTransfer undoes the single-part transfer encodings. multipart.Reader
// already strips quoted-printable from parts and removes the header.
func decodeTransfer(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, newlineStripper{r})
	default:
		return r
	}
}

// newlineStripper drops CR and LF so wrapped base64 bodies decode
type newlineStripper struct {
	r io.Reader
}

func (n newlineStripper) Read(p []byte) (int, error) {
	for {
		c, err := n.r.Read(p)
		out := 0
		for _, b := range p[:c] {
			if b != '\r' && b != '\n' {
				p[out] = b
				out++
			}
		}
		if out > 0 || err != nil {
			return out, err
		}
	}
}
