package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/core"
	"go.uber.org/zap"
)

// SMTPNotifier mails the site owner about new contact messages
type SMTPNotifier struct {
	address  string
	username string
	password string
	startTLS bool
	from     string
	to       []string
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

var _ core.Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier creates a notifier for the given relay
func NewSMTPNotifier(cfg config.SMTPConfig, logger *zap.Logger) (*SMTPNotifier, error) {
	to := splitAddresses(cfg.To)
	if len(to) == 0 {
		return nil, fmt.Errorf("smtp.to must name at least one recipient")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("smtp.address is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SMTPNotifier{
		address:  cfg.Address,
		username: cfg.Username,
		password: cfg.Password,
		startTLS: cfg.StartTLS,
		from:     cfg.From,
		to:       to,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// NotifyNewMessage sends one notification mail for msg
func (n *SMTPNotifier) NotifyNewMessage(ctx context.Context, msg *core.ContactMessage) error {
	data := n.buildMessage(msg)

	deadline := time.Now().Add(n.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialer := net.Dialer{Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "tcp", n.address)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP relay: %w", err)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	var c *smtp.Client
	if n.startTLS {
		host, _, _ := net.SplitHostPort(n.address)
		c, err = smtp.NewClientStartTLS(conn, &tls.Config{ServerName: host})
		if err != nil {
			conn.Close()
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	} else {
		c = smtp.NewClient(conn)
	}
	defer c.Close()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if n.username != "" {
		if err := c.Auth(sasl.NewPlainClient("", n.username, n.password)); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := c.Mail(n.from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	for _, rcpt := range n.to {
		if err := c.Rcpt(rcpt, nil); err != nil {
			return fmt.Errorf("RCPT TO %s failed: %w", rcpt, err)
		}
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		n.logger.Warn("QUIT command failed", zap.Error(err))
	}

	n.logger.Info("Sent contact notification",
		zap.String("id", msg.ID),
		zap.Strings("to", n.to))
	return nil
}

// buildMessage renders msg as a plain text RFC 5322 mail
func (n *SMTPNotifier) buildMessage(msg *core.ContactMessage) []byte {
	var b bytes.Buffer

	subject := "New contact message: " + msg.Subject
	if a := msg.Analysis; a != nil && a.Priority == core.PriorityHigh {
		subject = "[High priority] " + subject
	}

	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(n.to, ", "))
	if msg.Email != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.Email)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", n.now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@portfolio-backend>\r\n", uuid.NewString())
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "Name: %s\r\n", msg.Name)
	fmt.Fprintf(&b, "Email: %s\r\n", msg.Email)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Source: %s\r\n", msg.Source)
	fmt.Fprintf(&b, "Message ID: %s\r\n", msg.ID)

	if a := msg.Analysis; a != nil {
		b.WriteString("\r\n")
		fmt.Fprintf(&b, "Priority: %s (%d/10)\r\n", a.Priority, a.PriorityScore)
		fmt.Fprintf(&b, "Sentiment: %s (%.3f)\r\n", a.Sentiment, a.SentimentScore)
		if a.Category != "" {
			fmt.Fprintf(&b, "Category: %s\r\n", a.Category)
		}
		fmt.Fprintf(&b, "Spam score: %.2f (spam: %t)\r\n", a.SpamScore, a.IsSpam)
		if len(a.Flags) > 0 {
			fmt.Fprintf(&b, "Flags: %s\r\n", strings.Join(a.Flags, "; "))
		}
	}

	b.WriteString("\r\n")
	b.WriteString(normalizeNewlines(msg.Message))
	b.WriteString("\r\n")
	return b.Bytes()
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func splitAddresses(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// DisabledNotifier is used when smtp.enabled is false
type DisabledNotifier struct{}

// NotifyNewMessage always reports that notifications are off
func (DisabledNotifier) NotifyNewMessage(ctx context.Context, msg *core.ContactMessage) error {
	return core.ErrNotifierDisabled
}
