package notify

import (
	"context"
	"errors"
	"io"
	"mime"
	"net"
	"net/mail"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type received struct {
	from string
	to   []string
	data string
	user string
}

type testBackend struct {
	mu       sync.Mutex
	messages []received
	username string
	password string
}

func (b *testBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &testSession{backend: b}, nil
}

func (b *testBackend) last() received {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.messages[len(b.messages)-1]
}

type testSession struct {
	backend *testBackend
	cur     received
}

func (s *testSession) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *testSession) Auth(mech string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(identity, username, password string) error {
		if username != s.backend.username || password != s.backend.password {
			return errors.New("invalid credentials")
		}
		s.cur.user = username
		return nil
	}), nil
}

func (s *testSession) Mail(from string, _ *smtp.MailOptions) error {
	s.cur.from = from
	return nil
}

func (s *testSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.cur.to = append(s.cur.to, to)
	return nil
}

func (s *testSession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.cur.data = string(data)
	s.backend.mu.Lock()
	s.backend.messages = append(s.backend.messages, s.cur)
	s.backend.mu.Unlock()
	return nil
}

func (s *testSession) Reset() {
	user := s.cur.user
	s.cur = received{user: user}
}

func (s *testSession) Logout() error { return nil }

func startServer(t *testing.T, be *testBackend) string {
	t.Helper()

	srv := smtp.NewServer(be)
	srv.Domain = "localhost"
	srv.AllowInsecureAuth = true
	srv.ReadTimeout = 5 * time.Second
	srv.WriteTimeout = 5 * time.Second

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(l)
	t.Cleanup(func() { srv.Close() })

	return l.Addr().String()
}

func sampleMessage() *core.ContactMessage {
	return &core.ContactMessage{
		ID:      "msg-1",
		Name:    "Jane Doe",
		Email:   "jane@acme.io",
		Subject: "Hiring: backend role",
		Message: "Hi,\nwe have an opening.",
		Source:  core.SourceWeb,
		Analysis: &core.AnalysisResult{
			SpamScore:      0.15,
			Sentiment:      core.SentimentPositive,
			SentimentScore: 0.4,
			Priority:       core.PriorityHigh,
			PriorityScore:  9,
			Category:       core.CategoryJobInquiry,
			Flags:          []string{"Suspicious name"},
		},
		Status: core.StatusNew,
	}
}

func TestNotifyNewMessage(t *testing.T) {
	be := &testBackend{}
	addr := startServer(t, be)

	n, err := NewSMTPNotifier(config.SMTPConfig{
		Address: addr,
		From:    "portfolio@example.com",
		To:      "owner@example.com, backup@example.com",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, n.NotifyNewMessage(context.Background(), sampleMessage()))

	got := be.last()
	assert.Equal(t, "portfolio@example.com", got.from)
	assert.Equal(t, []string{"owner@example.com", "backup@example.com"}, got.to)

	parsed, err := mail.ReadMessage(strings.NewReader(got.data))
	require.NoError(t, err)
	dec := new(mime.WordDecoder)
	subject, err := dec.DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "[High priority] New contact message: Hiring: backend role", subject)
	assert.Equal(t, "jane@acme.io", parsed.Header.Get("Reply-To"))

	body, err := io.ReadAll(parsed.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Priority: high (9/10)")
	assert.Contains(t, string(body), "Category: job_inquiry")
	assert.Contains(t, string(body), "Spam score: 0.15 (spam: false)")
	assert.Contains(t, string(body), "Flags: Suspicious name")
	assert.Contains(t, string(body), "we have an opening.")
}

func TestNotifyNewMessage_Auth(t *testing.T) {
	be := &testBackend{username: "relay", password: "secret"}
	addr := startServer(t, be)

	n, err := NewSMTPNotifier(config.SMTPConfig{
		Address:  addr,
		Username: "relay",
		Password: "secret",
		From:     "portfolio@example.com",
		To:       "owner@example.com",
	}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, n.NotifyNewMessage(context.Background(), sampleMessage()))
	assert.Equal(t, "relay", be.last().user)

	bad, err := NewSMTPNotifier(config.SMTPConfig{
		Address:  addr,
		Username: "relay",
		Password: "wrong",
		From:     "portfolio@example.com",
		To:       "owner@example.com",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Error(t, bad.NotifyNewMessage(context.Background(), sampleMessage()))
}

func TestNotifyNewMessage_Unreachable(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	n, err := NewSMTPNotifier(config.SMTPConfig{
		Address: addr,
		From:    "portfolio@example.com",
		To:      "owner@example.com",
		Timeout: time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Error(t, n.NotifyNewMessage(context.Background(), sampleMessage()))
}

func TestNewSMTPNotifier_Validation(t *testing.T) {
	_, err := NewSMTPNotifier(config.SMTPConfig{Address: "localhost:25"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewSMTPNotifier(config.SMTPConfig{To: "owner@example.com"}, zap.NewNop())
	assert.Error(t, err)
}

func TestDisabledNotifier(t *testing.T) {
	err := DisabledNotifier{}.NotifyNewMessage(context.Background(), sampleMessage())
	assert.ErrorIs(t, err, core.ErrNotifierDisabled)
}
