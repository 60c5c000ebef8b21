package intake

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/core"
	"go.uber.org/zap"
)

// Submitter accepts contact submissions
type Submitter interface {
	Submit(ctx context.Context, sub *core.Submission) (*core.ContactMessage, error)
}

// Server receives contact mails over SMTP and feeds them to the contact service
type Server struct {
	service       Submitter
	logger        *zap.Logger
	cfg           config.IntakeConfig
	server        *smtp.Server
	submitTimeout time.Duration
}

// NewServer creates a new mail intake server
func NewServer(service Submitter, cfg config.IntakeConfig, logger *zap.Logger) *Server {
	s := &Server{
		service:       service,
		logger:        logger,
		cfg:           cfg,
		submitTimeout: 30 * time.Second,
	}

	s.server = smtp.NewServer(&smtpBackend{intake: s})
	s.server.Addr = cfg.ListenAddress
	s.server.Domain = cfg.Domain
	s.server.ReadTimeout = 30 * time.Second
	s.server.WriteTimeout = 30 * time.Second
	s.server.MaxMessageBytes = cfg.MaxMessageBytes
	s.server.MaxRecipients = 10
	return s
}

// Name identifies the server in logs
func (s *Server) Name() string {
	return "mail-intake"
}

// Start listens on the configured address in the background
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return err
	}
	s.logger.Info("Mail intake starting", zap.String("address", l.Addr().String()))
	go s.serve(l)
	return nil
}

func (s *Server) serve(l net.Listener) {
	if err := s.server.Serve(l); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
		s.logger.Error("SMTP server error", zap.Error(err))
	}
}

// Stop closes the listener and all open sessions
func (s *Server) Stop() error {
	return s.server.Close()
}

// deliver parses one received mail and submits it. Failures are logged only
// so the sending MTA never retries or bounces.
func (s *Server) deliver(sender string, raw []byte) {
	sub, err := ParseMessage(bytes.NewReader(raw), sender)
	if err != nil {
		s.logger.Warn("Dropping unparsable contact mail",
			zap.String("sender", sender),
			zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.submitTimeout)
	defer cancel()

	msg, err := s.service.Submit(ctx, sub)
	if err != nil {
		if errors.Is(err, core.ErrInvalidSubmission) {
			s.logger.Info("Ignoring invalid contact mail",
				zap.String("sender", sender),
				zap.Error(err))
			return
		}
		s.logger.Error("Failed to submit contact mail",
			zap.String("sender", sender),
			zap.Error(err))
		return
	}

	s.logger.Info("Accepted contact mail",
		zap.String("id", msg.ID),
		zap.String("sender", sub.Email),
		zap.Bool("is_spam", msg.Analysis != nil && msg.Analysis.IsSpam))
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	intake *Server
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{intake: b.intake}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	intake *Server
	sender string
}

func (s *smtpSession) Reset() {
	s.sender = ""
}

func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *smtpSession) Rcpt(_ string, _ *smtp.RcptOptions) error {
	return nil
}

func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.intake.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}
	s.intake.deliver(s.sender, raw)
	return nil
}

func (s *smtpSession) Logout() error {
	return nil
}
