package email

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"strings"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/seconnect/ice-backend/internal/application/port"
	"github.com/seconnect/ice-backend/internal/letter"
)

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender implements port.EmailSender over SMTP. Mailbox rejections
// (permanent 55x replies) are reported as FailedRecipientsError so callers
// can distinguish them from transport failures.
type SMTPSender struct {
	cfg    Config
	logger *zap.Logger
	send   func(m *gomail.Message) error
}

// NewSMTPSender creates a new SMTP sender.
func NewSMTPSender(cfg Config, logger *zap.Logger) *SMTPSender {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPSender{
		cfg:    cfg,
		logger: logger,
		send:   func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}
}

// SendMail sends one message. to and cc are comma-separated recipient lists;
// empty entries are dropped.
func (s *SMTPSender) SendMail(ctx context.Context, body, to, subject, cc string) error {
	toList := splitRecipients(to)
	if len(toList) == 0 {
		return fmt.Errorf("no recipients for subject %q", subject)
	}
	ccList := splitRecipients(cc)

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", toList...)
	if len(ccList) > 0 {
		m.SetHeader("Cc", ccList...)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		var tpErr *textproto.Error
		if errors.As(err, &tpErr) && tpErr.Code >= 550 && tpErr.Code <= 553 {
			s.logger.Error("Mailbox rejected recipients",
				zap.Strings("to", toList),
				zap.Int("smtp_code", tpErr.Code))
			return &port.FailedRecipientsError{Recipients: append(toList, ccList...), Err: err}
		}
		s.logger.Error("Failed to send email",
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info("Email sent",
		zap.String("subject", subject),
		zap.Int("recipients", len(toList)+len(ccList)))
	return nil
}

func splitRecipients(list string) []string {
	normalized := letter.NormalizeRecipients(list)
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, ",")
}

var _ port.EmailSender = (*SMTPSender)(nil)
