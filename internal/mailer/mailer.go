// Package mailer delivers rendered reports as email attachments over SMTP
// with STARTTLS. Configuration, authentication and transport failures are
// surfaced as distinct error kinds so the operator sees which one to fix.
package mailer

import (
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/tornadohq/posreport/internal/models"
)

// ErrIncompleteConfig means sender, password or recipient is missing; it is
// returned before any network attempt.
var ErrIncompleteConfig = errors.New("email configuration incomplete")

// AuthError is an SMTP authentication rejection.
type AuthError struct {
	Cause error
}

func (e *AuthError) Error() string { return "smtp authentication failed: " + e.Cause.Error() }
func (e *AuthError) Unwrap() error { return e.Cause }

// TransportError is any non-auth SMTP or network failure.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string { return "smtp transport failed: " + e.Cause.Error() }
func (e *TransportError) Unwrap() error { return e.Cause }

// Mailer sends report emails for one configured sender/recipient pair.
type Mailer struct {
	cfg            models.SMTPConfig
	restaurantName string
	reportTitle    string
	logger         *zap.Logger
	now            func() time.Time
}

func New(cfg models.SMTPConfig, restaurantName, reportTitle string, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{
		cfg:            cfg,
		restaurantName: restaurantName,
		reportTitle:    reportTitle,
		logger:         logger,
		now:            time.Now,
	}
}

func (m *Mailer) validate() error {
	if m.cfg.Sender == "" || m.cfg.Password == "" || m.cfg.Recipient == "" {
		return fmt.Errorf("%w: sender, password and recipient are all required", ErrIncompleteConfig)
	}
	return nil
}

// SendReport emails the document as a PDF attachment. periodLabel is the
// human period name ("November 2025", "March 8, 2025"); kind is "daily" or
// "monthly" and only affects subject and filename wording.
func (m *Mailer) SendReport(document []byte, periodLabel, kind string) error {
	if err := m.validate(); err != nil {
		return err
	}

	kindCap := capitalize(kind)
	filename := fmt.Sprintf("Sales_Report_%s_%s.pdf", kindCap,
		strings.ReplaceAll(strings.ReplaceAll(periodLabel, " ", "_"), ",", ""))

	body := fmt.Sprintf(`Dear Restaurant Owner,

Please find attached the %s sales report for %s.

Best regards,
%s Reporting System

---
This is an automated email. Generated on %s`,
		kind, periodLabel, m.restaurantName, m.now().Format("2006-01-02 at 15:04"))

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender)
	msg.SetHeader("To", m.cfg.Recipient)
	msg.SetHeader("Subject", fmt.Sprintf("%s - %s Report - %s", m.reportTitle, kindCap, periodLabel))
	msg.SetBody("text/plain", body)
	msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(document)
		return err
	}))

	m.logger.Info("sending report email",
		zap.String("host", m.cfg.Host),
		zap.Int("port", m.cfg.Port),
		zap.String("recipient", m.cfg.Recipient),
		zap.String("attachment", filename))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Sender, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return classify(err)
	}

	m.logger.Info("report email sent", zap.String("recipient", m.cfg.Recipient))
	return nil
}

// TestConnection dials and authenticates without sending anything, so the
// operator can verify credentials from the CLI.
func (m *Mailer) TestConnection() error {
	if err := m.validate(); err != nil {
		return err
	}
	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Sender, m.cfg.Password)
	closer, err := dialer.Dial()
	if err != nil {
		return classify(err)
	}
	return closer.Close()
}

// classify splits SMTP failures into authentication vs transport. Auth
// rejections arrive as 53x replies; anything else, including network errors,
// is a transport failure.
func classify(err error) error {
	var proto *textproto.Error
	if errors.As(err, &proto) && proto.Code >= 530 && proto.Code <= 539 {
		return &AuthError{Cause: err}
	}
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "username and password not accepted") ||
		strings.Contains(lower, "authentication failed") {
		return &AuthError{Cause: err}
	}
	return &TransportError{Cause: err}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
