package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/mail"
	"strings"

	"github.com/go-gomail/gomail"
	"github.com/google/uuid"
)

// ErrNotConfigured is returned when no SMTP server is set and sending is not
// suppressed.
var ErrNotConfigured = errors.New("mailer: not configured")

// Config holds the SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	SSL      bool

	// Suppress logs messages instead of delivering them.
	Suppress bool
}

// Attachment is a file carried by an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a plain text email with optional attachments.
type Message struct {
	From        string
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer sends emails via SMTP.
type Mailer struct {
	cfg    *Config
	dialer *gomail.Dialer
	sendFn func(*gomail.Message) error
}

// New returns a Mailer for the given transport settings.
func New(cfg *Config) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	// NewDialer already enables implicit TLS on port 465.
	d.SSL = d.SSL || cfg.SSL

	m := &Mailer{cfg: cfg, dialer: d}
	m.sendFn = func(msg *gomail.Message) error {
		return m.dialer.DialAndSend(msg)
	}
	return m
}

// Send composes msg and delivers it synchronously. Failures are returned to
// the caller as-is; nothing is retried.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm, err := m.compose(msg)
	if err != nil {
		return err
	}

	if m.cfg.Suppress {
		slog.Info("mailer: delivery suppressed",
			"to", msg.To,
			"subject", msg.Subject,
			"attachments", len(msg.Attachments),
		)
		return nil
	}

	if m.cfg.Host == "" {
		return ErrNotConfigured
	}

	if err := m.sendFn(gm); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", strings.Join(msg.To, ", "), err)
	}

	slog.Debug("mailer: message sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// Ping opens and closes a connection to the SMTP server.
func (m *Mailer) Ping(ctx context.Context) error {
	if m.cfg.Suppress {
		return nil
	}
	if m.cfg.Host == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sc, err := m.dialer.Dial()
	if err != nil {
		return fmt.Errorf("mailer: dial %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}
	return sc.Close()
}

// compose builds the MIME message. Attachments keep their bytes and content
// type unchanged and are transferred base64-encoded.
func (m *Mailer) compose(msg Message) (*gomail.Message, error) {
	if msg.From == "" {
		return nil, errors.New("mailer: message has no sender")
	}
	if len(msg.To) == 0 {
		return nil, errors.New("mailer: message has no recipients")
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetHeader("Message-ID", messageID(msg.From))
	gm.SetBody("text/plain", msg.Body)

	for _, att := range msg.Attachments {
		data := att.Data
		// gomail neither escapes nor encodes its default filename parameter.
		disposition := mime.FormatMediaType("attachment", map[string]string{"filename": att.Filename})
		gm.Attach(att.Filename,
			gomail.Rename(att.Filename),
			gomail.SetHeader(map[string][]string{
				"Content-Type":        {att.ContentType},
				"Content-Disposition": {disposition},
			}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
	}

	return gm, nil
}

func messageID(from string) string {
	domain := "localhost"
	if addr, err := mail.ParseAddress(from); err == nil {
		if at := strings.LastIndex(addr.Address, "@"); at >= 0 && at < len(addr.Address)-1 {
			domain = addr.Address[at+1:]
		}
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
