package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	perr "pushverify/internal/platform/errors"
)

// MailOptions configures the SMTP mailer
type MailOptions struct {
	Addr     string // host:port
	From     string
	Username string
	Password string
	Domain   string        // appended to bare user names
	Timeout  time.Duration // per delivery, tightened by the ctx deadline
}

// DefaultMailTimeout bounds a delivery when MailOptions.Timeout is unset
const DefaultMailTimeout = 30 * time.Second

// sendMail is swapped in tests
var sendMail = deliver

// deliver is smtp.SendMail with a dial timeout, a conn deadline and ctx cancellation
func deliver(ctx context.Context, addr string, timeout time.Duration, a smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Unix(1, 0)) })
	defer stop()

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return perr.Unavailablef("smtp: server does not offer AUTH")
		}
		if err := c.Auth(a); err != nil {
			return err
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// Mailer sends HTML mail over SMTP
type Mailer struct {
	opts MailOptions
	now  func() time.Time
}

// NewMailer returns nil when no SMTP address is configured
func NewMailer(o MailOptions) *Mailer {
	if strings.TrimSpace(o.Addr) == "" {
		return nil
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultMailTimeout
	}
	o.From = stripCRLF.Replace(o.From)
	return &Mailer{opts: o, now: time.Now}
}

var stripCRLF = strings.NewReplacer("\r", "", "\n", "")

// Send delivers one HTML message to every recipient
func (m *Mailer) Send(ctx context.Context, recipients []string, htmlBody, subject string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to := m.Addresses(recipients)
	if len(to) == 0 {
		return perr.InvalidArgf("mail: no recipients")
	}

	var auth smtp.Auth
	if m.opts.Username != "" {
		host, _, err := net.SplitHostPort(m.opts.Addr)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "mail: bad smtp addr %q", m.opts.Addr)
		}
		auth = smtp.PlainAuth("", m.opts.Username, m.opts.Password, host)
	}

	if err := sendMail(ctx, m.opts.Addr, m.opts.Timeout, auth, m.opts.From, to, m.message(to, htmlBody, subject)); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "mail: send failed")
	}
	return nil
}

// Addresses turns user names into mail addresses.
// Names carrying CR or LF are dropped since they end up in the To header
func (m *Mailer) Addresses(users []string) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		u = strings.TrimSpace(u)
		if u == "" || strings.ContainsAny(u, "\r\n") {
			continue
		}
		if !strings.Contains(u, "@") && m.opts.Domain != "" {
			u = u + "@" + m.opts.Domain
		}
		out = append(out, u)
	}
	return out
}

func (m *Mailer) message(to []string, htmlBody, subject string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.opts.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
