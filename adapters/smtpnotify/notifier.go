// Package smtpnotify delivers password reset instructions over SMTP.
package smtpnotify

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"
	goerrors "github.com/goliatone/go-errors"

	"github.com/quizapp/go-auth"
)

// Notifier implements auth.Notifier using an SMTP relay.
type Notifier struct {
	Host               string
	Port               int
	From               string
	User               string
	Pass               string
	Subject            string
	TLSMode            string // "auto" | "ssl" | "none"
	InsecureSkipVerify bool

	logger auth.Logger
}

// New creates an SMTP notifier with STARTTLS negotiation.
func New(host string, port int, from, user, pass string) *Notifier {
	return &Notifier{
		Host:    host,
		Port:    port,
		From:    from,
		User:    user,
		Pass:    pass,
		Subject: "Password reset instructions",
		TLSMode: "auto",
		logger:  auth.NewDefaultLogger(),
	}
}

// WithLogger overrides the logger used by the notifier.
func (n *Notifier) WithLogger(logger auth.Logger) *Notifier {
	if logger != nil {
		n.logger = logger
	}
	return n
}

// NotifyPasswordReset sends the reset link to the user.
func (n *Notifier) NotifyPasswordReset(ctx context.Context, notification auth.ResetNotification) error {
	link := notification.Token
	if notification.ResetURL != "" {
		link = fmt.Sprintf("%s/%s", notification.ResetURL, notification.Token)
	}

	m := mail.NewMessage()
	m.SetHeader("From", n.From)
	m.SetHeader("To", notification.Email)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/plain", fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Use the following link to choose a new password:\n%s\n\n"+
			"The link expires in one hour. If you did not request this, ignore this message.\n",
		link,
	))

	d := mail.NewDialer(n.Host, n.Port, n.User, n.Pass)
	d.TLSConfig = &tls.Config{
		ServerName:         n.Host,
		InsecureSkipVerify: n.InsecureSkipVerify,
	}

	switch n.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.TLSConfig = &tls.Config{InsecureSkipVerify: n.InsecureSkipVerify}
	default:
		// "auto": STARTTLS is negotiated when the server offers it
	}

	if err := d.DialAndSend(m); err != nil {
		n.logger.Error("smtp send failed: %v", err)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send password reset email")
	}

	n.logger.Debug("password reset email sent to %s", notification.Email)
	return nil
}

var _ auth.Notifier = (*Notifier)(nil)
