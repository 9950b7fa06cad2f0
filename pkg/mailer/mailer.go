package mailer

import (
	"bytes"
	"io"

	"clinic-booking/pkg/utils"

	"github.com/go-gomail/gomail"
	"go.uber.org/zap"
)

// Mailer sends plain-text mail with an optional attachment. Callers treat
// delivery as best effort; a failed send never affects booking or payment
// state.
type Mailer interface {
	Send(to, subject, body string, attachmentName string, attachment []byte) error
}

type smtpMailer struct {
	config utils.EmailConfig
	log    *zap.Logger
}

func NewSMTPMailer(config utils.EmailConfig, log *zap.Logger) Mailer {
	return &smtpMailer{
		config: config,
		log:    log.With(zap.String("component", "mailer")),
	}
}

func (m *smtpMailer) Send(to, subject, body string, attachmentName string, attachment []byte) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if attachmentName != "" && len(attachment) > 0 {
		msg.Attach(attachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(attachment))
			return err
		}))
	}

	dialer := gomail.NewDialer(m.config.Host, m.config.Port, m.config.User, m.config.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		m.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return err
	}

	m.log.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Bool("has_attachment", attachmentName != ""),
	)
	return nil
}
