package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"ramsblog/common"
	"ramsblog/models"
)

type EmailService struct {
	host     string
	port     string
	user     string
	password string
	from     string
	notifyTo string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg *common.Config) *EmailService {
	return &EmailService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		notifyTo: cfg.ContactNotifyEmail,
		send:     smtp.SendMail,
	}
}

// Enabled reports whether SMTP and a notification address are configured.
func (e *EmailService) Enabled() bool {
	return e != nil && e.host != "" && e.notifyTo != ""
}

// headerValue folds CR and LF so user input cannot start a new header line.
var headerValue = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func (e *EmailService) Send(to, subject, body string) error {
	to = headerValue.Replace(to)
	subject = headerValue.Replace(subject)
	message := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", e.from, to, subject, body)

	auth := smtp.PlainAuth("", e.user, e.password, e.host)
	addr := fmt.Sprintf("%s:%s", e.host, e.port)

	if err := e.send(addr, auth, e.from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("sending email to %s: %w", to, err)
	}
	return nil
}

// NotifyContactRequest tells the site owner about a new contact request.
// It is a no-op when email is not configured.
func (e *EmailService) NotifyContactRequest(req *models.ContactRequest) error {
	if !e.Enabled() {
		return nil
	}

	subject := "New contact request: " + req.Subject
	body := fmt.Sprintf(`A new query was submitted on the contact page.

Name:    %s
Email:   %s
Phone:   %s
Subject: %s

%s
`, req.Name, req.Email, req.Phone, req.Subject, req.Message)

	return e.Send(e.notifyTo, subject, body)
}
