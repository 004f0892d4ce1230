package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func New(host string, port int, user, password, from string) *Mailer {
	return &Mailer{Host: host, Port: port, User: user, Password: password, From: from}
}

func (m *Mailer) SendVerificationCode(to, username, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "FreelanceHub | Verification Code")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>Your verification code is <b>%s</b>. It expires in one hour.</p>",
		username, code,
	))

	d := gomail.NewDialer(m.Host, m.Port, m.User, m.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}
