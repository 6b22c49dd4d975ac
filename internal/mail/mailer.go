package mail

import (
	"fmt"
	"net/smtp"
	"os"
)

// Mailer sends transactional mail over plain SMTP. Credentials come from
// SMTP_FROM / SMTP_PASSWORD / SMTP_HOST / SMTP_PORT at send time.
type Mailer struct{}

func New() *Mailer {
	return &Mailer{}
}

func (m *Mailer) send(to, subject, body string) error {
	from := os.Getenv("SMTP_FROM")
	password := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")

	auth := smtp.PlainAuth("", from, password, host)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	err := smtp.SendMail(host+":"+port, auth, from, []string{to}, message)
	if err != nil {
		fmt.Println("❌ SMTP error:", err)
	}
	return err
}

func (m *Mailer) SendVerificationEmail(to string, token string) error {
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8080"
	}
	link := fmt.Sprintf("%s/verify?token=%s", appURL, token)
	body := fmt.Sprintf("Click the following link to verify your account:\n\n%s", link)
	return m.send(to, "Verify Your Account", body)
}

func (m *Mailer) SendPurchaseEmail(to, name, courseTitle string) error {
	subject := fmt.Sprintf("You're enrolled in %s", courseTitle)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour payment was received and %q has been added to your courses.\nHappy learning!\n",
		name, courseTitle)
	return m.send(to, subject, body)
}
