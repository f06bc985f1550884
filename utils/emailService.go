package utils

import (
	"fmt"
	"log"

	"elearn/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEnrollmentEmail sends the enrollment confirmation after a successful
// purchase. Email delivery is best-effort: failures are logged and never
// affect the purchase outcome.
func SendEnrollmentEmail(name, email, courseTitle string) {
	subject := "You are enrolled: " + courseTitle
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your enrollment in <strong>%s</strong> is confirmed. You can start learning right away.</p>
		<p>Happy studying!</p>`, name, courseTitle)

	sendEmail(email, subject, body)
}

// SendCompletionEmail congratulates a student on completing a course.
func SendCompletionEmail(name, email, courseTitle string) {
	subject := "Congratulations on completing " + courseTitle
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You have completed <strong>%s</strong>. Well done!</p>`, name, courseTitle)

	sendEmail(email, subject, body)
}

func sendEmail(email, subject, htmlBody string) {
	if config.AppConfig == nil || config.AppConfig.SendgridAPIKey == "" {
		return
	}

	from := mail.NewEmail("eLearn", config.AppConfig.EmailSender)
	to := mail.NewEmail("", email)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] failed to send %q to %s: %v", subject, email, err)
		return
	}
	if resp.StatusCode >= 300 {
		log.Printf("[EMAIL] sendgrid returned %d for %q to %s", resp.StatusCode, subject, email)
	}
}
