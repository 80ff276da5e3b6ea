package utils

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService sends transactional mail through SendGrid.
type EmailService struct {
	apiKey string
	sender string
}

func NewEmailService(apiKey, sender string) *EmailService {
	return &EmailService{apiKey: apiKey, sender: sender}
}

// SendPasswordReset mails the reset link to the user.
func (es *EmailService) SendPasswordReset(name, email, resetURL string) error {
	from := mail.NewEmail("LMS", es.sender)
	to := mail.NewEmail(name, email)
	subject := "Password Reset Request"

	plain := fmt.Sprintf("Hi %s,\n\nReset your password using the link below (valid for 10 minutes):\n%s\n\nIf you did not request this, ignore this email.", name, resetURL)
	html := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Password Reset</h2>
					<p style="font-size: 16px; color: #555555;">Hi %s,</p>
					<p style="font-size: 14px; color: #555555;">Click the button below to reset your password. The link is valid for 10 minutes.</p>
					<p style="text-align: center; margin: 30px 0;">
						<a href="%s" style="background-color: #4CAF50; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Reset Password</a>
					</p>
					<p style="font-size: 12px; color: #bbbbbb; text-align: center;">If you did not request this, you can safely ignore this email.</p>
				</div>
			</body>
		</html>`, name, resetURL)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(es.apiKey)

	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending password reset email to %s: %v", email, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected password reset email to %s: %d %s", email, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
