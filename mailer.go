package authgate

import (
	"context"
	"fmt"
)

// LogMailer is the default MailSender. It prints the message instead of
// delivering it, which is what you want in development and in tests.
type LogMailer struct {
	Logger Logger
}

var _ MailSender = (*LogMailer)(nil)

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := m.Logger
	if logger == nil {
		logger = defLogger{}
	}

	logger.Info("sending email", "to", to, "subject", subject)
	logger.Debug("email body", "body", body)
	return nil
}

// VerificationEmail renders the account verification message for a link
func VerificationEmail(link string) (subject, body string) {
	subject = "Verify Your email"
	body = fmt.Sprintf(`<h1>Verify your Email</h1>
<p>Please click this <a href="%s">link</a> to verify your email</p>`, link)
	return subject, body
}

// PasswordResetEmail renders the reset message for a link
func PasswordResetEmail(link string) (subject, body string) {
	subject = "Reset Your Password"
	body = fmt.Sprintf(`<h1>Reset Your Password</h1>
<p>Please click this <a href="%s">link</a> to Reset Your Password</p>`, link)
	return subject, body
}
