package mailer

// Mailer defines the interface for sending account emails.
type Mailer interface {
	// SendPasswordReset delivers a reset token and link to the user.
	SendPasswordReset(toEmail, toName, token string) error
	// Enabled reports whether the implementation actually delivers mail.
	Enabled() bool
}
