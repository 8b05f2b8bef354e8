package service

import "fmt"

func verificationEmailTemplate(name, code, appName string) (string, string) {
	subject := fmt.Sprintf("Verify your email for %s", appName)
	body := fmt.Sprintf(`Hi %s,

Your verification code is:

%s

Enter this code to verify your email address. It expires in 24 hours.

If you didn't create an account, you can safely ignore this email.

Best,
The %s Team`, name, code, appName)

	return subject, body
}

func welcomeEmailTemplate(name, clientURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your email is verified and your account is active!

Start reading: %s

Best,
The %s Team`, name, clientURL, appName)

	return subject, body
}

func passwordResetEmailTemplate(name, resetURL, appName string) (string, string) {
	subject := fmt.Sprintf("Reset your password for %s", appName)
	body := fmt.Sprintf(`Hi %s,

You requested to reset your password. Click this link to choose a new one:
%s

This link expires in 1 hour and can only be used once.

If you didn't request this, you can safely ignore this email. Your password won't be changed.

Best,
The %s Team`, name, resetURL, appName)

	return subject, body
}

func passwordChangedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s password was changed", appName)
	body := fmt.Sprintf(`Hi %s,

Your password was just changed. If this was you, no further action is needed.

If you didn't change your password, reset it immediately and contact support.

Best,
The %s Team`, name, appName)

	return subject, body
}
