package templates

// NewConfirmAccountData builds the data for the mail sent after registration.
func NewConfirmAccountData(appName, name, email, confirmURL string) map[string]any {
	return ToMap(EmailData{Name: name, Email: email, AppName: appName, ActionURL: confirmURL})
}

// NewResetPasswordData builds the data for the forgot-password mail.
func NewResetPasswordData(appName, name, email, resetURL string) map[string]any {
	return ToMap(EmailData{Name: name, Email: email, AppName: appName, ActionURL: resetURL})
}
