package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names understood by the email worker.
const (
	VerifyEmail = "verify_email"
	Welcome     = "welcome"
)

// VerifyEmailData builds the template context for a verification email.
// The link embeds the raw token; the token itself is not a separate field so
// it never ends up in logs by accident.
func VerifyEmailData(name, email, link, companyName, supportURL string, expiresAt time.Time) map[string]any {
	return map[string]any{
		"Name":        name,
		"Email":       email,
		"Link":        link,
		"CompanyName": companyName,
		"SupportURL":  supportURL,
		"ExpiresAt":   expiresAt.UTC().Format("02 January 2006, 15:04 MST"),
	}
}

// WelcomeData builds the template context for the post-registration email.
func WelcomeData(name, email, companyName, supportURL string) map[string]any {
	return map[string]any{
		"Name":        name,
		"Email":       email,
		"CompanyName": companyName,
		"SupportURL":  supportURL,
	}
}

// Subject returns the subject line for a known template.
func Subject(name string) string {
	switch name {
	case VerifyEmail:
		return "Verify your email address"
	case Welcome:
		return "Welcome aboard"
	default:
		return "Notification"
	}
}

// RenderHTML renders the named template with data.
func RenderHTML(name string, data map[string]any) (string, error) {
	t, err := htmpl.ParseFS(FS, name+".tmpl")
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
