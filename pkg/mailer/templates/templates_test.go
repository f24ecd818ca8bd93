package templates

import (
	"strings"
	"testing"
	"time"
)

func TestRenderVerifyEmail(t *testing.T) {
	t.Parallel()

	link := "https://app.example.com/verify?token=abc123"
	html, err := RenderHTML(VerifyEmail, VerifyEmailData("Alice", "alice@x.com", link, "Example", "https://example.com/support", time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(html, link) {
		t.Error("rendered email does not contain the verification link")
	}
	if !strings.Contains(html, "Alice") {
		t.Error("rendered email does not address the recipient")
	}
}

func TestRenderWelcome(t *testing.T) {
	t.Parallel()

	html, err := RenderHTML(Welcome, WelcomeData("Bob", "bob@x.com", "Example", "https://example.com/support"))
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(html, "Bob") {
		t.Error("rendered email does not address the recipient")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	t.Parallel()

	if _, err := RenderHTML("no_such_template", nil); err == nil {
		t.Error("expected an error for an unknown template name")
	}
}

func TestSubject(t *testing.T) {
	t.Parallel()

	if got := Subject(VerifyEmail); got != "Verify your email address" {
		t.Errorf("Subject(VerifyEmail) = %q", got)
	}
	if got := Subject("other"); got != "Notification" {
		t.Errorf("Subject(other) = %q", got)
	}
}
