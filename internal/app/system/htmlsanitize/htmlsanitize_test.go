package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/lecternhq/lectern/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	if got := htmlsanitize.Sanitize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	if got := htmlsanitize.Sanitize("Class moved to 4pm."); got != "Class moved to 4pm." {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestSanitize_SafeFormatting(t *testing.T) {
	input := "<p><strong>Exam</strong> on <em>Friday</em></p>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	got := htmlsanitize.Sanitize("<p>Hi</p><script>alert('x')</script>")
	if strings.Contains(got, "script") {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestSanitize_RemovesEventHandlers(t *testing.T) {
	input := `<a href="https://example.com" onclick="steal()">link</a>`
	got := htmlsanitize.Sanitize(input)
	if strings.Contains(got, "onclick") {
		t.Errorf("expected onclick stripped, got %q", got)
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	got := htmlsanitize.Sanitize(`<a href="javascript:alert('x')">click</a>`)
	if strings.Contains(got, "javascript:") {
		t.Errorf("expected javascript: href stripped, got %q", got)
	}
}
