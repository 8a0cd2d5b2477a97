package htmlsanitize_test

import (
	"html/template"
	"strings"
	"testing"

	"github.com/dalemusser/civichub/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	if got := htmlsanitize.Sanitize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	if got := htmlsanitize.Sanitize("Hello, World!"); got != "Hello, World!" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestSanitize_SafeHTML(t *testing.T) {
	input := "<p><strong>Bold</strong> and <em>italic</em></p>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	got := htmlsanitize.Sanitize("<p>Hello</p><script>alert('xss')</script>")
	if got != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestSanitize_RemovesEventHandlers(t *testing.T) {
	for _, input := range []string{
		`<button onclick="alert('xss')">Click</button>`,
		`<img src="x.png" onerror="alert('xss')">`,
	} {
		got := htmlsanitize.Sanitize(input)
		if strings.Contains(got, "onclick") || strings.Contains(got, "onerror") {
			t.Errorf("expected handler removed from %q, got %q", input, got)
		}
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	got := htmlsanitize.Sanitize(`<a href="javascript:alert('xss')">Click</a>`)
	if strings.Contains(got, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", got)
	}
}

func TestSanitize_RemovesIframe(t *testing.T) {
	got := htmlsanitize.Sanitize(`<p>Hi</p><iframe src="https://evil.example"></iframe>`)
	if strings.Contains(got, "iframe") {
		t.Errorf("expected iframe removed, got %q", got)
	}
}

func TestSanitizeToHTML(t *testing.T) {
	got := htmlsanitize.SanitizeToHTML("<p>Hello</p><script>alert('xss')</script>")
	if got != template.HTML("<p>Hello</p>") {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestIsPlainText(t *testing.T) {
	tests := map[string]bool{
		"":              true,
		"Hello, World!": true,
		"5 < 10":        true,
		"5 > 3":         true,
		"<p>Hello</p>":  false,
	}
	for in, want := range tests {
		if got := htmlsanitize.IsPlainText(in); got != want {
			t.Errorf("IsPlainText(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPlainTextToHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Hello, World!", "<p>Hello, World!</p>"},
		{"Line 1\nLine 2\nLine 3", "<p>Line 1<br>Line 2<br>Line 3</p>"},
		{"Line 1\r\nLine 2", "<p>Line 1<br>Line 2</p>"},
		{"A & B", "<p>A &amp; B</p>"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.PlainTextToHTML(tt.in); got != tt.want {
			t.Errorf("PlainTextToHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlainTextToHTML_Escapes(t *testing.T) {
	got := htmlsanitize.PlainTextToHTML("<script>x</script>")
	if strings.Contains(got, "<script>") || !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("expected markup escaped, got %q", got)
	}
}

func TestPrepareForDisplay(t *testing.T) {
	tests := []struct {
		in   string
		want template.HTML
	}{
		{"", ""},
		{"Hello, World!", "<p>Hello, World!</p>"},
		{"Line 1\nLine 2", "<p>Line 1<br>Line 2</p>"},
		{"<p>Hello</p>", "<p>Hello</p>"},
		{"<p>Hello</p><script>alert('xss')</script>", "<p>Hello</p>"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.PrepareForDisplay(tt.in); got != tt.want {
			t.Errorf("PrepareForDisplay(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
