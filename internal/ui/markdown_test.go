package ui

import (
	"strings"
	"testing"
)

const reportMarkdown = `# Portfolio report

_As of 2025-02-10_

| Total | Active | Completed | Overdue |
|---:|---:|---:|---:|
| 3 | 2 | 1 | 0 |

- **Billing revamp** (In Progress, 40%): Waiting on vendor sign-off.
`

func TestRenderMarkdownReport(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown(reportMarkdown, 100)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Fatalf("expected a single trailing newline, got %q", out[max(0, len(out)-10):])
	}
	for _, want := range []string{"Portfolio report", "Overdue", "Billing revamp", "vendor sign-off"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderMarkdownForPipedOutputIsPlain(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdownFor(&DisplayContext{TermWidth: 80}, reportMarkdown)
	if err != nil {
		t.Fatalf("RenderMarkdownFor() error = %v", err)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("piped output should carry no escape sequences:\n%q", out)
	}
	if !strings.Contains(out, "Billing revamp") {
		t.Fatalf("piped output lost content:\n%s", out)
	}

	if _, err := RenderMarkdownFor(nil, "Waiting on **vendor**."); err != nil {
		t.Fatalf("RenderMarkdownFor(nil) error = %v", err)
	}
	if out, err := RenderMarkdown("Blocked.", 0); err != nil || strings.TrimSpace(out) == "" {
		t.Fatalf("zero width should fall back to the default, got %q, %v", out, err)
	}
}

func TestMarkdownStyleFollowsAccent(t *testing.T) {
	origAccent, origAccentBold, origColor := Accent, AccentBold, accentColor
	t.Cleanup(func() {
		Accent, AccentBold, accentColor = origAccent, origAccentBold, origColor
	})

	ConfigureTheme("")
	if got := *markdownStyle().Heading.Color; got != defaultAccent {
		t.Fatalf("default heading color = %q", got)
	}

	ConfigureTheme("208")
	style := markdownStyle()
	if *style.Heading.Color != "208" || *style.Code.Color != "208" {
		t.Fatalf("headings and inline code should use the configured accent, got %q / %q", *style.Heading.Color, *style.Code.Color)
	}
	if style.H1.Underline == nil || !*style.H1.Underline {
		t.Fatal("report titles should be underlined")
	}
}

func TestConfigureMarkdownCodeTheme(t *testing.T) {
	orig := markdownCodeTheme
	t.Cleanup(func() {
		markdownCodeTheme = orig
	})

	tests := []struct {
		in   string
		want string
	}{
		{in: "dracula", want: "dracula"},
		{in: " GitHub ", want: "github"},
		{in: "not-a-real-theme", want: defaultCodeTheme},
		{in: "", want: defaultCodeTheme},
	}
	for _, tt := range tests {
		ConfigureMarkdownCodeTheme(tt.in)
		if markdownCodeTheme != tt.want {
			t.Errorf("ConfigureMarkdownCodeTheme(%q) -> %q, want %q", tt.in, markdownCodeTheme, tt.want)
		}
		if markdownStyle().CodeBlock.Theme != tt.want {
			t.Errorf("style theme after %q = %q", tt.in, markdownStyle().CodeBlock.Theme)
		}
	}
}
