package content

import (
	"strings"
	"testing"
)

func TestRenderMarkdownProducesSanitizedHTML(t *testing.T) {
	rendered := RenderMarkdown("# Heading\n\nsome **bold** text")
	if !strings.Contains(rendered, "<h1") {
		t.Fatalf("expected heading element, got %q", rendered)
	}
	if !strings.Contains(rendered, "<strong>bold</strong>") {
		t.Fatalf("expected bold text, got %q", rendered)
	}
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	rendered := RenderMarkdown("hello <script>alert(1)</script> world")
	if strings.Contains(rendered, "<script") {
		t.Fatalf("expected script removed, got %q", rendered)
	}
	if !strings.Contains(rendered, "hello") {
		t.Fatalf("expected surviving text, got %q", rendered)
	}
}

func TestRenderMarkdownRendersTables(t *testing.T) {
	rendered := RenderMarkdown("| a | b |\n| - | - |\n| 1 | 2 |")
	if !strings.Contains(rendered, "<table") {
		t.Fatalf("expected GFM table, got %q", rendered)
	}
}
