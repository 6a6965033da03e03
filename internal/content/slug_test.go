package content

import (
	"strings"
	"testing"
)

func TestSlugifyCollapsesSeparators(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{name: "simple title", title: "Hello World", expected: "hello-world"},
		{name: "punctuation", title: "Go, Gin & GORM!", expected: "go-gin-gorm"},
		{name: "leading and trailing noise", title: "  --What a Trip--  ", expected: "what-a-trip"},
		{name: "digits survive", title: "Top 10 Posts of 2026", expected: "top-10-posts-of-2026"},
		{name: "non ascii dropped", title: "café ☕ stories", expected: "caf-stories"},
		{name: "empty input", title: "  !!  ", expected: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := Slugify(testCase.title); got != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestSlugifyTruncatesLongTitles(t *testing.T) {
	slug := Slugify(strings.Repeat("word ", 40))
	if len(slug) > maxSlugLength {
		t.Fatalf("expected slug at most %d characters, got %d", maxSlugLength, len(slug))
	}
	if strings.HasSuffix(slug, "-") {
		t.Fatalf("expected no trailing hyphen, got %q", slug)
	}
}
