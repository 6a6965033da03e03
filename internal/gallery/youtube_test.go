package gallery

import "testing"

func TestExtractYouTubeIDRecognizesCommonShapes(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{name: "watch url", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", expected: "dQw4w9WgXcQ"},
		{name: "short link", url: "https://youtu.be/dQw4w9WgXcQ", expected: "dQw4w9WgXcQ"},
		{name: "embed path", url: "https://www.youtube.com/embed/dQw4w9WgXcQ", expected: "dQw4w9WgXcQ"},
		{name: "shorts path", url: "https://youtube.com/shorts/dQw4w9WgXcQ", expected: "dQw4w9WgXcQ"},
		{name: "mobile host", url: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", expected: "dQw4w9WgXcQ"},
		{name: "watch with extra params", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", expected: "dQw4w9WgXcQ"},
		{name: "not youtube", url: "https://vimeo.com/123456", expected: ""},
		{name: "wrong id length", url: "https://youtu.be/short", expected: ""},
		{name: "garbage", url: "::not a url::", expected: ""},
		{name: "empty", url: "", expected: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := ExtractYouTubeID(testCase.url); got != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestThumbnailURL(t *testing.T) {
	if got := ThumbnailURL("dQw4w9WgXcQ"); got != "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg" {
		t.Fatalf("unexpected thumbnail url %q", got)
	}
	if got := ThumbnailURL(""); got != "" {
		t.Fatalf("expected empty thumbnail for empty id, got %q", got)
	}
}
