package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedTagsNotice(t *testing.T) {
	notice := AllowedTagsNotice()

	assert.True(t, strings.HasPrefix(notice, "Allowed HTML tags: <a> <b> <big>"))
	assert.True(t, strings.HasSuffix(notice, "<br> <img>"))
	assert.Equal(t, len(AllowedTags), strings.Count(notice, "<"))
}

func TestSanitizer(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Short teaser.", "Short teaser."},
		{"allowed inline", "Use <em>one</em> <strong>line</strong>.", "Use <em>one</em> <strong>line</strong>."},
		{"script removed", `Hi<script>alert(1)</script>`, "Hi"},
		{"disallowed element unwrapped", "<div>boxed</div>", "boxed"},
		{"event handler dropped", `<b onclick="x()">bold</b>`, "<b>bold</b>"},
		{"javascript url dropped", `<a href="javascript:alert(1)">x</a>`, "x"},
		{"link kept", `<a href="https://example.com/help">help</a>`, `<a href="https://example.com/help">help</a>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(s.Sanitize(tt.in)))
		})
	}
}
