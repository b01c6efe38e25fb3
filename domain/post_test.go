package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostString(t *testing.T) {
	post := Post{Text: "hello"}
	rendered := post.String()
	if len(rendered) > 15 {
		rendered = rendered[:15]
	}
	assert.Equal(t, "hello", rendered)
}

func TestPostPreview(t *testing.T) {
	t.Run("short text stays intact", func(t *testing.T) {
		post := Post{Text: "hello"}
		assert.Equal(t, "hello", post.Preview())
	})

	t.Run("long text truncates to thirty runes", func(t *testing.T) {
		post := Post{Text: strings.Repeat("a", 100)}
		assert.Equal(t, strings.Repeat("a", 30), post.Preview())
	})

	t.Run("truncation counts runes, not bytes", func(t *testing.T) {
		post := Post{Text: strings.Repeat("я", 40)}
		assert.Equal(t, strings.Repeat("я", 30), post.Preview())
	})

	t.Run("exactly thirty runes is not cut", func(t *testing.T) {
		text := strings.Repeat("b", 30)
		post := Post{Text: text}
		assert.Equal(t, text, post.Preview())
	})
}
