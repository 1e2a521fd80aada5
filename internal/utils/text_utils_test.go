package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	t.Run("short text untouched", func(t *testing.T) {
		assert.Equal(t, "hello", tp.TruncateText("hello", 100))
	})

	t.Run("zero max size untouched", func(t *testing.T) {
		assert.Equal(t, "hello", tp.TruncateText("hello", 0))
	})

	t.Run("long text truncated with marker", func(t *testing.T) {
		got := tp.TruncateText(strings.Repeat("a", 100), 10)
		assert.True(t, strings.HasPrefix(got, strings.Repeat("a", 10)))
		assert.Contains(t, got, "Content truncated")
	})

	t.Run("cut lands on rune boundary", func(t *testing.T) {
		// "héllo" cut mid-rune must stay valid UTF-8.
		got := tp.TruncateText("héllo", 2)
		assert.True(t, utf8.ValidString(got))
		assert.True(t, strings.HasPrefix(got, "h"))
	})
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	t.Run("valid text untouched", func(t *testing.T) {
		assert.Equal(t, "héllo ¥100", tp.SanitizeUTF8("héllo ¥100"))
	})

	t.Run("invalid bytes dropped", func(t *testing.T) {
		got := tp.SanitizeUTF8("ok\xffok")
		assert.Equal(t, "okok", got)
		assert.True(t, utf8.ValidString(got))
	})
}
