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

	assert.Equal(t, "short", tp.TruncateText("short", 100))
	assert.Equal(t, "unbounded", tp.TruncateText("unbounded", 0))

	long := strings.Repeat("a", 200)
	truncated := tp.TruncateText(long, 50)
	assert.True(t, strings.HasSuffix(truncated, "\n[truncated]"))
	assert.True(t, utf8.ValidString(truncated))
}

func TestTruncateTextDoesNotSplitRunes(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	// Each rune is 3 bytes; a 4 byte cut lands mid-rune
	text := "日本語テスト"
	truncated := tp.TruncateText(text, 4)
	assert.True(t, utf8.ValidString(truncated))
	assert.True(t, strings.HasPrefix(truncated, "日"))
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "clean text", tp.SanitizeUTF8("clean text"))

	invalid := "abc" + string([]byte{0xff, 0xfe}) + "def"
	sanitized := tp.SanitizeUTF8(invalid)
	assert.True(t, utf8.ValidString(sanitized))
	assert.Equal(t, "abcdef", sanitized)
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	out := tp.ProcessText(strings.Repeat("x", 100)+string([]byte{0xff}), 20)
	assert.True(t, utf8.ValidString(out))
	assert.True(t, strings.Contains(out, "[truncated]"))
}
