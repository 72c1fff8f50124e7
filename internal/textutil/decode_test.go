// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textutil

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	t.Run("valid utf-8 passes through", func(t *testing.T) {
		text, lossy := Decode([]byte("Café, naïve"))
		assert.Equal(t, "Café, naïve", text)
		assert.False(t, lossy)
	})

	t.Run("byte order mark removed", func(t *testing.T) {
		text, lossy := Decode([]byte("\xef\xbb\xbfName,Tags"))
		assert.Equal(t, "Name,Tags", text)
		assert.False(t, lossy)
	})

	t.Run("invalid bytes substituted", func(t *testing.T) {
		text, lossy := Decode([]byte("ok \xff\xfe end"))
		assert.True(t, lossy)
		assert.True(t, utf8.ValidString(text))
		assert.Contains(t, text, "\ufffd")
		assert.Contains(t, text, "ok ")
		assert.Contains(t, text, " end")
	})

	t.Run("empty input", func(t *testing.T) {
		text, lossy := Decode(nil)
		assert.Equal(t, "", text)
		assert.False(t, lossy)
	})
}
