package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drake/galley/codec"
)

func TestHighlightAddsEscapes(t *testing.T) {
	h := New("")
	src := "#!/usr/bin/env python\nprint('hi')\n"

	out, err := h.Highlight(src)
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
	assert.Equal(t, src, codec.StripANSI(out))
	assert.True(t, h.Active())
	assert.Equal(t, "python", h.Language())
}

func TestClearHighlights(t *testing.T) {
	h := New("no-such-style")
	_, err := h.Highlight("plain words")
	require.NoError(t, err)

	h.ClearHighlights()
	assert.False(t, h.Active())
	assert.Empty(t, h.Language())
}

func TestDetectShebang(t *testing.T) {
	assert.Equal(t, "shell", strings.ToLower(Detect("#!/bin/sh\necho hi\n")))
}
