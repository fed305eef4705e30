package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drake/galley/codec"
	"github.com/drake/galley/dish"
)

func TestIsText(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want bool
	}{
		{"empty", nil, true},
		{"ascii", []byte("hello\nworld"), true},
		{"utf8", []byte("héllo ✓"), true},
		{"nul", []byte{'a', 0, 'b'}, false},
		{"utf16 bom", []byte{0xFF, 0xFE, 'h', 0}, true},
		{"high bytes", []byte{0x80, 0x81, 0x82, 0x83, 0x90}, false},
		{"mostly latin1", []byte("caf\xe9 au lait"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsText(tt.in))
		})
	}
}

func TestPassthroughText(t *testing.T) {
	p, err := Passthrough{Codec: codec.New(codec.Options{})}.Bake(context.Background(), []byte("\xEF\xBB\xBFhi"))
	require.NoError(t, err)
	assert.Equal(t, dish.Text, p.Kind())
}

func TestPassthroughBinaryCopiesInput(t *testing.T) {
	in := []byte{0, 1, 2, 3}
	p, err := Passthrough{}.Bake(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, dish.Binary, p.Kind())

	in[0] = 9

	store := dish.NewStore(dish.Options{})
	require.NoError(t, store.Set(p, 0))
	buf, ok := store.Buffer()
	require.True(t, ok)
	assert.Equal(t, []byte{0, 1, 2, 3}, buf)
}

func TestMarkdownKeepsScripts(t *testing.T) {
	src := "# Title\n\nsome *text*\n\n<script>galley.notify('hi')</script>\n"
	res := Run(context.Background(), NewMarkdown(), []byte(src))
	require.NoError(t, res.Err)
	assert.Equal(t, dish.Markup, res.Payload.Kind())

	store := dish.NewStore(dish.Options{})
	require.NoError(t, store.Set(res.Payload, res.Elapsed))
	d, _ := store.Current()
	assert.Contains(t, d.Content, "<h1>Title</h1>")
	assert.Contains(t, d.Content, "<em>text</em>")
	assert.Contains(t, d.Content, "<script>galley.notify('hi')</script>")
	assert.True(t, strings.HasPrefix(d.Text, "Title"))
}

func TestRunWrapsErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := Run(ctx, Passthrough{}, []byte("x"))
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.ErrorContains(t, res.Err, "passthrough")
}

func TestByNameAndForFile(t *testing.T) {
	b, err := ByName("md", nil)
	require.NoError(t, err)
	assert.Equal(t, "markdown", b.Name())

	_, err = ByName("rot13", nil)
	assert.Error(t, err)

	assert.Equal(t, "markdown", ForFile("README.md", nil).Name())
	assert.Equal(t, "passthrough", ForFile("data.bin", nil).Name())
}
