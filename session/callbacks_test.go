package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackManagerOneShot(t *testing.T) {
	c := NewCallbackManager()
	var got []string
	id := c.Register(func(v string, ok bool) {
		if ok {
			got = append(got, v)
		}
	})

	assert.True(t, c.Execute(id, "a", true))
	assert.False(t, c.Execute(id, "b", true))
	assert.Equal(t, []string{"a"}, got)
}

func TestCallbackManagerDismissal(t *testing.T) {
	c := NewCallbackManager()
	dismissed := false
	id := c.Register(func(_ string, ok bool) { dismissed = !ok })

	assert.True(t, c.Execute(id, "", false))
	assert.True(t, dismissed)
	assert.Zero(t, c.Pending())
}

func TestCallbackManagerDistinctIDs(t *testing.T) {
	c := NewCallbackManager()
	a := c.Register(nil)
	b := c.Register(nil)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, c.Pending())
	assert.True(t, c.Execute(a, "", true))
}
