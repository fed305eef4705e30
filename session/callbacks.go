package session

import "fmt"

// CallbackManager manages one-shot prompt callbacks. Replies arrive as
// events, so callbacks always run on the session loop.
type CallbackManager struct {
	registry map[string]func(string, bool)
	nextID   int
}

// NewCallbackManager creates a new callback manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		registry: make(map[string]func(string, bool)),
	}
}

// Register stores a callback and returns its ID.
func (c *CallbackManager) Register(fn func(value string, ok bool)) string {
	c.nextID++
	id := fmt.Sprintf("p%d", c.nextID)
	c.registry[id] = fn
	return id
}

// Execute runs and removes a callback by ID. Dismissed prompts still run
// their callback, with ok false.
// Returns true if the callback was found.
func (c *CallbackManager) Execute(id, value string, ok bool) bool {
	cb, found := c.registry[id]
	if !found {
		return false
	}
	delete(c.registry, id) // One-shot
	if cb != nil {
		cb(value, ok)
	}
	return true
}

// Pending returns the number of unanswered prompts.
func (c *CallbackManager) Pending() int {
	return len(c.registry)
}
