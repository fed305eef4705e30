package event

import (
	"time"

	"github.com/drake/galley/dish"
)

// Type identifies the source of the message
type Type int

const (
	InputChanged Type = iota // User edited the input
	BakeFinished             // Pipeline produced a payload (or failed)
	UserAction
	PromptReply // Answer to a filename or slice prompt
	AsyncResult // Async work completion dispatched onto the session loop
)

// Action identifies a user request.
type Action string

const (
	ActionCopy      Action = "copy"
	ActionDownload  Action = "download"
	ActionSwitch    Action = "switch"
	ActionFileValue Action = "file_value"
	ActionUndo      Action = "undo"
	ActionSlice     Action = "slice"
	ActionClose     Action = "close"
	ActionRebake    Action = "rebake"
	ActionHighlight Action = "highlight"
	ActionClear     Action = "clear"
	ActionQuit      Action = "quit"
)

// Bake carries a pipeline result.
type Bake struct {
	Seq     uint64 // Bake request this result answers
	Payload dish.Payload
	Elapsed time.Duration
	Err     error
}

// Event is the universal packet sent to the session loop
type Event struct {
	Type     Type
	Action   Action
	Payload  string // New input for InputChanged, reply text for PromptReply
	PromptID string // PromptReply: which prompt is answered
	OK       bool   // PromptReply: false when dismissed
	TimerID  int
	Bake     Bake
	Callback func() // For AsyncResult
}
