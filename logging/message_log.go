package logging

import (
	"image/color"
	"sync"
)

// MessageType defines the kinds of entries shown in the debug overlay
type MessageType int

const (
	// MessageTypeNormal is for informational engine output (light gray)
	MessageTypeNormal MessageType = iota
	// MessageTypeSystem is for lifecycle messages such as init and shutdown (purple)
	MessageTypeSystem
	// MessageTypeAlert is for warnings (bright yellow)
	MessageTypeAlert
	// MessageTypeError is for errors and fatal errors (red)
	MessageTypeError
)

// ColoredMessage stores a message with its associated type
type ColoredMessage struct {
	Text string
	Type MessageType
}

// GetColor returns the color for the message based on its type
func (cm ColoredMessage) GetColor() color.RGBA {
	switch cm.Type {
	case MessageTypeSystem:
		return color.RGBA{186, 85, 211, 255} // Medium Orchid
	case MessageTypeAlert:
		return color.RGBA{255, 255, 0, 255}
	case MessageTypeError:
		return color.RGBA{255, 100, 100, 255}
	default:
		return color.RGBA{200, 200, 200, 255}
	}
}

// DefaultMaxMessages is how many entries a new MessageLog keeps
const DefaultMaxMessages = 100

// MessageLog stores the most recent engine messages.
// Audio callbacks may log from their own goroutine, so access is locked.
type MessageLog struct {
	mu          sync.Mutex
	messages    []ColoredMessage
	maxMessages int
}

// NewMessageLog creates a message log that keeps at most max entries
func NewMessageLog(max int) *MessageLog {
	if max <= 0 {
		max = DefaultMaxMessages
	}
	return &MessageLog{
		messages:    make([]ColoredMessage, 0, max),
		maxMessages: max,
	}
}

// Add appends a normal message
func (ml *MessageLog) Add(text string) {
	ml.AddTyped(text, MessageTypeNormal)
}

// AddTyped appends a message, dropping the oldest when full
func (ml *MessageLog) AddTyped(text string, typ MessageType) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	ml.messages = append(ml.messages, ColoredMessage{Text: text, Type: typ})
	if len(ml.messages) > ml.maxMessages {
		ml.messages = ml.messages[len(ml.messages)-ml.maxMessages:]
	}
}

// Messages returns a copy of all messages, oldest first
func (ml *MessageLog) Messages() []ColoredMessage {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	out := make([]ColoredMessage, len(ml.messages))
	copy(out, ml.messages)
	return out
}

// Len returns the number of stored messages
func (ml *MessageLog) Len() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return len(ml.messages)
}

// RecentMessages gets the n most recent messages, newest first
func (ml *MessageLog) RecentMessages(n int) []ColoredMessage {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if n > len(ml.messages) {
		n = len(ml.messages)
	}

	result := make([]ColoredMessage, n)
	for i := 0; i < n; i++ {
		result[i] = ml.messages[len(ml.messages)-1-i]
	}
	return result
}

// Clear clears all messages
func (ml *MessageLog) Clear() {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	ml.messages = ml.messages[:0]
}
