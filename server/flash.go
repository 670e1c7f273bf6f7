package server

import (
	"sync"

	"github.com/aionx/connect-dashboard/dashboard"
)

// Flash is one transient notification, rendered on the next page load.
type Flash struct {
	Title   string
	Message string
	IsError bool
}

// FlashBuffer collects controller notifications per login session and hands
// them to the next render. Implements dashboard.Notifier.
type FlashBuffer struct {
	mu      sync.Mutex
	entries []Flash
}

var _ dashboard.Notifier = (*FlashBuffer)(nil)

func NewFlashBuffer() *FlashBuffer {
	return &FlashBuffer{}
}

func (fb *FlashBuffer) Success(title, message string) {
	fb.push(Flash{Title: title, Message: message})
}

func (fb *FlashBuffer) Error(title, message string) {
	fb.push(Flash{Title: title, Message: message, IsError: true})
}

// Pop drains the pending notifications.
func (fb *FlashBuffer) Pop() []Flash {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	entries := fb.entries
	fb.entries = nil
	return entries
}

func (fb *FlashBuffer) push(f Flash) {
	fb.mu.Lock()
	fb.entries = append(fb.entries, f)
	fb.mu.Unlock()
}
