package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"dompet/internal/app"
)

// Sender is the part of *tea.Program the bridge needs.
type Sender interface {
	Send(msg tea.Msg)
}

type (
	changedMsg  struct{}
	feedbackMsg struct{ feedback app.Feedback }
	confirmMsg  struct {
		prompt string
		reply  chan<- bool
	}
)

// Bridge carries App callbacks into the program's event loop. It is the
// App's Notifier and Confirmer, and its Changed method is registered with
// App.OnChange. Until a program is attached, notifications are dropped and
// confirmations are refused.
type Bridge struct {
	mu     sync.Mutex
	sender Sender
}

func NewBridge() *Bridge {
	return &Bridge{}
}

func (b *Bridge) Attach(s Sender) {
	b.mu.Lock()
	b.sender = s
	b.mu.Unlock()
}

// post never blocks the caller: Send blocks until the event loop receives,
// and callers may be running inside that loop.
func (b *Bridge) post(msg tea.Msg) bool {
	b.mu.Lock()
	s := b.sender
	b.mu.Unlock()
	if s == nil {
		return false
	}
	go s.Send(msg)
	return true
}

func (b *Bridge) Changed() {
	b.post(changedMsg{})
}

func (b *Bridge) Notify(f app.Feedback) {
	b.post(feedbackMsg{feedback: f})
}

// Confirm shows prompt as a modal and waits for the answer. A cancelled
// context counts as a refusal.
func (b *Bridge) Confirm(ctx context.Context, prompt string) bool {
	reply := make(chan bool, 1)
	if !b.post(confirmMsg{prompt: prompt, reply: reply}) {
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-ctx.Done():
		return false
	}
}
