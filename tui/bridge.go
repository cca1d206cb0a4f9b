package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/skillfeed/app"
)

// Gate is the TUI's app.Confirmer. Confirm runs on a command goroutine and
// blocks until the user answers in the confirmation bar.
type Gate struct {
	requests chan confirmRequest
}

type confirmRequest struct {
	prompt app.Prompt
	answer chan bool
}

// confirmRequestMsg delivers a pending question to the root model.
type confirmRequestMsg confirmRequest

// NewGate creates a Gate. Listen must be running for Confirm to return.
func NewGate() *Gate {
	return &Gate{requests: make(chan confirmRequest)}
}

var _ app.Confirmer = (*Gate)(nil)

func (g *Gate) Confirm(ctx context.Context, p app.Prompt) (bool, error) {
	req := confirmRequest{prompt: p, answer: make(chan bool, 1)}
	select {
	case g.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-req.answer:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Listen waits for the next question. Re-arm it after each answer.
func (g *Gate) Listen() tea.Cmd {
	return func() tea.Msg {
		return confirmRequestMsg(<-g.requests)
	}
}

// noticeMsg carries a reconciler notice into the event loop.
type noticeMsg app.Notice

// Notices is the TUI's app.Notifier. Notify never blocks: it is called from
// Update as well as from command goroutines, and drops notices when the
// status bar is far behind.
type Notices struct {
	ch chan app.Notice
}

// NewNotices creates a Notices queue.
func NewNotices() *Notices {
	return &Notices{ch: make(chan app.Notice, 32)}
}

var _ app.Notifier = (*Notices)(nil)

func (n *Notices) Notify(x app.Notice) {
	select {
	case n.ch <- x:
	default:
	}
}

// Listen waits for the next notice. Re-arm it after each one.
func (n *Notices) Listen() tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(<-n.ch)
	}
}
