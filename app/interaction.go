package app

import "context"

// Prompt is a yes/no question shown before a destructive action.
type Prompt struct {
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
}

// Confirmer gates destructive actions behind an explicit yes.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) { return f(ctx, p) }

// NoticeLevel classifies a transient user-facing notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

// Notice is a short message for the status bar.
type Notice struct {
	Level NoticeLevel
	Text  string
}

// Notifier surfaces notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(n Notice)

func (f NotifyFunc) Notify(n Notice) { f(n) }
