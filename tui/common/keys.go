package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit          key.Binding
	ForceQuit     key.Binding
	Refresh       key.Binding
	Up            key.Binding
	Down          key.Binding
	Open          key.Binding // enter: detail pane
	Back          key.Binding
	NextTab       key.Binding
	PrevTab       key.Binding
	Like          key.Binding // l
	Comment       key.Binding // c: inline composer
	CommentEditor key.Binding // C: $EDITOR
	EditComment   key.Binding // e: own comment, detail pane
	DeleteComment key.Binding // x: detail pane
	Delete        key.Binding // d: own item
	NewItem       key.Binding // a: form for the active kind
	EditItem      key.Binding // E: own item
	EditProfile   key.Binding // p: signed-in user's profile
	Follow        key.Binding // f: author of the selected item
	OpenMedia     key.Binding // o: post attachments in the browser
	Yes           key.Binding
	No            key.Binding
	ToggleHints   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "like"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		CommentEditor: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "comment ($EDITOR)"),
		),
		EditComment: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit comment"),
		),
		DeleteComment: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete comment"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		NewItem: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		EditItem: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "edit"),
		),
		EditProfile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "edit profile"),
		),
		Follow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "follow"),
		),
		OpenMedia: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open media"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "cancel"),
		),
		ToggleHints: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "all keys"),
		),
	}
}
