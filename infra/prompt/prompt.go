// Package prompt asks yes/no questions on a terminal.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/CrestNiraj12/skillfeed/app"
)

// Terminal implements app.Confirmer with a "[y/N]" question. Anything other
// than y or yes declines, and so does a non-interactive input.
type Terminal struct {
	in          io.Reader
	out         io.Writer
	interactive func() bool
}

// NewTerminal prompts on stderr and reads stdin.
func NewTerminal() *Terminal {
	return &Terminal{
		in:          os.Stdin,
		out:         os.Stderr,
		interactive: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

// New builds a Terminal over arbitrary streams. interactive reports whether
// in is a terminal; nil means it always is.
func New(in io.Reader, out io.Writer, interactive func() bool) *Terminal {
	if interactive == nil {
		interactive = func() bool { return true }
	}
	return &Terminal{in: in, out: out, interactive: interactive}
}

var _ app.Confirmer = (*Terminal)(nil)

func (t *Terminal) Confirm(ctx context.Context, p app.Prompt) (bool, error) {
	if !t.interactive() {
		fmt.Fprintf(t.out, "%s: no terminal, declining\n", p.Title)
		return false, nil
	}

	fmt.Fprintf(t.out, "%s\n%s [y/N] ", p.Title, p.Message)

	answer := make(chan string, 1)
	errc := make(chan error, 1)
	go func() {
		line, err := bufio.NewReader(t.in).ReadString('\n')
		if err != nil && line == "" {
			errc <- err
			return
		}
		answer <- line
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(t.out)
		return false, ctx.Err()
	case err := <-errc:
		fmt.Fprintln(t.out)
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("reading answer: %w", err)
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}
