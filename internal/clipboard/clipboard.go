package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrEmpty is returned for blank text.
var ErrEmpty = errors.New("nothing to copy")

// Copier writes to the system clipboard, falling back to an OSC52 escape
// sequence on the terminal when no clipboard tool is available (ssh
// sessions, containers, bare ttys).
type Copier struct {
	system func(string) error
	term   io.Writer
	getenv func(string) string
}

// New returns a Copier that falls back to writing OSC52 to term. A nil term
// means os.Stderr.
func New(term io.Writer) *Copier {
	if term == nil {
		term = os.Stderr
	}
	c := &Copier{term: term, getenv: os.Getenv}
	if !clipboard.Unsupported {
		c.system = clipboard.WriteAll
	}
	return c
}

// Copy puts text on the clipboard. fallback reports whether the terminal
// path was used.
func (c *Copier) Copy(text string) (fallback bool, err error) {
	if strings.TrimSpace(text) == "" {
		return false, ErrEmpty
	}
	sysErr := errors.New("clipboard unsupported")
	if c.system != nil {
		if sysErr = c.system(text); sysErr == nil {
			return false, nil
		}
	}
	if _, err := c.sequence(text).WriteTo(c.term); err != nil {
		return true, fmt.Errorf("copy to clipboard: %v; terminal fallback: %w", sysErr, err)
	}
	return true, nil
}

func (c *Copier) sequence(text string) osc52.Sequence {
	seq := osc52.New(text)
	if c.getenv("TMUX") != "" {
		return seq.Tmux()
	}
	if strings.HasPrefix(c.getenv("TERM"), "screen") {
		return seq.Screen()
	}
	return seq
}
