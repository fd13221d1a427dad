package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithColor forces colour on or off instead of detecting a terminal.
func WithColor(enabled bool) ConsoleOption {
	return func(c *Console) {
		c.forced = &enabled
	}
}

// Console prints notifications as single lines, coloured by level when the
// writer is a terminal.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	forced *bool
	styles map[Level]*color.Color
}

// NewConsole writes to out, or stderr when out is nil.
func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	if out == nil {
		out = os.Stderr
	}
	c := &Console{
		out: out,
		styles: map[Level]*color.Color{
			Success: color.New(color.FgGreen),
			Info:    color.New(color.FgCyan),
			Warning: color.New(color.FgYellow),
			Error:   color.New(color.FgRed, color.Bold),
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	enabled := isTerminal(out)
	if c.forced != nil {
		enabled = *c.forced
	}
	for _, style := range c.styles {
		if enabled {
			style.EnableColor()
		} else {
			style.DisableColor()
		}
	}
	return c
}

// Handle prints n. It satisfies Handler once bound: bus.Subscribe(c.Handle).
func (c *Console) Handle(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	style, ok := c.styles[n.Level]
	if !ok {
		fmt.Fprintf(c.out, "[%s] %s\n", n.Level, n.Text)
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", style.Sprintf("[%s]", n.Level), n.Text)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
