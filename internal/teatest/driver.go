// Package teatest drives bubbletea models in tests without a tea.Program.
//
// Update is called directly and every returned Cmd is run to completion on
// the test goroutine, so assertions see the model exactly as a user would
// after each key press. Output sent with tea.Println is captured in
// Printed, standing in for the scrollback a real program would write.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDepth bounds how many chained Cmds one message may trigger.
const maxDepth = 100

// cmdTimeout separates immediate Cmds from ones that block on a timer or
// channel (cursor blink, file watchers). Blocking Cmds are dropped.
const cmdTimeout = 10 * time.Millisecond

// Driver feeds messages to a tea.Model and drains the resulting Cmds.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg has been produced. Later input is
	// ignored, as it would be after a real program exits.
	Quitting bool

	// Printed holds every tea.Println body in order.
	Printed []string
}

// Option configures a Driver before Init runs.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg first.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs the model's Init command.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.run(d.Model.Init(), 0)
}

// Send delivers msg and drains whatever it triggers.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.run(cmd, 0)
}

// Key sends a special key such as tea.KeyEnter or tea.KeyUp.
func (d *Driver) Key(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Submit types line and presses Enter.
func (d *Driver) Submit(line string) {
	d.T.Helper()
	d.Type(line)
	d.Key(tea.KeyEnter)
}

func (d *Driver) PressUp()    { d.Key(tea.KeyUp) }
func (d *Driver) PressDown()  { d.Key(tea.KeyDown) }
func (d *Driver) PressEsc()   { d.Key(tea.KeyEsc) }
func (d *Driver) PressCtrlC() { d.Key(tea.KeyCtrlC) }

func (d *Driver) View() string {
	return d.Model.View()
}

// LastPrinted returns the most recent tea.Println body, or "".
func (d *Driver) LastPrinted() string {
	if len(d.Printed) == 0 {
		return ""
	}
	return d.Printed[len(d.Printed)-1]
}

func (d *Driver) run(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDepth {
		d.T.Logf("teatest: stopped draining after %d chained commands", maxDepth)
		return
	}

	msg := runWithTimeout(cmd)
	if msg == nil || isBlink(msg) {
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			d.run(c, depth+1)
		}
		return
	}
	if body, ok := printed(msg); ok {
		d.Printed = append(d.Printed, body)
		return
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		d.Quitting = true
		d.Model, _ = d.Model.Update(msg)
		return
	}

	var next tea.Cmd
	d.Model, next = d.Model.Update(msg)
	d.run(next, depth+1)
}

func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// The message types below are unexported by bubbletea and bubbles, so they
// are matched by type name.

func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}

// printed extracts the body of a tea.Println message, which formats with
// %v as "{body}".
func printed(msg tea.Msg) (string, bool) {
	if !strings.HasSuffix(fmt.Sprintf("%T", msg), "printLineMessage") {
		return "", false
	}
	s := fmt.Sprintf("%v", msg)
	return strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}"), true
}
