package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/projman/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ShellDriver wraps teatest.Driver with access to shellModel internals.
type ShellDriver struct {
	*teatest.Driver
}

// NewShellDriver builds the shell over app, sizes the terminal and drains
// Init, which prints the welcome banner.
func NewShellDriver(t *testing.T, app *App) *ShellDriver {
	t.Helper()
	app.inShell = true
	d := teatest.New(t, newShellModel(app), teatest.WithSize(100, 30))
	d.DrainInit()
	return &ShellDriver{Driver: d}
}

func (d *ShellDriver) shell() shellModel {
	return d.Model.(shellModel)
}

// LastOutput returns the text printed by the most recent command.
func (d *ShellDriver) LastOutput() string {
	return stripANSI(d.shell().lastOutput)
}

// Input returns the current prompt text.
func (d *ShellDriver) Input() string {
	return d.shell().input.Value()
}

func (d *ShellDriver) IsQuitting() bool {
	return d.shell().quitting || d.Quitting
}

func TestShellDriver_WelcomeBanner(t *testing.T) {
	app := testApp(t)
	d := NewShellDriver(t, app)

	require.NotEmpty(t, d.Printed)
	assert.Contains(t, stripANSI(d.Printed[0]), "workbook: "+app.Workbook)
	assert.Contains(t, stripANSI(d.View()), "projman ❯")
}

func TestShellDriver_TypedCommandRuns(t *testing.T) {
	app := testApp(t)
	d := NewShellDriver(t, app)

	d.Submit("person add Alice")
	assert.Contains(t, d.LastOutput(), "Added Alice")
	assert.Contains(t, stripANSI(d.LastPrinted()), "Added Alice")
	assert.Empty(t, d.Input(), "prompt is cleared after Enter")
	assert.Contains(t, stripANSI(d.View()), "projman* ❯")
}

func TestShellDriver_ConfirmFlow(t *testing.T) {
	app := testApp(t)
	d := NewShellDriver(t, app)

	d.Submit("project add --name Apollo")
	d.Submit("project delete Apollo")
	assert.Contains(t, stripANSI(d.View()), "confirm (y/n)")

	d.Submit("y")
	assert.Contains(t, d.LastOutput(), "Deleted project Apollo")
	assert.Empty(t, activeNames(t, app))
}

func TestShellDriver_History(t *testing.T) {
	app := testApp(t)
	app.HistoryFile = filepath.Join(t.TempDir(), "history")
	d := NewShellDriver(t, app)

	d.Submit("person add Alice")
	d.Submit("person list")

	d.PressUp()
	assert.Equal(t, "person list", d.Input())
	d.PressUp()
	assert.Equal(t, "person add Alice", d.Input())
	d.PressUp()
	assert.Equal(t, "person add Alice", d.Input(), "stops at the oldest entry")
	d.PressDown()
	assert.Equal(t, "person list", d.Input())
	d.PressDown()
	assert.Empty(t, d.Input())

	data, err := os.ReadFile(app.HistoryFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"person add Alice", "person list"}, strings.Split(strings.TrimSpace(string(data)), "\n"))

	// A new shell picks the file back up.
	again := NewShellDriver(t, app)
	again.PressUp()
	assert.Equal(t, "person list", again.Input())
}

func TestShellDriver_ExitCommandQuits(t *testing.T) {
	app := testApp(t)
	d := NewShellDriver(t, app)

	d.Submit("person add Alice")
	d.Submit("exit")
	assert.False(t, d.IsQuitting(), "first exit only warns")

	d.Submit("exit")
	assert.True(t, d.IsQuitting())
}

func TestShellDriver_CtrlCQuitsImmediately(t *testing.T) {
	app := testApp(t)
	d := NewShellDriver(t, app)

	d.Submit("person add Alice")
	d.PressCtrlC()
	assert.True(t, d.IsQuitting())
	assert.Contains(t, stripANSI(d.View()), "Unsaved changes were discarded.")
}
