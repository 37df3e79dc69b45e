package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/projman/internal/cli/formatter"
	"github.com/alexanderramin/projman/internal/watch"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// shellMode tracks which interaction mode the shell is in.
type shellMode int

const (
	modePrompt  shellMode = iota // Normal command input.
	modeConfirm                  // Awaiting y/n for a destructive command.
)

// pendingConfirmation is a destructive action waiting for y/n.
type pendingConfirmation struct {
	description string
	run         func(m *shellModel) string
}

// shellModel is the bubbletea Model for the interactive shell REPL. Every
// command runs against the same App, so the session lives as long as the
// shell does.
type shellModel struct {
	input textinput.Model
	width int

	app *App

	mode           shellMode
	pendingConfirm *pendingConfirmation

	history     []string
	historyIdx  int
	historyPath string

	// lastOutput is the text printed by the most recent command.
	lastOutput string

	// watcher, when set, reports writes to the workbook by other programs.
	// watchWorkbook enables it; followWorkbook keeps it on app.Workbook.
	watcher       *watch.FileWatcher
	watchWorkbook bool

	warnedUnsaved bool
	quitting      bool
}

// workbookChangedMsg is sent when the watched workbook was written.
type workbookChangedMsg struct{}

func waitForWorkbookChange(w *watch.FileWatcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return workbookChangedMsg{}
	}
}

// followWorkbook points the watcher at the current workbook, starting one
// if none runs yet. save PATH and load PATH both switch files. A new
// watcher comes with the Cmd that waits on it.
func (m *shellModel) followWorkbook() tea.Cmd {
	if !m.watchWorkbook || m.app.Workbook == "" {
		return nil
	}
	if m.watcher != nil {
		// Best effort: a failed retarget keeps watching the old file.
		_ = m.watcher.Retarget(m.app.Workbook)
		return nil
	}
	w, err := watch.New(m.app.Workbook)
	if err != nil {
		return nil
	}
	m.watcher = w
	return waitForWorkbookChange(w)
}

func newShellModel(app *App) shellModel {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.ShowSuggestions = true
	ti.CharLimit = 500
	// Tab accepts a suggestion; Up/Down stay on history.
	ti.KeyMap.NextSuggestion = key.NewBinding(key.WithKeys("ctrl+n"))
	ti.KeyMap.PrevSuggestion = key.NewBinding(key.WithKeys("ctrl+p"))

	var hist []string
	if app.HistoryFile != "" {
		hist = loadHistoryFromPath(app.HistoryFile)
	}

	return shellModel{
		input:       ti,
		app:         app,
		history:     hist,
		historyIdx:  len(hist),
		historyPath: app.HistoryFile,
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m shellModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		tea.Println(formatter.FormatShellWelcome(m.app.Workbook)),
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForWorkbookChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(m.promptPrefix()) - 1
		return m, nil

	case workbookChangedMsg:
		var cmds []tea.Cmd
		if m.watcher != nil {
			cmds = append(cmds, waitForWorkbookChange(m.watcher))
		}
		if m.app.WorkbookChanged() {
			cmds = append(cmds, tea.Println(formatter.FormatWorkbookChanged(m.app.Workbook)))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.mode == modeConfirm {
			return m.updateConfirm(msg)
		}
		return m.updatePrompt(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m shellModel) View() string {
	if m.quitting {
		if m.app.Dirty() {
			return formatter.Dim("Goodbye. Unsaved changes were discarded.") + "\n"
		}
		return formatter.Dim("Goodbye.") + "\n"
	}
	return m.promptPrefix() + m.input.View()
}

// ── prompt prefix ────────────────────────────────────────────────────────────

func (m *shellModel) promptPrefix() string {
	if m.mode == modeConfirm {
		return formatter.StyleYellow.Render("confirm (y/n)") + " " + formatter.Dim("❯") + " "
	}
	name := formatter.StylePurple.Render("projman")
	if m.app.Dirty() {
		name += formatter.StyleYellow.Render("*")
	}
	return name + " " + formatter.Dim("❯") + " "
}

// ── prompt mode ──────────────────────────────────────────────────────────────

func (m shellModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		input := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		m.input.SetSuggestions(nil)
		if input == "" {
			return m, nil
		}
		m.addHistory(input)
		output, cmd := m.executeCommand(input)
		m.lastOutput = output
		var cmds []tea.Cmd
		if output != "" {
			cmds = append(cmds, tea.Println(output))
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if w := m.followWorkbook(); w != nil {
			cmds = append(cmds, w)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyUp:
		m.historyUp()
		return m, nil

	case tea.KeyDown:
		m.historyDown()
		return m, nil

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.updateSuggestions()
		return m, cmd
	}
}

// ── confirm mode ─────────────────────────────────────────────────────────────

func (m shellModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		input := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		pending := m.pendingConfirm
		m.pendingConfirm = nil
		m.mode = modePrompt

		output := formatter.Dim("Cancelled.")
		if msg.Type == tea.KeyEnter && pending != nil {
			switch strings.ToLower(input) {
			case "y", "yes":
				output = pending.run(&m)
			}
		}
		m.lastOutput = output
		follow := m.followWorkbook()
		return m, tea.Batch(tea.Println(output), follow)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *shellModel) askConfirm(description string, run func(m *shellModel) string) string {
	m.mode = modeConfirm
	m.pendingConfirm = &pendingConfirmation{description: description, run: run}
	return fmt.Sprintf("%s %s\n%s",
		formatter.StyleYellow.Render("Confirm:"),
		description+"?",
		formatter.Dim("Enter y to confirm, anything else to cancel."))
}

// ── history ──────────────────────────────────────────────────────────────────

func (m *shellModel) addHistory(line string) {
	if line == "" {
		return
	}
	m.history = append(m.history, line)
	m.historyIdx = len(m.history)
	if m.historyPath != "" {
		appendHistoryToPath(m.historyPath, line)
	}
}

func (m *shellModel) historyUp() {
	if m.historyIdx > 0 {
		m.historyIdx--
		m.input.SetValue(m.history[m.historyIdx])
		m.input.CursorEnd()
	}
}

func (m *shellModel) historyDown() {
	if m.historyIdx < len(m.history)-1 {
		m.historyIdx++
		m.input.SetValue(m.history[m.historyIdx])
		m.input.CursorEnd()
	} else {
		m.historyIdx = len(m.history)
		m.input.SetValue("")
	}
}

// ── suggestions ──────────────────────────────────────────────────────────────

func (m *shellModel) updateSuggestions() {
	text := m.input.Value()
	parts := strings.Fields(text)
	if len(parts) == 0 {
		m.input.SetSuggestions(nil)
		return
	}
	trailingSpace := strings.HasSuffix(text, " ")

	if len(parts) == 1 && !trailingSpace {
		m.input.SetSuggestions(filterSuggestions(allCommandNames(), parts[0]))
		return
	}

	if len(parts) <= 2 && (!trailingSpace || len(parts) == 1) {
		prefix := ""
		if len(parts) == 2 {
			prefix = parts[1]
		}
		if subs, ok := subcommandNames()[strings.ToLower(parts[0])]; ok {
			group := parts[0] + " "
			var full []string
			for _, s := range filterSuggestions(subs, prefix) {
				full = append(full, group+s)
			}
			m.input.SetSuggestions(full)
			return
		}
	}

	m.input.SetSuggestions(nil)
}

// allCommandNames returns all top-level shell command names.
func allCommandNames() []string {
	return []string{
		"project", "sub", "person", "assign",
		"save", "load", "export", "import",
		"clear", "help", "exit", "quit",
	}
}

// subcommandNames returns subcommand lists by parent command.
func subcommandNames() map[string][]string {
	return map[string][]string{
		"project": {"add", "list", "show", "edit", "delete", "revert", "up", "down"},
		"sub":     {"add", "list", "edit", "remove"},
		"person":  {"add", "list", "rename", "remove"},
		"assign":  {"add", "list", "edit", "remove"},
	}
}

// filterSuggestions returns items from pool that start with prefix (case-insensitive).
func filterSuggestions(pool []string, prefix string) []string {
	if prefix == "" {
		return pool
	}
	lp := strings.ToLower(prefix)
	var result []string
	for _, s := range pool {
		if strings.HasPrefix(strings.ToLower(s), lp) {
			result = append(result, s)
		}
	}
	return result
}

// ── command dispatch ─────────────────────────────────────────────────────────

func (m *shellModel) executeCommand(input string) (string, tea.Cmd) {
	parts, err := splitShellArgs(input)
	if err != nil {
		return shellError(err), nil
	}
	if len(parts) == 0 {
		return "", nil
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	if cmd != "exit" && cmd != "quit" {
		m.warnedUnsaved = false
	}

	switch cmd {
	case "help":
		if len(args) > 0 {
			return m.execCobraCapture(append([]string{"help"}, args...)), nil
		}
		return formatter.FormatShellHelp(), nil
	case "clear":
		return "\033[H\033[2J", nil
	case "exit", "quit":
		if m.app.Dirty() && !m.warnedUnsaved {
			m.warnedUnsaved = true
			return formatter.FormatUnsavedWarning(), nil
		}
		m.quitting = true
		return "", tea.Quit
	case "shell":
		return formatter.StyleYellow.Render("Already in shell mode."), nil
	case "save":
		return m.execSave(args), nil
	case "load":
		return m.execLoad(args), nil
	default:
		return m.execMaybeDestructive(parts), nil
	}
}

// ── workbook commands ────────────────────────────────────────────────────────

func (m *shellModel) execSave(args []string) string {
	if len(args) > 1 {
		return shellError(fmt.Errorf("usage: save [PATH]"))
	}
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	written, err := m.app.SaveWorkbook(context.Background(), path)
	if err != nil {
		return shellError(err)
	}
	return formatter.StyleGreen.Render("✔ ") + "Saved " + formatter.Bold(written)
}

func (m *shellModel) execLoad(args []string) string {
	if len(args) != 1 {
		return shellError(fmt.Errorf("usage: load PATH"))
	}
	path := args[0]
	load := func(m *shellModel) string {
		res, err := m.app.LoadWorkbook(context.Background(), path)
		if err != nil {
			return shellError(err)
		}
		return formatter.FormatImportSummary(path, res)
	}
	if m.app.Dirty() {
		return m.askConfirm("discard unsaved changes and load "+path, load)
	}
	return load(m)
}

// ── cobra pass-through ───────────────────────────────────────────────────────

// execCobraCapture runs a command through the Cobra tree and captures output.
func (m *shellModel) execCobraCapture(args []string) string {
	var buf strings.Builder
	root := NewRootCmd(m.app)
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	root.SilenceUsage = true
	root.SilenceErrors = true
	if err := root.Execute(); err != nil {
		buf.WriteString(shellError(err))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// ── destructive commands ─────────────────────────────────────────────────────

// destructiveCommands lists, per group, the subcommands and aliases that
// discard data.
var destructiveCommands = map[string]map[string]bool{
	"project":    {"delete": true, "rm": true, "remove": true},
	"projects":   {"delete": true, "rm": true, "remove": true},
	"sub":        {"remove": true, "rm": true, "delete": true},
	"subprocess": {"remove": true, "rm": true, "delete": true},
	"person":     {"remove": true, "rm": true, "delete": true},
	"people":     {"remove": true, "rm": true, "delete": true},
	"personnel":  {"remove": true, "rm": true, "delete": true},
}

func hasYesFlag(parts []string) bool {
	for _, a := range parts {
		if a == "--yes" || a == "-y" {
			return true
		}
	}
	return false
}

func (m *shellModel) execMaybeDestructive(parts []string) string {
	if hasYesFlag(parts) || !m.isDestructive(parts) {
		return m.execCobraCapture(parts)
	}

	desc := strings.Join(parts, " ")
	confirmed := append(append([]string{}, parts...), "--yes")
	return m.askConfirm(desc, func(m *shellModel) string {
		return m.execCobraCapture(confirmed)
	})
}

func (m *shellModel) isDestructive(parts []string) bool {
	group := strings.ToLower(parts[0])
	if group == "import" {
		wb, err := m.app.Exchange.Snapshot(context.Background())
		return err == nil && !wb.IsEmpty()
	}
	if len(parts) < 2 {
		return false
	}
	subs, ok := destructiveCommands[group]
	return ok && subs[strings.ToLower(parts[1])]
}
