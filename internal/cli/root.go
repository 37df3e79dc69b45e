package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/projman/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands,
// plus the session state shared between one-shot runs and the shell.
type App struct {
	Projects    service.ProjectService
	Subs        service.SubProcessService
	People      service.PersonnelService
	Assignments service.AssignmentService
	Exchange    service.ExchangeService

	// Workbook is the CSV file the session is loaded from and saved to.
	Workbook string
	// Autosave writes the workbook after a one-shot command changes it.
	Autosave bool
	// Verbose enables use-case logging; see GatedObserver.
	Verbose bool
	// HistoryFile persists shell history. Empty disables it.
	HistoryFile string

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh prompt.
	Confirm func(question string) (bool, error)

	loaded  bool
	dirty   bool
	inShell bool
	synced  fileStamp
}

// fileStamp identifies one version of the workbook on disk.
type fileStamp struct {
	modTime time.Time
	size    int64
}

func stampOf(path string) fileStamp {
	fi, err := os.Stat(path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{modTime: fi.ModTime(), size: fi.Size()}
}

func (s fileStamp) equal(o fileStamp) bool {
	return s.size == o.size && s.modTime.Equal(o.modTime)
}

// Dirty reports whether the session has changes that were not saved.
func (a *App) Dirty() bool { return a.dirty }

func (a *App) markDirty() { a.dirty = true }

// willAutosave reports whether a mutating one-shot command is followed by
// a save of the workbook.
func (a *App) willAutosave() bool { return a.Autosave && !a.inShell }

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// LoadWorkbook replaces the session with the contents of path and makes it
// the current workbook.
func (a *App) LoadWorkbook(ctx context.Context, path string) (*service.ImportResult, error) {
	res, err := a.Exchange.ImportFile(ctx, path)
	if err != nil {
		return nil, err
	}
	a.Workbook = path
	a.loaded = true
	a.dirty = false
	a.synced = stampOf(path)
	return res, nil
}

// SaveWorkbook writes the session to path, or to the current workbook when
// path is empty, and makes the written file current.
func (a *App) SaveWorkbook(ctx context.Context, path string) (string, error) {
	if path == "" {
		path = a.Workbook
	}
	if path == "" {
		return "", errors.New("no workbook file; pass a path")
	}
	written, err := a.Exchange.ExportFile(ctx, path)
	if err != nil {
		return "", err
	}
	a.Workbook = written
	a.dirty = false
	a.synced = stampOf(written)
	return written, nil
}

// WorkbookChanged reports whether the current workbook on disk differs from
// the version last loaded or saved. A change is reported once.
func (a *App) WorkbookChanged() bool {
	if a.Workbook == "" {
		return false
	}
	cur := stampOf(a.Workbook)
	if cur.equal(a.synced) {
		return false
	}
	a.synced = cur
	return true
}

// ensureLoaded loads the current workbook once per process. A workbook
// that does not exist yet starts an empty session.
func (a *App) ensureLoaded(ctx context.Context) error {
	if a.loaded {
		return nil
	}
	a.loaded = true
	if a.Workbook == "" {
		return nil
	}
	if _, err := os.Stat(a.Workbook); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if _, err := a.LoadWorkbook(ctx, a.Workbook); err != nil {
		return err
	}
	return nil
}

// NewRootCmd creates the top-level "projman" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "projman",
		Short: "Track projects, sub-processes and personnel in a CSV workbook",
		Long: `projman keeps active and completed projects, their sub-processes and
the people assigned to them in a single CSV workbook.

Run without arguments in a terminal to start the interactive shell.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.ensureLoaded(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !app.willAutosave() || !app.dirty {
				return nil
			}
			if _, err := app.SaveWorkbook(cmd.Context(), ""); err != nil {
				return fmt.Errorf("saving workbook: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() && !app.inShell {
				return runShell(app)
			}
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&app.Workbook, "file", "f", app.Workbook, "Workbook CSV file")
	root.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", app.Verbose, "Log every use case to stderr")

	root.AddCommand(
		newProjectCmd(app),
		newSubCmd(app),
		newPersonCmd(app),
		newAssignCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newShellCmd(app),
	)

	return root
}
