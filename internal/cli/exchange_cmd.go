package cli

import (
	"fmt"

	"github.com/alexanderramin/projman/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export PATH",
		Short: "Write the session to a workbook file",
		Long: `Write every person and project to PATH as a tagged-row CSV workbook.
".csv" is appended when PATH has no extension. The current workbook file
is left as it is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := app.Exchange.ExportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSuccess(cmd, "Exported to %s", formatter.Bold(written))
			return nil
		},
	}
}

func newImportCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import PATH",
		Short: "Replace the session with a workbook file",
		Long: `Replace every person and project with the contents of PATH. A
malformed file is rejected as a whole and the session is left unchanged.

Run outside the shell with autosave on, the imported contents are then
saved over the current workbook file (see --file). A .bak copy of the old
file is kept when backups are enabled. Use --yes to confirm replacing a
non-empty workbook.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			wb, err := app.Exchange.Snapshot(ctx)
			if err != nil {
				return err
			}
			if !wb.IsEmpty() {
				ok, err := confirmDestructive(app, yes, fmt.Sprintf("replace the current session with %s", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					printCancelled(cmd)
					return nil
				}
			}

			res, err := app.Exchange.ImportFile(ctx, args[0])
			if err != nil {
				return err
			}
			app.markDirty()
			printLine(cmd, formatter.FormatImportSummary(args[0], res))
			if app.willAutosave() && app.Workbook != "" {
				printLine(cmd, formatter.Dim(fmt.Sprintf("Saving over %s.", app.Workbook)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
