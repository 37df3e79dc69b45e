package cli

import (
	"fmt"

	"github.com/alexanderramin/projman/internal/cli/formatter"
	"github.com/alexanderramin/projman/internal/domain"
	"github.com/alexanderramin/projman/internal/service"
	"github.com/spf13/cobra"
)

func newSubCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sub",
		Aliases: []string{"subprocess"},
		Short:   "Manage a project's sub-processes",
	}

	cmd.AddCommand(
		newSubAddCmd(app),
		newSubListCmd(app),
		newSubEditCmd(app),
		newSubRemoveCmd(app),
	)

	return cmd
}

func newSubAddCmd(app *App) *cobra.Command {
	var in service.SubProcessFields

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a sub-process to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			sp, err := app.Subs.Add(ctx, m.Project.ID, in)
			if err != nil {
				return err
			}
			app.markDirty()
			subs, err := app.Subs.List(ctx, m.Project.ID)
			if err != nil {
				return err
			}
			printSuccess(cmd, "Added sub-process %s to %s [%d]",
				formatter.Bold(sp.Name), formatter.Bold(m.Project.Name), len(subs))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Sub-process name")
	addStatusFlag(cmd.Flags(), &in.Status, domain.StatusNotStarted)
	cmd.Flags().StringVar(&in.StartDate, "start", "", "Start date (free text)")
	cmd.Flags().StringVar(&in.EndDate, "end", "", "End date (free text)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newSubListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list PROJECT",
		Aliases: []string{"ls"},
		Short:   "List a project's sub-processes and their personnel",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			subs, err := app.Subs.List(ctx, m.Project.ID)
			if err != nil {
				return err
			}
			p := *m.Project
			p.SubProcesses = subs
			printLine(cmd, formatter.FormatSubProcessList(&p))
			return nil
		},
	}
}

func newSubEditCmd(app *App) *cobra.Command {
	var in service.SubProcessFields

	cmd := &cobra.Command{
		Use:   "edit PROJECT SUB",
		Short: "Rename a sub-process or change its status and dates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("status") && !flags.Changed("start") && !flags.Changed("end") {
				return fmt.Errorf("nothing to change; pass --name, --status, --start or --end")
			}

			m, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			cur, err := resolveSubProcess(ctx, app, m.Project.ID, args[1])
			if err != nil {
				return err
			}
			if !flags.Changed("name") {
				in.Name = cur.Name
			}
			if !flags.Changed("status") {
				in.Status = cur.Status
			}
			if !flags.Changed("start") {
				in.StartDate = cur.StartDate
			}
			if !flags.Changed("end") {
				in.EndDate = cur.EndDate
			}

			sp, err := app.Subs.Edit(ctx, cur.ID, in)
			if err != nil {
				return err
			}
			app.markDirty()
			printSuccess(cmd, "Updated sub-process %s %s", formatter.Bold(sp.Name), formatter.StatusPill(sp.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "New sub-process name")
	addStatusFlag(cmd.Flags(), &in.Status, "")
	cmd.Flags().StringVar(&in.StartDate, "start", "", "Start date (free text)")
	cmd.Flags().StringVar(&in.EndDate, "end", "", "End date (free text)")

	return cmd
}

func newSubRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove PROJECT SUB",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a sub-process and its personnel list",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			sp, err := resolveSubProcess(ctx, app, m.Project.ID, args[1])
			if err != nil {
				return err
			}
			ok, err := confirmDestructive(app, yes, fmt.Sprintf("remove sub-process %q from %q", sp.Name, m.Project.Name))
			if err != nil {
				return err
			}
			if !ok {
				printCancelled(cmd)
				return nil
			}
			if err := app.Subs.Remove(ctx, sp.ID); err != nil {
				return err
			}
			app.markDirty()
			printSuccess(cmd, "Removed sub-process %s", formatter.Bold(sp.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
