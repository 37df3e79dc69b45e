package cli

import (
	"fmt"

	"github.com/alexanderramin/projman/internal/cli/formatter"
	"github.com/alexanderramin/projman/internal/domain"
	"github.com/alexanderramin/projman/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectEditCmd(app),
		newProjectDeleteCmd(app),
		newProjectRevertCmd(app),
		newProjectMoveCmd(app, "up"),
		newProjectMoveCmd(app, "down"),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var in service.ProjectFields

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a project",
		Long: `Add a project at the end of its collection. A project added as
Completed goes straight to the completed list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			app.markDirty()
			list, err := listCollection(cmd.Context(), app, p.Collection())
			if err != nil {
				return err
			}
			printSuccess(cmd, "Added project %s [%s] %s",
				formatter.Bold(p.Name),
				formatter.ProjectRef(p.Collection(), len(list)-1),
				formatter.StatusPill(p.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Project name")
	addStatusFlag(cmd.Flags(), &in.Status, domain.StatusNotStarted)
	cmd.Flags().StringVar(&in.StartDate, "start", "", "Start date (free text)")
	cmd.Flags().StringVar(&in.EndDate, "end", "", "End date (free text)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var completed, all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var collections []domain.Collection
			switch {
			case all:
				collections = []domain.Collection{domain.CollectionActive, domain.CollectionCompleted}
			case completed:
				collections = []domain.Collection{domain.CollectionCompleted}
			default:
				collections = []domain.Collection{domain.CollectionActive}
			}
			for _, c := range collections {
				projects, err := listCollection(ctx, app, c)
				if err != nil {
					return err
				}
				printLine(cmd, formatter.FormatProjectList(c, projects))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&completed, "completed", false, "List completed projects")
	cmd.Flags().BoolVar(&all, "all", false, "List both collections")
	cmd.MarkFlagsMutuallyExclusive("completed", "all")

	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show REF",
		Aliases: []string{"inspect"},
		Short:   "Show a project with its sub-processes and personnel",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := resolveProject(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.Get(cmd.Context(), m.Project.ID)
			if err != nil {
				return err
			}
			printLine(cmd, formatter.FormatProjectDetail(p))
			return nil
		},
	}
}

func newProjectEditCmd(app *App) *cobra.Command {
	var in service.ProjectFields

	cmd := &cobra.Command{
		Use:   "edit REF",
		Short: "Change a project's status or dates",
		Long: `Change status and dates; the name is fixed. Setting the status to
Completed moves the project to the end of the completed list, and moving a
completed project to any other status returns it to the end of the active
list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()
			if !flags.Changed("status") && !flags.Changed("start") && !flags.Changed("end") {
				return fmt.Errorf("nothing to change; pass --status, --start or --end")
			}

			m, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			cur := m.Project
			if !flags.Changed("status") {
				in.Status = cur.Status
			}
			if !flags.Changed("start") {
				in.StartDate = cur.StartDate
			}
			if !flags.Changed("end") {
				in.EndDate = cur.EndDate
			}

			p, err := app.Projects.Edit(ctx, cur.ID, in)
			if err != nil {
				return err
			}
			app.markDirty()

			msg := fmt.Sprintf("Updated %s %s", formatter.Bold(p.Name), formatter.StatusPill(p.Status))
			if p.Collection() != m.Collection {
				msg += formatter.Dim(fmt.Sprintf(" (moved to %s)", p.Collection()))
			}
			printSuccess(cmd, "%s", msg)
			return nil
		},
	}

	addStatusFlag(cmd.Flags(), &in.Status, "")
	cmd.Flags().StringVar(&in.StartDate, "start", "", "Start date (free text)")
	cmd.Flags().StringVar(&in.EndDate, "end", "", "End date (free text)")

	return cmd
}

func newProjectDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete REF",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete an active project with its sub-processes and personnel",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			ok, err := confirmDestructive(app, yes, fmt.Sprintf("delete project %q", m.Project.Name))
			if err != nil {
				return err
			}
			if !ok {
				printCancelled(cmd)
				return nil
			}
			if err := app.Projects.Delete(ctx, m.Project.ID); err != nil {
				return err
			}
			app.markDirty()
			printSuccess(cmd, "Deleted project %s", formatter.Bold(m.Project.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func newProjectRevertCmd(app *App) *cobra.Command {
	var status domain.Status

	cmd := &cobra.Command{
		Use:   "revert REF",
		Short: "Move a completed project back to the active list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.Revert(ctx, m.Project.ID, status)
			if err != nil {
				return err
			}
			app.markDirty()
			active, err := app.Projects.ListActive(ctx)
			if err != nil {
				return err
			}
			printSuccess(cmd, "Reverted %s to %s [%s]",
				formatter.Bold(p.Name),
				formatter.StatusPill(p.Status),
				formatter.ProjectRef(domain.CollectionActive, len(active)-1))
			return nil
		},
	}

	addStatusFlag(cmd.Flags(), &status, "")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

// newProjectMoveCmd builds "project up" or "project down". Moving past
// either end of the active list does nothing.
func newProjectMoveCmd(app *App, dir string) *cobra.Command {
	return &cobra.Command{
		Use:   dir + " REF",
		Short: fmt.Sprintf("Move an active project %s one place", dir),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if m.Collection != domain.CollectionActive {
				return &domain.ValidationError{
					Field:  "project",
					Reason: fmt.Sprintf("%q is completed; only active projects can be reordered", m.Project.Name),
				}
			}

			move := app.Projects.MoveUp
			if dir == "down" {
				move = app.Projects.MoveDown
			}
			to, err := move(ctx, m.Index)
			if err != nil {
				return err
			}
			if to == m.Index {
				printLine(cmd, formatter.Dim(fmt.Sprintf("%s is already at the %s.", m.Project.Name, edgeName(dir))))
				return nil
			}
			app.markDirty()
			printSuccess(cmd, "Moved %s to position %d", formatter.Bold(m.Project.Name), to+1)
			return nil
		},
	}
}

func edgeName(dir string) string {
	if dir == "up" {
		return "top"
	}
	return "bottom"
}
