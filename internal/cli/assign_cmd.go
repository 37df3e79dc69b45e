package cli

import (
	"fmt"

	"github.com/alexanderramin/projman/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newAssignCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Manage who works on a project or sub-process",
		Long: `Each project and each sub-process has its own ordered list of
(person, role) assignments. Without --sub the project's list is used.
Only people in the personnel set can be assigned.`,
	}

	cmd.AddCommand(
		newAssignAddCmd(app),
		newAssignListCmd(app),
		newAssignEditCmd(app),
		newAssignRemoveCmd(app),
	)

	return cmd
}

func newAssignAddCmd(app *App) *cobra.Command {
	var sub, person, role string

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Assign a person with a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, label, err := resolveOwner(ctx, app, args[0], sub)
			if err != nil {
				return err
			}
			a, err := app.Assignments.Add(ctx, owner, person, role)
			if err != nil {
				return err
			}
			app.markDirty()
			printSuccess(cmd, "Assigned %s to %s%s", formatter.Bold(a.Person), label, roleSuffix(a.Role))
			return nil
		},
	}

	cmd.Flags().StringVar(&sub, "sub", "", "Sub-process index or name")
	cmd.Flags().StringVar(&person, "person", "", "Person from the personnel set")
	cmd.Flags().StringVar(&role, "role", "", "Role (free text)")
	_ = cmd.MarkFlagRequired("person")

	return cmd
}

func newAssignListCmd(app *App) *cobra.Command {
	var sub string

	cmd := &cobra.Command{
		Use:     "list PROJECT",
		Aliases: []string{"ls"},
		Short:   "Show an assignment list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, label, err := resolveOwner(ctx, app, args[0], sub)
			if err != nil {
				return err
			}
			list, err := app.Assignments.List(ctx, owner)
			if err != nil {
				return err
			}
			printLine(cmd, formatter.FormatAssignments(label+" personnel", list))
			return nil
		},
	}

	cmd.Flags().StringVar(&sub, "sub", "", "Sub-process index or name")

	return cmd
}

func newAssignEditCmd(app *App) *cobra.Command {
	var sub, person, role string

	cmd := &cobra.Command{
		Use:   "edit PROJECT INDEX",
		Short: "Change the person or role of one assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()
			if !flags.Changed("person") && !flags.Changed("role") {
				return fmt.Errorf("nothing to change; pass --person or --role")
			}
			index, err := parseListIndex("assignment index", args[1])
			if err != nil {
				return err
			}
			owner, label, err := resolveOwner(ctx, app, args[0], sub)
			if err != nil {
				return err
			}
			list, err := app.Assignments.List(ctx, owner)
			if err != nil {
				return err
			}
			if index < len(list) {
				if !flags.Changed("person") {
					person = list[index].Person
				}
				if !flags.Changed("role") {
					role = list[index].Role
				}
			}

			a, err := app.Assignments.Edit(ctx, owner, index, person, role)
			if err != nil {
				return err
			}
			app.markDirty()
			printSuccess(cmd, "Updated %s #%d: %s%s", label, index+1, formatter.Bold(a.Person), roleSuffix(a.Role))
			return nil
		},
	}

	cmd.Flags().StringVar(&sub, "sub", "", "Sub-process index or name")
	cmd.Flags().StringVar(&person, "person", "", "Person from the personnel set")
	cmd.Flags().StringVar(&role, "role", "", "Role (free text)")

	return cmd
}

func newAssignRemoveCmd(app *App) *cobra.Command {
	var sub string

	cmd := &cobra.Command{
		Use:     "remove PROJECT INDEX",
		Aliases: []string{"rm"},
		Short:   "Remove one assignment; the person stays in the personnel set",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			index, err := parseListIndex("assignment index", args[1])
			if err != nil {
				return err
			}
			owner, label, err := resolveOwner(ctx, app, args[0], sub)
			if err != nil {
				return err
			}
			if err := app.Assignments.Remove(ctx, owner, index); err != nil {
				return err
			}
			app.markDirty()
			printSuccess(cmd, "Removed %s #%d", label, index+1)
			return nil
		},
	}

	cmd.Flags().StringVar(&sub, "sub", "", "Sub-process index or name")

	return cmd
}

func roleSuffix(role string) string {
	if role == "" {
		return ""
	}
	return formatter.Dim(" as " + role)
}
