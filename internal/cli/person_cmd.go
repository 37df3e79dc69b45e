package cli

import (
	"fmt"

	"github.com/alexanderramin/projman/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPersonCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "person",
		Aliases: []string{"people", "personnel"},
		Short:   "Manage the personnel set",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME",
			Short: "Register a person",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name, err := app.People.Add(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				app.markDirty()
				printSuccess(cmd, "Added %s", formatter.Bold(name))
				return nil
			},
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List everyone in the personnel set",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				names, err := app.People.List(cmd.Context())
				if err != nil {
					return err
				}
				printLine(cmd, formatter.FormatPeople(names))
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename OLD NEW",
			Short: "Rename a person everywhere they are assigned",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := app.People.Rename(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if res.Person != res.NewName {
					app.markDirty()
				}
				printLine(cmd, formatter.FormatRename(res))
				return nil
			},
		},
		newPersonRemoveCmd(app),
	)

	return cmd
}

func newPersonRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a person and every assignment naming them",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmDestructive(app, yes,
				fmt.Sprintf("remove %q and all of their assignments", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				printCancelled(cmd)
				return nil
			}
			res, err := app.People.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			app.markDirty()
			printLine(cmd, formatter.FormatRemoval(res))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
