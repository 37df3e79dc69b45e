package cli

import (
	"fmt"

	"github.com/alexanderramin/projman/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func printLine(cmd *cobra.Command, s string) {
	fmt.Fprintln(cmd.OutOrStdout(), s)
}

func printSuccess(cmd *cobra.Command, format string, args ...any) {
	printLine(cmd, formatter.StyleGreen.Render("✔ ")+fmt.Sprintf(format, args...))
}

func printCancelled(cmd *cobra.Command) {
	printLine(cmd, formatter.Dim("Cancelled."))
}

// shellError renders err the way the shell shows failed commands.
func shellError(err error) string {
	return formatter.StyleRed.Render(fmt.Sprintf("Error: %v", err))
}
