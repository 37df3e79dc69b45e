package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatShellWelcome(t *testing.T) {
	out := stripANSI(FormatShellWelcome("team.csv"))
	assert.Contains(t, out, "projman")
	assert.Contains(t, out, "workbook: team.csv")
	assert.Contains(t, out, "project list")

	fresh := stripANSI(FormatShellWelcome(""))
	assert.NotContains(t, fresh, "workbook:")
}

func TestFormatShellHelp(t *testing.T) {
	out := stripANSI(FormatShellHelp())
	assert.Contains(t, out, "COMMANDS")
	assert.Contains(t, out, "SUB-PROCESSES")
	assert.Contains(t, out, "person rename OLD NEW")
	assert.Contains(t, out, "save [PATH]")
	assert.Contains(t, out, "completed index (c1)")
}

func TestFormatWorkbookChanged(t *testing.T) {
	out := stripANSI(FormatWorkbookChanged("team.csv"))
	assert.Contains(t, out, "team.csv changed on disk.")
	assert.Contains(t, out, "load team.csv")
}
