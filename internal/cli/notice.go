package cli

import (
	"io"

	"github.com/fatih/color"
)

var editNotice = color.New(color.FgYellow, color.Bold)

// printEditNotice reminds users to review a generated file.
func printEditNotice(w io.Writer, kind, name string) {
	editNotice.Fprintf(w, "\n%s %s auto-generated. EDIT BEFORE RUNNING PIPELINE!\n", kind, name) //nolint:errcheck
}
