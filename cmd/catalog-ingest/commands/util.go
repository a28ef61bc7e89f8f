package commands

import (
	"errors"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

var errMissingCredentials = errors.New("marketing site credentials are not configured")

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
