package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rm-hull/inteliver/internal/command"
)

// ListOperations prints the usage and description of every operation.
func ListOperations(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range command.Names() {
		sig := command.Catalogue[name]
		if _, err := fmt.Fprintf(tw, "i_o_%s\t%s\n", sig.Usage(), sig.Description); err != nil {
			return err
		}
	}
	return tw.Flush()
}
