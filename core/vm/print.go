package vm

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Print renders c as a human-readable section table: one row per section,
// giving its kind, byte size, and content (Code/Data as hex, Type as a
// list of input->output/max-height triples). Intended for the CLI's
// "print" subcommand, not for machine consumption - use MarshalJSON for
// that.
func (c *Container) Print(w io.Writer) {
	fmt.Fprintf(w, "EOF Version %d\n\n", c.Version)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Kind", "Size", "Content"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for i, s := range c.Sections {
		switch s.Kind {
		case kindType:
			table.Append([]string{strconv.Itoa(i), "Type", strconv.Itoa(len(s.Types) * 4), formatTypes(s.Types)})
		case kindCode:
			table.Append([]string{strconv.Itoa(i), "Code", strconv.Itoa(len(s.Code)), hex.EncodeToString(s.Code)})
		case kindData:
			table.Append([]string{strconv.Itoa(i), "Data", strconv.Itoa(len(s.Data)), hex.EncodeToString(s.Data)})
		}
	}
	table.Render()
}

func formatTypes(types []TypeEntry) string {
	out := ""
	for i, t := range types {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%d->%d@%d", t.Inputs, t.Outputs, t.MaxStackHeight)
	}
	return out
}
