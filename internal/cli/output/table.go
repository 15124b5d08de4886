package output

import (
	"io"
	"strings"
	"text/tabwriter"
)

// Tabular is implemented by results that can be shown as a table.
type Tabular interface {
	Headers() []string
	Rows() [][]string
}

// TableFormatter formats Tabular data as aligned columns. Other data falls
// back to JSON.
type TableFormatter struct {
	NoHeaders bool
}

// Format formats data as a table.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	t, ok := data.(Tabular)
	if !ok {
		return (&JSONFormatter{}).Format(w, data)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !f.NoHeaders {
		if _, err := io.WriteString(tw, strings.Join(t.Headers(), "\t")+"\n"); err != nil {
			return err
		}
	}
	for _, row := range t.Rows() {
		if _, err := io.WriteString(tw, strings.Join(row, "\t")+"\n"); err != nil {
			return err
		}
	}
	return tw.Flush()
}
