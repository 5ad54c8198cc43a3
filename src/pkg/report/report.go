package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Writer renders the human-readable diagnostic report. Everything the
// operator is meant to read goes through here; logrus output is about the
// tool itself and stays on stderr.
type Writer struct {
	out io.Writer
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Section prints a banner separating one report step from the next.
func (w *Writer) Section(title string) {
	fmt.Fprintf(w.out, "\n===== %s =====\n", title)
}

func (w *Writer) Info(format string, args ...interface{}) {
	fmt.Fprintf(w.out, "[INFO] "+format+"\n", args...)
}

func (w *Writer) OK(format string, args ...interface{}) {
	fmt.Fprintf(w.out, "[OK] "+format+"\n", args...)
}

func (w *Writer) Warn(format string, args ...interface{}) {
	fmt.Fprintf(w.out, "[WARN] "+format+"\n", args...)
}

func (w *Writer) Fail(format string, args ...interface{}) {
	fmt.Fprintf(w.out, "[FAIL] "+format+"\n", args...)
}

// Raw echoes external tool output verbatim, with a trailing newline
// guaranteed so the next section banner starts on its own line.
func (w *Writer) Raw(s string) {
	if s == "" {
		fmt.Fprintln(w.out, "<no output>")
		return
	}
	fmt.Fprint(w.out, s)
	if !strings.HasSuffix(s, "\n") {
		fmt.Fprintln(w.out)
	}
}

// Table prints a header row and data rows as aligned columns.
func (w *Writer) Table(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}
