package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// progressPrinter renders per-student progress. On a terminal the line is
// rewritten in place; otherwise every student gets its own line.
type progressPrinter struct {
	w     io.Writer
	tty   bool
	stage string
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &progressPrinter{w: w, tty: tty}
}

func (p *progressPrinter) update(stage string, done, total int, student, status string) {
	if p.tty && p.stage != "" && p.stage != stage {
		fmt.Fprintln(p.w)
	}
	p.stage = stage
	line := fmt.Sprintf("[%s] %s %d/%d %s %s", stage, bar(done, total, 20), done, total, student, status)
	if p.tty {
		fmt.Fprintf(p.w, "\r\033[K%s", line)
		return
	}
	fmt.Fprintln(p.w, line)
}

// finish terminates the in-place line.
func (p *progressPrinter) finish() {
	if p.tty && p.stage != "" {
		fmt.Fprintln(p.w)
	}
	p.stage = ""
}

func bar(done, total, width int) string {
	if total <= 0 {
		return "[" + strings.Repeat("-", width) + "]"
	}
	n := done * width / total
	return "[" + strings.Repeat("#", n) + strings.Repeat("-", width-n) + "]"
}
