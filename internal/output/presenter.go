package output

import (
	"fmt"
	"io"

	"taskctl/internal/view"
)

// Options configures a Presenter.
type Options struct {
	// Quiet suppresses informational notices.
	Quiet bool

	// Color enables terminal styling.
	Color bool

	// Deferred keeps only the latest list until Flush.
	Deferred bool
}

// Presenter writes view models to the terminal. It implements
// controller.Presenter.
type Presenter struct {
	out     io.Writer
	errOut  io.Writer
	opts    Options
	styler  Styler
	pending *view.ListView
}

// NewPresenter creates a Presenter writing lists and details to out and
// alerts to errOut.
func NewPresenter(out, errOut io.Writer, opts Options) *Presenter {
	return &Presenter{
		out:    out,
		errOut: errOut,
		opts:   opts,
		styler: NewStyler(out, opts.Color),
	}
}

// ShowList prints the list, or holds it until Flush in deferred mode.
func (p *Presenter) ShowList(v view.ListView) {
	if p.opts.Deferred {
		p.pending = &v
		return
	}
	FormatList(p.out, p.styler, v, p.opts.Quiet)
}

// ShowDetail prints a task detail view.
func (p *Presenter) ShowDetail(d view.DetailView) {
	FormatDetail(p.out, p.styler, d)
}

// Alert prints an error message to the error stream.
func (p *Presenter) Alert(message string) {
	fmt.Fprintf(p.errOut, "error: %s\n", message)
}

// Flush prints the held list, if any. It reports whether anything was held.
func (p *Presenter) Flush() bool {
	if p.pending == nil {
		return false
	}
	v := *p.pending
	p.pending = nil
	FormatList(p.out, p.styler, v, p.opts.Quiet)
	return true
}
