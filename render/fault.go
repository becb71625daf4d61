package render

import (
	"fmt"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vk/argram/fault"
)

// hintPad aligns wrapped hint continuations under the hint text.
const hintPad = 3

// Fault writes one fault panel at full page width.
func (r *Renderer) Fault(w io.Writer, f *fault.Fault) {
	r.renderFault(w, f, fault.RenderOptions{})
}

// Bundle writes every cause in accumulation order, honoring the
// per-cause width ratio each cause carries.
func (r *Renderer) Bundle(w io.Writer, b *fault.Bundle) {
	for i, c := range b.Causes {
		if i > 0 && !r.opts.Fancy {
			fmt.Fprintln(w)
		}
		r.renderFault(w, c.Fault, c.Opts)
	}
}

func (r *Renderer) renderFault(w io.Writer, f *fault.Fault, opts fault.RenderOptions) {
	width := r.opts.Width
	if opts.Ratio > 0 {
		width = int(float64(width) * opts.Ratio)
	}

	codeStyle, titleStyle := r.pal.errorCode, r.pal.errorTitle
	if f.IsWarning() {
		codeStyle, titleStyle = r.pal.warningCode, r.pal.warningTitle
	}

	header := r.newLine().plain("[ ")
	if r.opts.Program != "" {
		header.add(r.pal.programName, r.opts.Program).plain(" — ")
	}
	header.add(codeStyle, f.Code.String()).plain(" | ").
		add(titleStyle, titleCase(f.Title)).plain(" ]")

	inner := width
	if r.opts.Fancy {
		inner = width - 4
	}

	p := &page{}
	if !r.opts.Fancy {
		p.add(header)
	}
	for _, seg := range wrapAll(f.Summary, inner) {
		p.add(r.newLine().add(r.pal.message, seg))
	}
	if f.Hint != "" {
		for i, seg := range wrapAll(f.Hint, inner-hintPad) {
			l := r.newLine()
			if i == 0 {
				l.add(r.pal.hintArrow, " → ")
			} else {
				l.pad(hintPad)
			}
			l.add(r.pal.hint, seg)
			p.add(l)
		}
	}

	if r.opts.Fancy {
		fmt.Fprint(w, r.frame(p, width, header, nil))
		return
	}
	fmt.Fprint(w, p.String())
}

// titleCase capitalizes each word of a fault title the way panel headers
// show it. Casers are stateful, so one is built per call to keep the
// renderer safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
