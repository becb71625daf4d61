// Package render presents resolution artifacts on a terminal: help
// pages, version blocks and fault panels. It is a pure formatter; the
// caller owns writers, exit codes and the decision of what to render.
package render

import (
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// DefaultWidth is the layout width when Options leave Width unset.
const DefaultWidth = 80

// Options configure a Renderer. The zero value renders plain, unboxed,
// monochrome output at the default width.
type Options struct {
	// Program names the tool in fault panel headers, usually the root
	// command's name.
	Program string
	// Width is the terminal width the layout targets.
	Width int
	// Fancy wraps pages in box-drawn panels.
	Fancy bool
	// Color enables the styled palette. fatih/color's global NoColor
	// detection still applies on top of it.
	Color bool
}

// Renderer formats help, version and fault output. It is stateless and
// safe for concurrent use.
type Renderer struct {
	opts Options
	pal  palette
}

// New returns a renderer for the given presentation options.
func New(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	return &Renderer{opts: opts, pal: newPalette()}
}

// width is the usable content width, accounting for panel gutters.
func (r *Renderer) width() int {
	if r.opts.Fancy {
		return r.opts.Width - 4
	}
	return r.opts.Width
}

// palette is the styled color set, applied only when Color is on.
type palette struct {
	usageLabel  *color.Color
	programName *color.Color
	usageText   *color.Color
	description *color.Color
	epilog      *color.Color

	groupLabel *color.Color
	argDescr   *color.Color

	optionName *color.Color
	flagName   *color.Color
	deprecated *color.Color

	metavar       *color.Color
	greedyMetavar *color.Color
	choice        *color.Color

	childrenTitle *color.Color
	childName     *color.Color
	childDescr    *color.Color
	tableBorder   *color.Color

	notesLabel    *color.Color
	examplesLabel *color.Color
	bullet        *color.Color
	item          *color.Color

	programVersion *color.Color
	scalarLabel    *color.Color
	scalarValue    *color.Color
	link           *color.Color
	devLabel       *color.Color
	maintLabel     *color.Color

	errorCode     *color.Color
	warningCode   *color.Color
	errorTitle    *color.Color
	warningTitle  *color.Color
	message       *color.Color
	hintArrow     *color.Color
	hint          *color.Color
	panelTitle    *color.Color
	panelSubtitle *color.Color
}

func newPalette() palette {
	return palette{
		usageLabel:  color.New(color.FgHiCyan, color.Bold),
		programName: color.New(color.FgHiMagenta, color.Bold),
		usageText:   color.New(color.FgHiBlue, color.Bold),
		description: color.New(color.FgHiBlack, color.Italic),
		epilog:      color.New(color.FgHiBlack),

		groupLabel: color.New(color.FgHiWhite, color.Bold),
		argDescr:   color.New(color.FgHiBlack),

		optionName: color.New(color.FgHiCyan, color.Bold),
		flagName:   color.New(color.FgGreen, color.Bold),
		deprecated: color.New(color.FgYellow, color.Bold, color.CrossedOut),

		metavar:       color.New(color.FgHiYellow, color.Bold),
		greedyMetavar: color.New(color.FgHiYellow, color.Bold, color.Italic),
		choice:        color.New(color.FgHiMagenta, color.Bold),

		childrenTitle: color.New(color.FgHiWhite, color.Bold),
		childName:     color.New(color.FgHiBlue, color.Bold),
		childDescr:    color.New(color.FgHiBlack),
		tableBorder:   color.New(color.Faint),

		notesLabel:    color.New(color.FgHiCyan, color.Bold),
		examplesLabel: color.New(color.FgGreen, color.Bold),
		bullet:        color.New(color.Faint),
		item:          color.New(color.FgWhite),

		programVersion: color.New(color.FgHiCyan, color.Bold),
		scalarLabel:    color.New(color.FgHiWhite, color.Bold),
		scalarValue:    color.New(color.FgHiBlack),
		link:           color.New(color.FgHiCyan, color.Underline),
		devLabel:       color.New(color.FgHiYellow, color.Bold),
		maintLabel:     color.New(color.FgHiBlue, color.Bold),

		errorCode:     color.New(color.FgHiCyan, color.Bold),
		warningCode:   color.New(color.FgHiYellow, color.Bold),
		errorTitle:    color.New(color.FgHiMagenta, color.Bold),
		warningTitle:  color.New(color.FgMagenta),
		message:       color.New(color.FgWhite),
		hintArrow:     color.New(color.FgGreen, color.Faint),
		hint:          color.New(color.FgGreen, color.Italic),
		panelTitle:    color.New(color.FgHiMagenta, color.Bold),
		panelSubtitle: color.New(color.FgHiBlack),
	}
}

// paint styles s when color is enabled. A nil style passes through.
func (r *Renderer) paint(c *color.Color, s string) string {
	if !r.opts.Color || c == nil || s == "" {
		return s
	}
	return c.Sprint(s)
}

// line builds one output line from styled fragments while tracking the
// visible width of the plain text, so layout math survives the escape
// sequences styling injects.
type line struct {
	r      *Renderer
	styled strings.Builder
	width  int
}

func (r *Renderer) newLine() *line {
	return &line{r: r}
}

func (l *line) add(style *color.Color, s string) *line {
	l.styled.WriteString(l.r.paint(style, s))
	l.width += utf8.RuneCountInString(s)
	return l
}

func (l *line) plain(s string) *line { return l.add(nil, s) }

// merge appends an already-styled line, carrying its visible width.
func (l *line) merge(other *line) *line {
	l.styled.WriteString(other.String())
	l.width += other.width
	return l
}

func (l *line) pad(column int) *line {
	if l.width < column {
		l.plain(strings.Repeat(" ", column-l.width))
	}
	return l
}

func (l *line) String() string { return l.styled.String() }

// renderedLine is a finished line plus its visible width, kept for
// panel framing.
type renderedLine struct {
	text  string
	width int
}

// page accumulates finished lines until framing.
type page struct {
	lines []renderedLine
}

func (p *page) add(l *line) {
	p.lines = append(p.lines, renderedLine{text: l.String(), width: l.width})
}

func (p *page) blank() {
	p.lines = append(p.lines, renderedLine{})
}

// trim drops trailing blank lines.
func (p *page) trim() {
	for len(p.lines) > 0 && p.lines[len(p.lines)-1].width == 0 && p.lines[len(p.lines)-1].text == "" {
		p.lines = p.lines[:len(p.lines)-1]
	}
}

// String joins the accumulated lines, newline terminated.
func (p *page) String() string {
	var b strings.Builder
	for _, l := range p.lines {
		b.WriteString(l.text)
		b.WriteByte('\n')
	}
	return b.String()
}

// frame draws a rounded panel around the page. The title embeds into
// the top border left-aligned; the subtitle centers into the bottom
// border. width is the total panel width including borders.
func (r *Renderer) frame(p *page, width int, title, subtitle *line) string {
	p.trim()
	inner := width - 4
	if inner < 1 {
		inner = 1
		width = inner + 4
	}

	var b strings.Builder
	top := r.newLine().plain("╭─")
	if title != nil && title.width <= width-6 {
		top.plain(" ").merge(title).plain(" ")
	}
	if fill := width - 1 - top.width; fill > 0 {
		top.plain(strings.Repeat("─", fill))
	}
	top.plain("╮")
	b.WriteString(top.String())
	b.WriteByte('\n')

	for _, l := range p.lines {
		pad := inner - l.width
		if pad < 0 {
			pad = 0
		}
		b.WriteString("│ " + l.text + strings.Repeat(" ", pad) + " │\n")
	}

	bottom := r.newLine().plain("╰")
	if subtitle != nil && subtitle.width <= width-6 {
		side := (width - 4 - subtitle.width) / 2
		if side > 0 {
			bottom.plain(strings.Repeat("─", side))
		}
		bottom.plain(" ").merge(subtitle).plain(" ")
	}
	if fill := width - 1 - bottom.width; fill > 0 {
		bottom.plain(strings.Repeat("─", fill))
	}
	bottom.plain("╯")
	b.WriteString(bottom.String())
	b.WriteByte('\n')
	return b.String()
}
