package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-wordwrap"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/argram/argspec"
	"github.com/vk/argram/command"
)

// Classic help layout constants: two leading spaces before a name cell,
// descriptions aligned to one column, wrapped name cells indented deep.
const (
	groupPadding = 2
	descrColumn  = 15
	nameWrapPad  = groupPadding * 4
	bulletPad    = 3
)

// Help writes the full help page for cmd: usage line, description,
// subcommand table, grouped argument sections, notes, examples, epilog.
// Hidden specs are omitted; deprecated ones render struck.
func (r *Renderer) Help(w io.Writer, cmd *command.Command) {
	p := &page{}
	width := r.width()

	r.usageSection(p, cmd, width)
	p.blank()

	if d := cmd.Description(); d != "" {
		for _, seg := range wrapAll(d, width) {
			p.add(r.newLine().add(r.pal.description, seg))
		}
		p.blank()
	}

	if len(cmd.ChildNames()) > 0 {
		r.childrenTable(p, cmd, width)
		p.blank()
	}

	r.groupSections(p, cmd, width)
	p.blank()

	if notes := cmd.Notes(); len(notes) > 0 {
		r.bulletSection(p, "notes", r.pal.notesLabel, notes, width)
		p.blank()
	}
	if examples := cmd.Examples(); len(examples) > 0 {
		r.bulletSection(p, "examples", r.pal.examplesLabel, examples, width)
		p.blank()
	}

	if e := cmd.Epilog(); e != "" {
		for _, seg := range wrapAll(e, width) {
			p.add(r.newLine().add(r.pal.epilog, seg))
		}
	}
	p.trim()

	if r.opts.Fancy {
		title := r.newLine().add(r.pal.panelTitle,
			"[ "+strings.ToUpper(cmd.Name())+" HELP ]")
		var subtitle *line
		if meta := cmd.Metadata(); meta != nil && meta.Copyright != "" {
			subtitle = r.newLine().add(r.pal.panelSubtitle, meta.Copyright)
		}
		fmt.Fprint(w, r.frame(p, r.opts.Width, title, subtitle))
		return
	}
	fmt.Fprint(w, p.String())
}

// usageSection renders the usage line: an explicit usage string wins,
// otherwise the line is synthesized from the visible specs with a
// hanging indent at the program-name offset.
func (r *Renderer) usageSection(p *page, cmd *command.Command, width int) {
	head := r.newLine().add(r.pal.usageLabel, "usage").plain(": ")
	if u := cmd.Usage(); u != "" {
		head.add(r.pal.usageText, u)
		p.add(head)
		return
	}

	head.add(r.pal.programName, cmd.Name())
	offset := head.width + 1

	cur := head
	for _, it := range r.usageItems(cmd) {
		switch {
		case cur.width == offset || cur.width+1+it.width <= width:
			if cur.width == offset {
				cur.merge(it)
			} else {
				cur.plain(" ").merge(it)
			}
		default:
			p.add(cur)
			cur = r.newLine().pad(offset)
			cur.merge(it)
		}
	}
	p.add(cur)
}

// usageItems builds the bracketed usage fragments: helper flags first,
// then declared flags, options with metavars, and positional metavars.
func (r *Renderer) usageItems(cmd *command.Command) []*line {
	var head, flags, options []*line
	for _, spec := range cmd.NamedSpecs() {
		if spec.Hidden() {
			continue
		}
		switch s := spec.(type) {
		case *argspec.Boolean:
			item := r.newLine().plain("[").merge(r.joinedNames(spec)).plain("]")
			if spec.Helper() {
				head = append([]*line{item}, head...)
			} else {
				flags = append(flags, item)
			}
		case *argspec.NamedValue:
			item := r.newLine().plain("[").merge(r.joinedNames(spec)).plain(" ").
				merge(r.optionMetavar(s, false)).plain("]")
			options = append(options, item)
		}
	}

	items := append(head, flags...)
	items = append(items, options...)
	for _, pos := range cmd.Positionals() {
		if pos.Hidden() {
			continue
		}
		items = append(items, r.positionalMetavar(pos, false))
	}
	return items
}

// joinedNames fuses a named spec's aliases with " | " separators.
func (r *Renderer) joinedNames(spec argspec.Named) *line {
	style := r.nameStyle(spec)
	l := r.newLine()
	for i, name := range spec.Aliases() {
		if i > 0 {
			l.plain(" | ")
		}
		l.add(style, name)
	}
	return l
}

func (r *Renderer) nameStyle(spec argspec.Named) *color.Color {
	if spec.Deprecated() {
		return r.pal.deprecated
	}
	if spec.Kind() == argspec.KindNamed {
		return r.pal.optionName
	}
	return r.pal.flagName
}

// optionMetavar renders an option's value placeholder: the choice set in
// braces, or the identifier in angle brackets, decorated by arity unless
// simple.
func (r *Renderer) optionMetavar(opt *argspec.NamedValue, simple bool) *line {
	build := func() *line {
		if choices := opt.Choices(); len(choices) > 0 {
			return r.choiceSet(choices, opt.Deprecated())
		}
		style := r.pal.metavar
		if opt.Deprecated() {
			style = r.pal.deprecated
		}
		return r.newLine().plain("<").add(style, opt.Identifier()).plain(">")
	}
	if simple {
		return build()
	}
	return r.decorated(opt.Arity(), build)
}

// positionalMetavar renders a positional's placeholder: bare display
// name (greedy-styled for remainders) or the choice set.
func (r *Renderer) positionalMetavar(pos *argspec.Positional, simple bool) *line {
	build := func() *line {
		if choices := pos.Choices(); len(choices) > 0 {
			return r.choiceSet(choices, pos.Deprecated())
		}
		style := r.pal.metavar
		if pos.Arity().IsRemainder() {
			style = r.pal.greedyMetavar
		}
		if pos.Deprecated() {
			style = r.pal.deprecated
		}
		return r.newLine().add(style, pos.DisplayName())
	}
	if simple {
		return build()
	}
	return r.decorated(pos.Arity(), build)
}

func (r *Renderer) choiceSet(choices []cty.Value, deprecated bool) *line {
	style := r.pal.choice
	if deprecated {
		style = r.pal.deprecated
	}
	l := r.newLine().plain("{")
	for i, c := range choices {
		if i > 0 {
			l.plain(",")
		}
		l.add(style, argspec.ValueText(c))
	}
	return l.plain("}")
}

// decorated applies the arity shapes around a placeholder: [X], [X ...],
// X [X ...], or an n-fold repetition; remainders and One pass through.
func (r *Renderer) decorated(a argspec.Arity, build func() *line) *line {
	if n, ok := a.Count(); ok {
		out := r.newLine()
		for i := 0; i < n; i++ {
			if i > 0 {
				out.plain(" ")
			}
			out.merge(build())
		}
		return out
	}
	switch a {
	case argspec.ZeroOrOne():
		return r.newLine().plain("[").merge(build()).plain("]")
	case argspec.ZeroOrMore():
		return r.newLine().plain("[").merge(build()).plain(" ...]")
	case argspec.OneOrMore():
		return r.newLine().merge(build()).plain(" [").merge(build()).plain(" ...]")
	default:
		return build()
	}
}

// childrenTable draws the subcommand table: rounded box, name and help
// columns, two thirds of the page wide, title centered above.
func (r *Renderer) childrenTable(p *page, cmd *command.Command, width int) {
	names := cmd.ChildNames()
	title := "commands"
	if cmd.Parent() != nil {
		title = "subcommands"
	}

	nameCol := len("name")
	for _, n := range names {
		if len(n) > nameCol {
			nameCol = len(n)
		}
	}
	tableWidth := width * 2 / 3
	helpCol := tableWidth - nameCol - 7
	if helpCol < 12 {
		helpCol = 12
		tableWidth = nameCol + helpCol + 7
	}

	titleLine := r.newLine().pad((tableWidth - len(title)) / 2).
		add(r.pal.childrenTitle, title)
	p.add(titleLine)

	border := func(left, mid, right string) *line {
		return r.newLine().add(r.pal.tableBorder,
			left+strings.Repeat("─", nameCol+2)+mid+strings.Repeat("─", helpCol+2)+right)
	}
	row := func(name *line, help *line) *line {
		l := r.newLine().add(r.pal.tableBorder, "│").plain(" ")
		l.merge(name).pad(2 + nameCol + 1)
		l.add(r.pal.tableBorder, "│").plain(" ")
		l.merge(help).pad(2 + nameCol + 3 + helpCol + 1)
		return l.add(r.pal.tableBorder, "│")
	}

	p.add(border("╭", "┬", "╮"))
	p.add(row(
		r.newLine().add(r.pal.childrenTitle, "name"),
		r.newLine().add(r.pal.childrenTitle, "help"),
	))
	p.add(border("├", "┼", "┤"))

	for _, n := range names {
		child, _ := cmd.Child(n)
		var segments []*line
		if descr := child.Description(); descr != "" {
			for _, seg := range wrapAll(descr, helpCol) {
				segments = append(segments, r.newLine().add(r.pal.childDescr, seg))
			}
		} else {
			fallback := "no description — run '" + child.Route() + " --help' for details"
			for _, seg := range wrapAll(fallback, helpCol) {
				segments = append(segments, r.newLine().add(r.pal.childDescr, seg))
			}
		}
		for i, seg := range segments {
			name := r.newLine()
			if i == 0 {
				name.add(r.pal.childName, n)
			}
			p.add(row(name, seg))
		}
	}
	p.add(border("╰", "┴", "╯"))
}

// helpGroup is one named section of the argument layout.
type helpGroup struct {
	name  string
	specs []argspec.Spec
}

// helpGroups buckets visible specs for display: the declared group when
// one is set, otherwise a per-kind default section. Exclusion semantics
// apply only to declared groups; the defaults are purely presentational.
func helpGroups(cmd *command.Command) []helpGroup {
	var order []string
	buckets := make(map[string][]argspec.Spec)
	for _, b := range cmd.Bindings() {
		spec := b.Spec
		if spec.Hidden() {
			continue
		}
		name := spec.Group()
		if name == "" {
			name = spec.Kind().String() + "s"
		}
		if _, seen := buckets[name]; !seen {
			order = append(order, name)
		}
		buckets[name] = append(buckets[name], spec)
	}

	groups := make([]helpGroup, 0, len(order))
	for _, name := range order {
		groups = append(groups, helpGroup{name: name, specs: buckets[name]})
	}
	return groups
}

func (r *Renderer) groupSections(p *page, cmd *command.Command, width int) {
	groups := helpGroups(cmd)
	for i, g := range groups {
		p.add(r.newLine().add(r.pal.groupLabel, g.name).plain(":"))
		for _, spec := range g.specs {
			r.argumentRow(p, spec, width)
		}
		if i < len(groups)-1 {
			p.blank()
		}
	}
}

// argumentRow lays out one spec: the name cell (aliases and metavar
// segments, wrapped), then the description with a hanging indent at the
// description column.
func (r *Renderer) argumentRow(p *page, spec argspec.Spec, width int) {
	segments := r.rowSegments(spec)

	rows := []*line{r.newLine().pad(groupPadding)}
	for i, seg := range segments {
		cur := rows[len(rows)-1]
		switch {
		case i == 0 || cur.width+1+seg.width <= width:
			if i > 0 {
				cur.plain(" ")
			}
			cur.merge(seg)
		default:
			next := r.newLine().pad(nameWrapPad)
			next.merge(seg)
			rows = append(rows, next)
		}
	}

	descr := spec.Description()
	if descr == "" {
		for _, row := range rows {
			p.add(row)
		}
		return
	}

	wrapped := wrapAll(descr, width-descrColumn)
	last := rows[len(rows)-1]
	for _, row := range rows[:len(rows)-1] {
		p.add(row)
	}
	if len(rows) > 1 || last.width >= descrColumn {
		p.add(last)
		p.add(r.newLine().pad(descrColumn).add(r.pal.argDescr, wrapped[0]))
	} else {
		last.pad(descrColumn).add(r.pal.argDescr, wrapped[0])
		p.add(last)
	}
	for _, seg := range wrapped[1:] {
		p.add(r.newLine().pad(descrColumn).add(r.pal.argDescr, seg))
	}
}

// rowSegments builds the name-cell fragments: a bare placeholder for
// positionals, individual aliases (plus the metavar for options) for
// named specs.
func (r *Renderer) rowSegments(spec argspec.Spec) []*line {
	switch s := spec.(type) {
	case *argspec.Positional:
		return []*line{r.positionalMetavar(s, true)}
	case *argspec.NamedValue:
		segs := r.aliasSegments(s)
		return append(segs, r.optionMetavar(s, false))
	case argspec.Named:
		return r.aliasSegments(s)
	default:
		return nil
	}
}

func (r *Renderer) aliasSegments(spec argspec.Named) []*line {
	style := r.nameStyle(spec)
	segs := make([]*line, 0, len(spec.Aliases()))
	for _, name := range spec.Aliases() {
		segs = append(segs, r.newLine().add(style, name))
	}
	return segs
}

// bulletSection renders a labeled " • " list with wrapped items.
func (r *Renderer) bulletSection(p *page, label string, labelStyle *color.Color, items []string, width int) {
	p.add(r.newLine().add(labelStyle, label).plain(":"))
	for _, item := range items {
		for i, seg := range wrapAll(item, width-bulletPad) {
			l := r.newLine()
			if i == 0 {
				l.add(r.pal.bullet, " • ")
			} else {
				l.pad(bulletPad)
			}
			l.add(r.pal.item, seg)
			p.add(l)
		}
	}
}

// wrapAll word-wraps s and returns the resulting lines.
func wrapAll(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	return strings.Split(wordwrap.WrapString(s, uint(width)), "\n")
}
