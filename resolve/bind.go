package resolve

import (
	"log/slog"

	"github.com/vk/argram/argspec"
	"github.com/vk/argram/command"
	"github.com/vk/argram/fault"
	"github.com/zclconf/go-cty/cty"
)

// capture is one raw token collected for a spec, with its stream offset.
type capture struct {
	text   string
	offset int
}

// specState is the per-invocation accumulation for one spec.
type specState struct {
	spec   argspec.Spec
	valued argspec.Valued // nil for Boolean
	named  argspec.Named  // nil for Positional

	raws        []capture
	converted   []cty.Value
	occurrences int
	first       int // offset of the first occurrence, -1 until seen
	dup         int // offset of the first non-repeatable repeat, -1
}

// supplied reports whether the invocation explicitly provided this spec.
func (st *specState) supplied() bool {
	return st.occurrences > 0 || len(st.raws) > 0
}

// binder runs the classification phase over one token stream and carries
// the accumulated state into validation.
type binder struct {
	cmd    *command.Command
	stream *stream
	logger *slog.Logger

	order []*specState
	byID  map[string]*specState

	posIdx     int
	boundOrder []string
	boundSet   map[string]bool

	// immediate is the first fault that invalidates further analysis. The
	// scan continues after it is recorded, but only so that a terminator
	// can still win and discard it; no further faults are collected.
	immediate *fault.Fault

	// chrono accumulates binding-phase faults and warnings in encounter
	// order: empty attached values and the unexpected-positional report.
	chrono     []*fault.Fault
	unexpected *fault.Fault

	terminated    argspec.Named
	remainderDone bool
}

func newBinder(cmd *command.Command, s *stream, logger *slog.Logger) *binder {
	b := &binder{
		cmd:      cmd,
		stream:   s,
		logger:   logger,
		byID:     make(map[string]*specState),
		boundSet: make(map[string]bool),
	}
	for _, bind := range cmd.Bindings() {
		st := &specState{spec: bind.Spec, first: -1, dup: -1}
		if v, ok := bind.Spec.(argspec.Valued); ok {
			st.valued = v
		}
		if n, ok := bind.Spec.(argspec.Named); ok {
			st.named = n
		}
		b.order = append(b.order, st)
		b.byID[bind.Spec.Identifier()] = st
	}
	return b
}

// bind consumes the stream left to right. A nil return means control
// proceeds to validation or, when terminated is set, straight to the
// terminal outcome.
func (b *binder) bind() error {
	for b.terminated == nil && !b.remainderDone {
		tok, off, ok := b.stream.next()
		if !ok {
			break
		}
		if nt, isNamed := parseNamed(tok); isNamed {
			b.handleNamed(nt, off)
			continue
		}
		if isPlain(tok) {
			b.handlePlain(tok, off)
			continue
		}
		b.recordImmediate(fault.MalformedToken(tok, off, b.cmd.Route()))
	}
	if b.terminated != nil {
		return nil
	}
	if b.immediate != nil {
		return b.immediate
	}
	return nil
}

// recordImmediate keeps the first analysis-stopping fault; later ones are
// dropped because the invocation already has its verdict unless a
// terminator discards it.
func (b *binder) recordImmediate(f *fault.Fault) {
	if b.immediate == nil {
		b.immediate = f
		b.logger.Debug("analysis-stopping fault recorded", "code", f.Code.String(), "summary", f.Summary)
	}
}

func (b *binder) handleNamed(nt namedToken, off int) {
	spec, ok := b.cmd.Lookup(nt.alias)
	if !ok && !nt.attached && argspec.IsShort(nt.alias) && len(nt.alias) > 2 {
		// -n5 is the glued short form of -n 5 when -n names a value spec.
		if candidate, found := b.cmd.Lookup(nt.alias[:2]); found {
			if _, isValue := candidate.(*argspec.NamedValue); isValue {
				nt = namedToken{alias: nt.alias[:2], value: nt.alias[2:], attached: true}
				spec, ok = candidate, true
			}
		}
	}
	if !ok {
		b.recordImmediate(fault.UnrecognizedOption(nt.alias, off, b.cmd.Route(), b.suggestable()))
		return
	}

	if b.immediate != nil {
		b.degradedNamed(spec, nt)
		return
	}

	st := b.byID[spec.Identifier()]
	switch s := spec.(type) {
	case *argspec.Boolean:
		if nt.attached {
			b.recordImmediate(fault.BooleanAssignment(nt.alias, off))
			return
		}
		b.mark(st, off)
	case *argspec.NamedValue:
		b.bindNamedValue(s, st, nt, off)
		if b.immediate != nil {
			return
		}
	}

	b.afterNamedMatch(spec, st, off)
}

// bindNamedValue collects values for one occurrence of a value spec. An
// attached form closes consumption: no spaced values are pulled after it.
func (b *binder) bindNamedValue(s *argspec.NamedValue, st *specState, nt namedToken, off int) {
	b.mark(st, off)
	if st.occurrences > 1 && !s.Arity().Repeatable() {
		st.raws = nil // the last occurrence wins
	}

	if nt.attached {
		if nt.value == "" {
			b.chrono = append(b.chrono, fault.EmptyAttachedValue(nt.alias, off, s.AttachedOnly()))
			return
		}
		parts := []string{nt.value}
		if s.Arity().TakesAnother(1) {
			// the spec accepts a second value, so the payload may list
			// several
			parts = splitAttached(nt.value)
		}
		for _, p := range parts {
			st.raws = append(st.raws, capture{text: p, offset: off})
		}
		return
	}

	if s.AttachedOnly() {
		b.recordImmediate(fault.AttachedValueRequired(nt.alias, off))
		return
	}

	for s.Arity().TakesAnother(len(st.raws)) {
		peeked, ok := b.stream.peek()
		if !ok || stopsPull(peeked) {
			break
		}
		tok, o, _ := b.stream.next()
		st.raws = append(st.raws, capture{text: tok, offset: o})
	}
}

// afterNamedMatch enforces standalone exclusivity and fires terminators.
// The standalone check runs first, so --debug --help faults while a lone
// --help helps.
func (b *binder) afterNamedMatch(spec argspec.Named, st *specState, off int) {
	if spec.Standalone() {
		others := len(b.boundOrder)
		if b.boundSet[spec.Identifier()] {
			others--
		}
		if others > 0 || b.stream.remaining() > 0 {
			b.recordImmediate(fault.StandaloneUsage(spec.Kind().String(), spec.Canonical(), b.cmd.Route(), off))
			return
		}
	}
	if spec.Terminator() && b.satisfied(st) {
		b.terminate(spec, st)
	}
}

// degradedNamed runs after an immediate fault was recorded: the scan only
// looks for a terminator that can still win. It never pulls spaced values;
// a value-carrying terminator fires only with an attached payload or a
// zero-satisfiable arity.
func (b *binder) degradedNamed(spec argspec.Named, nt namedToken) {
	if !spec.Terminator() {
		return
	}
	st := b.byID[spec.Identifier()]

	if _, isFlag := spec.(*argspec.Boolean); isFlag {
		if nt.attached {
			return
		}
	} else {
		if nt.attached && nt.value != "" {
			parts := []string{nt.value}
			if st.valued.Arity().TakesAnother(1) {
				parts = splitAttached(nt.value)
			}
			st.raws = st.raws[:0]
			for _, p := range parts {
				st.raws = append(st.raws, capture{text: p, offset: -1})
			}
		}
		if !st.valued.Arity().Satisfied(len(st.raws)) {
			return
		}
	}

	if spec.Standalone() {
		others := len(b.boundOrder)
		if b.boundSet[spec.Identifier()] {
			others--
		}
		if others > 0 || b.stream.remaining() > 0 {
			return
		}
	}
	b.terminate(spec, st)
}

// terminate ends the binding phase: the terminator's own value is
// converted, its callback runs, and any recorded immediate fault is
// discarded.
func (b *binder) terminate(spec argspec.Named, st *specState) {
	b.logger.Debug("terminator matched", "spec", spec.Canonical())
	b.immediate = nil

	value := cty.True
	if st.valued != nil {
		converted := make([]cty.Value, 0, len(st.raws))
		for _, c := range st.raws {
			v, err := st.valued.Converter()(c.text)
			if err != nil {
				b.immediate = fault.ConversionError(b.refOf(st), c.text, c.offset, b.cmd.Route(), err)
				return
			}
			converted = append(converted, v)
		}
		value = assembleValue(st.valued, converted)
	}

	if cb, ok := b.cmd.CallbackFor(spec.Identifier()); ok {
		if err := cb(value); err != nil {
			b.immediate = fault.Delegated("callback", spec.Canonical(), err)
			return
		}
	}
	b.terminated = spec
}

func (b *binder) handlePlain(tok string, off int) {
	if b.immediate != nil {
		return
	}
	positionals := b.cmd.Positionals()
	for b.posIdx < len(positionals) {
		p := positionals[b.posIdx]
		st := b.byID[p.Identifier()]
		if p.Arity().IsRemainder() {
			// the remainder takes this token and everything after it,
			// named-looking or not, and ends the binding phase
			st.raws = append(st.raws, capture{text: tok, offset: off})
			for {
				t, o, ok := b.stream.next()
				if !ok {
					break
				}
				st.raws = append(st.raws, capture{text: t, offset: o})
			}
			b.markAt(st, off)
			b.remainderDone = true
			return
		}
		if p.Arity().TakesAnother(len(st.raws)) {
			st.raws = append(st.raws, capture{text: tok, offset: off})
			b.markAt(st, off)
			return
		}
		b.posIdx++
	}

	if len(positionals) == 0 && len(b.cmd.ChildNames()) > 0 {
		// a pure router command: the token is a failed subcommand
		if b.cmd.Parent() == nil {
			b.recordImmediate(fault.UnknownCommand(tok, off, b.cmd.Route(), b.cmd.ChildNames()))
		} else {
			b.recordImmediate(fault.UnknownSubcommand(tok, off, b.cmd.Route(), b.cmd.ChildNames()))
		}
		return
	}

	if b.unexpected == nil {
		b.unexpected = fault.UnexpectedPositional(tok, off, b.cmd.Route())
		b.chrono = append(b.chrono, b.unexpected)
	}
	b.unexpected.Context.Leftover = append(b.unexpected.Context.Leftover, tok)
}

// mark records one named occurrence and its duplicate bookkeeping.
func (b *binder) mark(st *specState, off int) {
	st.occurrences++
	repeatable := st.valued != nil && st.valued.Arity().Repeatable()
	if st.occurrences > 1 && !repeatable && st.dup < 0 {
		st.dup = off
	}
	b.markAt(st, off)
}

// markAt records first-offset and bound-identifier bookkeeping.
func (b *binder) markAt(st *specState, off int) {
	if st.first < 0 {
		st.first = off
	}
	id := st.spec.Identifier()
	if !b.boundSet[id] {
		b.boundSet[id] = true
		b.boundOrder = append(b.boundOrder, id)
	}
}

// satisfied reports whether a named spec's own arity is fulfilled; flags
// always are.
func (b *binder) satisfied(st *specState) bool {
	if st.valued == nil {
		return true
	}
	return st.valued.Arity().Satisfied(len(st.raws))
}

// refOf is the message reference for a spec: canonical alias for named
// specs, display name for positionals.
func (b *binder) refOf(st *specState) string {
	if st.named != nil {
		return st.named.Canonical()
	}
	return st.spec.(*argspec.Positional).DisplayName()
}

// suggestable lists the aliases offered in did-you-mean hints; hidden
// specs stay out of them.
func (b *binder) suggestable() []string {
	var out []string
	for _, s := range b.cmd.NamedSpecs() {
		if s.Hidden() {
			continue
		}
		out = append(out, s.Aliases()...)
	}
	return out
}

// assembleValue builds the bound value from converted tokens: a tuple for
// multi-value arities, the single value otherwise. A supplied-but-empty
// optional falls back to the declared default or the unset marker.
func assembleValue(v argspec.Valued, converted []cty.Value) cty.Value {
	if v.Arity().Multiple() {
		if len(converted) == 0 {
			return cty.EmptyTupleVal
		}
		return cty.TupleVal(converted)
	}
	if len(converted) == 0 {
		if def, ok := v.Default(); ok {
			return def
		}
		return cty.NilVal
	}
	return converted[0]
}
