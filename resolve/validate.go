package resolve

import (
	"github.com/vk/argram/argspec"
	"github.com/vk/argram/command"
	"github.com/vk/argram/fault"
	"github.com/zclconf/go-cty/cty"
)

// finish runs post-match validation and dispatch. Faults are accumulated
// into one ordered bundle so a single invocation reports every independent
// problem; only a bundle with errors stops the invocation.
func (b *binder) finish() (*Outcome, error) {
	faults := make([]*fault.Fault, 0, len(b.chrono))
	faults = append(faults, b.chrono...)
	faults = append(faults, b.arityFaults()...)
	faults = append(faults, b.conversionFaults(false)...)
	faults = append(faults, b.groupFaults()...)
	faults = append(faults, b.conflictFaults()...)
	faults = append(faults, b.duplicateFaults()...)
	faults = append(faults, b.leftoverFaults()...)
	faults = append(faults, b.conversionFaults(true)...)
	faults = append(faults, b.deprecationWarnings()...)

	bundle := fault.NewBundle(faults...)
	if bundle.HasErrors() {
		b.logger.Debug("validation failed", "faults", bundle.Len())
		return nil, bundle
	}

	ns, coercions := b.buildNamespace()
	warnings := append(bundle.Warnings(), coercions...)

	if f := b.runCallbacks(ns); f != nil {
		return nil, fault.NewBundle(append(warnings, f)...)
	}

	outcome := &Outcome{Command: b.cmd, Warnings: softBundle(warnings)}
	if b.cmd.Active() {
		result, err := b.cmd.Handler()(ns)
		if err != nil {
			delegated := fault.Delegated("handler", b.cmd.Name(), err)
			return nil, fault.NewBundle(append(warnings, delegated)...)
		}
		outcome.Result = result
		return outcome, nil
	}
	outcome.Namespace = ns
	return outcome, nil
}

// arityFaults applies each spec's arity predicate to what it collected,
// in declaration order.
func (b *binder) arityFaults() []*fault.Fault {
	var out []*fault.Fault
	for _, st := range b.order {
		v := st.valued
		if v == nil {
			continue
		}
		have := len(st.raws)
		switch v.Arity().Fit(have) {
		case argspec.FitExact:
		case argspec.FitOver:
			max, _ := v.Arity().Max()
			out = append(out, fault.ArityMismatch(b.refOf(st), max, have))
		case argspec.FitUnder:
			out = append(out, b.underFault(st, have))
		}
	}
	return out
}

// underFault picks the missing-value fault for an under-satisfied spec.
func (b *binder) underFault(st *specState, have int) *fault.Fault {
	v := st.valued
	if st.named != nil {
		alias := st.named.Canonical()
		if n, exact := v.Arity().Count(); exact {
			return fault.NotEnoughValues(alias, false, n, have)
		}
		offset := -1
		if st.supplied() {
			offset = st.first
		}
		if _, bounded := v.Arity().Max(); bounded {
			return fault.MissingParameter(alias, offset)
		}
		return fault.MissingAtLeastOne(alias, offset)
	}

	p := st.spec.(*argspec.Positional)
	if n, exact := v.Arity().Count(); exact && have > 0 {
		return fault.NotEnoughValues(p.DisplayName(), true, n, have)
	}
	return fault.MissingArgument(p.DisplayName(), b.cmd.Route())
}

// conversionFaults converts collected raw tokens and checks choice
// membership, for either the deferred or the non-deferred specs.
// Deferred specs run after every structural check, so a structurally
// broken invocation is reported before their coercion failures.
func (b *binder) conversionFaults(deferred bool) []*fault.Fault {
	var out []*fault.Fault
	for _, st := range b.order {
		v := st.valued
		if v == nil || v.NoWait() != deferred {
			continue
		}
		st.converted = st.converted[:0]
		for _, c := range st.raws {
			if c.text == "" {
				out = append(out, fault.EmptyValue(b.refOf(st), c.offset))
				continue
			}
			val, err := v.Converter()(c.text)
			if err != nil {
				out = append(out, fault.ConversionError(b.refOf(st), c.text, c.offset, b.cmd.Route(), err))
				continue
			}
			st.converted = append(st.converted, val)
			if choices := v.Choices(); len(choices) > 0 && !member(val, choices) {
				out = append(out, fault.InvalidChoice(b.refOf(st), argspec.ValueText(val), choiceTexts(choices)))
			}
		}
	}
	return out
}

// groupFaults reports each mutual-exclusion group with more than one
// supplied member, exactly once per group.
func (b *binder) groupFaults() []*fault.Fault {
	var out []*fault.Fault
	for _, name := range b.cmd.GroupNames() {
		var supplied []string
		for _, id := range b.cmd.GroupMembers(name) {
			if b.byID[id].supplied() {
				supplied = append(supplied, b.refOf(b.byID[id]))
			}
		}
		if len(supplied) > 1 {
			out = append(out, fault.GroupConflict(name, supplied))
		}
	}
	return out
}

func (b *binder) conflictFaults() []*fault.Fault {
	var out []*fault.Fault
	for _, pair := range b.cmd.Conflicts() {
		first, second := b.byID[pair[0]], b.byID[pair[1]]
		if first.supplied() && second.supplied() {
			out = append(out, fault.Conflict(b.refOf(first), b.refOf(second)))
		}
	}
	return out
}

func (b *binder) duplicateFaults() []*fault.Fault {
	var out []*fault.Fault
	for _, st := range b.order {
		if st.dup >= 0 {
			out = append(out, fault.DuplicateArgument(st.spec.Kind().String(), st.named.Canonical(), st.dup))
		}
	}
	return out
}

// leftoverFaults reports stream tokens the binding phase never consumed.
// The classification loop consumes everything it sees, so this only fires
// if binding exited early without a terminator.
func (b *binder) leftoverFaults() []*fault.Fault {
	if b.stream.remaining() == 0 {
		return nil
	}
	return []*fault.Fault{fault.UnparsedTokens(b.stream.rest(), b.cmd.Route())}
}

func (b *binder) deprecationWarnings() []*fault.Fault {
	var out []*fault.Fault
	for _, st := range b.order {
		if st.spec.Deprecated() && st.supplied() {
			out = append(out, fault.DeprecatedArgument(st.spec.Kind().String(), b.refOf(st), st.first, b.cmd.Route()))
		}
	}
	return out
}

// buildNamespace materializes the outcome values: converted tokens,
// declared defaults (with their recorded coercion warnings) and false for
// absent flags. Identifiers with neither a value nor a default stay out
// of the namespace; absence is the unset marker.
func (b *binder) buildNamespace() (*command.Namespace, []*fault.Fault) {
	ns := command.NewNamespace()
	var coercions []*fault.Fault
	for _, st := range b.order {
		id := st.spec.Identifier()
		if st.valued == nil {
			ns.Bind(id, cty.BoolVal(st.occurrences > 0), st.occurrences > 0)
			continue
		}
		if len(st.converted) > 0 {
			ns.Bind(id, assembleValue(st.valued, st.converted), true)
			continue
		}
		if def, ok := st.valued.Default(); ok {
			if from, to, coerced := st.valued.CoercedDefault(); coerced {
				coercions = append(coercions, fault.ImplicitCoercion(b.refOf(st), from, to))
			}
			ns.Bind(id, def, st.supplied())
		}
	}
	return ns, coercions
}

// runCallbacks invokes the per-spec callbacks of supplied specs in
// declaration order. Terminator callbacks already ran during binding.
func (b *binder) runCallbacks(ns *command.Namespace) *fault.Fault {
	for _, st := range b.order {
		if !st.supplied() {
			continue
		}
		cb, ok := b.cmd.CallbackFor(st.spec.Identifier())
		if !ok {
			continue
		}
		if err := cb(ns.Value(st.spec.Identifier())); err != nil {
			return fault.Delegated("callback", b.refOf(st), err)
		}
	}
	return nil
}

func member(val cty.Value, choices []cty.Value) bool {
	for _, c := range choices {
		if val.RawEquals(c) {
			return true
		}
	}
	return false
}

func choiceTexts(choices []cty.Value) []string {
	out := make([]string, len(choices))
	for i, c := range choices {
		out[i] = argspec.ValueText(c)
	}
	return out
}
