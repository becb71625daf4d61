package resolve

import (
	"github.com/vk/argram/argspec"
	"github.com/vk/argram/command"
	"github.com/vk/argram/fault"
	"github.com/zclconf/go-cty/cty"
)

// Outcome is the terminal result of one successful resolution.
//
// Exactly one of three shapes applies: a terminated invocation (a helper
// or other terminator spec matched; Terminated is set and nothing was
// validated), an active command's result (Result holds the handler return
// value), or an inert command's bindings (Namespace is set).
type Outcome struct {
	// Command is the resolved target after subcommand descent.
	Command *command.Command
	// Namespace holds the bound values for inert commands.
	Namespace *command.Namespace
	// Result is the handler return value for active commands.
	Result cty.Value
	// Terminated names the terminator spec that short-circuited the
	// invocation, nil otherwise. Helper terminators are how --help and
	// --version surface to the caller.
	Terminated argspec.Named
	// Warnings carries the advisory faults of a successful resolution,
	// marked soft; nil when there are none.
	Warnings *fault.Bundle
}

// Helped reports whether the invocation was terminated by a helper spec.
func (o *Outcome) Helped() bool {
	return o.Terminated != nil && o.Terminated.Helper()
}
