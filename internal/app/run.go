package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/argram/argspec"
	"github.com/vk/argram/fault"
	"github.com/vk/argram/internal/ctxlog"
	"github.com/vk/argram/resolve"
)

// Run resolves argv against the loaded command tree and renders the
// outcome. Resolution faults are rendered to the error stream and
// surface as an ExitError with a non-zero code; help and version
// terminations render to the output stream and exit clean.
func (a *App) Run(ctx context.Context, argv []string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if len(argv) == 0 {
		a.logger.Debug("no arguments supplied, rendering help")
		a.renderer.Help(a.outW, a.root)
		return nil
	}

	out, err := a.resolver.Resolve(ctx, argv)
	if err != nil {
		return a.report(err)
	}

	if out.Warnings != nil {
		a.renderer.Bundle(a.errW, out.Warnings)
	}

	switch {
	case out.Helped():
		if out.Terminated.Identifier() == "version" {
			a.renderer.Version(a.outW, out.Command)
		} else {
			a.renderer.Help(a.outW, out.Command)
		}
	case out.Terminated != nil:
		a.logger.Debug("resolution terminated early", "spec", out.Terminated.Identifier())
	case out.Namespace != nil:
		a.printNamespace(out)
	case out.Result != cty.NilVal:
		fmt.Fprintln(a.outW, argspec.ValueText(out.Result))
	}
	return nil
}

// report renders a resolution failure and converts it into the
// process exit contract. Faults and bundles are already user-facing;
// anything else bubbles up for the entrypoint to print raw.
func (a *App) report(err error) error {
	var bundle *fault.Bundle
	if errors.As(err, &bundle) {
		a.renderer.Bundle(a.errW, bundle)
		return &ExitError{Code: 1}
	}
	var flt *fault.Fault
	if errors.As(err, &flt) {
		a.renderer.Fault(a.errW, flt)
		return &ExitError{Code: 1}
	}
	return err
}

// printNamespace dumps the bound values of an inert command, one
// identifier per line. Explicitly supplied identifiers are starred to
// separate them from defaults and implicit bindings.
func (a *App) printNamespace(out *resolve.Outcome) {
	fmt.Fprintf(a.outW, "%s resolved with %d bindings\n", out.Command.Route(), out.Namespace.Len())
	for _, id := range out.Namespace.Identifiers() {
		marker := " "
		if out.Namespace.Supplied(id) {
			marker = "*"
		}
		v, _ := out.Namespace.Get(id)
		fmt.Fprintf(a.outW, "  %s %s = %s\n", marker, id, argspec.ValueText(v))
	}
}
