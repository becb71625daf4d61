package resolve

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/argram/command"
	"github.com/vk/argram/fault"
	"github.com/vk/argram/internal/ctxlog"
)

// Resolver resolves token sequences against one command tree. It holds no
// per-invocation state, so a single Resolver serves concurrent calls.
type Resolver struct {
	root   *command.Command
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger routes the resolver's debug logging to l. Without it the
// resolver is silent unless the context carries a logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New returns a resolver for the given root command.
func New(root *command.Command, opts ...Option) *Resolver {
	r := &Resolver{
		root:   root,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs the four resolution phases over tokens. The returned error
// is a *fault.Fault for faults that stop analysis immediately, or a
// *fault.Bundle carrying every accumulated problem of the invocation. The
// context is used for logging only; a resolution is synchronous and runs
// to its terminal outcome.
func (r *Resolver) Resolve(ctx context.Context, tokens []string) (*Outcome, error) {
	logger := r.logger
	if ctxLogger, ok := ctxlog.TryFromContext(ctx); ok {
		logger = ctxLogger
	}

	cmd, rest := descend(r.root, tokens)
	logger.Debug("command resolved", "route", cmd.Route(), "tokens", len(rest))

	b := newBinder(cmd, newStream(rest), logger)
	if err := b.bind(); err != nil {
		logger.Debug("binding stopped", "error", err)
		return nil, err
	}

	if b.terminated != nil {
		logger.Debug("invocation terminated", "spec", b.terminated.Canonical())
		return &Outcome{Command: cmd, Terminated: b.terminated}, nil
	}

	return b.finish()
}

// ResolveString splits a shell-style line and resolves it.
func (r *Resolver) ResolveString(ctx context.Context, line string) (*Outcome, error) {
	tokens, err := SplitString(line)
	if err != nil {
		return nil, err
	}
	return r.Resolve(ctx, tokens)
}

// descend walks the tree while leading tokens exactly match child names.
// It never backtracks: once no child matches, the remaining tokens belong
// to the current command.
func descend(root *command.Command, tokens []string) (*command.Command, []string) {
	cmd := root
	i := 0
	for i < len(tokens) {
		child, ok := cmd.Child(tokens[i])
		if !ok {
			break
		}
		cmd = child
		i++
	}
	return cmd, tokens[i:]
}

// softBundle wraps warnings for a successful outcome, nil when empty.
func softBundle(warnings []*fault.Fault) *fault.Bundle {
	if len(warnings) == 0 {
		return nil
	}
	b := fault.NewBundle(warnings...)
	b.Soft = true
	return b
}
