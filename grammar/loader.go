package grammar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/argram/command"
	"github.com/vk/argram/internal/ctxlog"
	"github.com/vk/argram/internal/fsutil"
)

// manifestExtension is the suffix LoadDir scans for.
const manifestExtension = ".hcl"

// callbackKey addresses one registered callback: the route of the owning
// command plus the spec identifier within it.
type callbackKey struct {
	route      string
	identifier string
}

// Loader parses grammar manifests into command trees. Handlers and
// callbacks are Go values a manifest cannot express, so they are
// registered on the loader up front, keyed by the space-joined route of
// the command they belong to. A registration nothing consumed by the
// end of a load is an error; it usually means a mistyped route.
type Loader struct {
	logger    *slog.Logger
	handlers  map[string]command.Handler
	callbacks map[callbackKey]command.Callback

	usedHandlers  map[string]bool
	usedCallbacks map[callbackKey]bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger routes the loader's debug logging to l. A logger already on
// the context takes precedence.
func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) { ld.logger = l }
}

// WithHandler registers the handler for the command at route, e.g.
// "grid build". The command becomes active: resolution runs h instead of
// returning a namespace.
func WithHandler(route string, h command.Handler) Option {
	return func(ld *Loader) { ld.handlers[route] = h }
}

// WithCallback registers a per-argument callback for the spec with the
// given identifier on the command at route.
func WithCallback(route, identifier string, cb command.Callback) Option {
	return func(ld *Loader) { ld.callbacks[callbackKey{route, identifier}] = cb }
}

// New returns a loader carrying the given registrations.
func New(opts ...Option) *Loader {
	l := &Loader{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		handlers:      make(map[string]command.Handler),
		callbacks:     make(map[callbackKey]command.Callback),
		usedHandlers:  make(map[string]bool),
		usedCallbacks: make(map[callbackKey]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Parse decodes one manifest from src. filename names the source in
// diagnostics only.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) ([]*command.Command, error) {
	ctx = l.prepare(ctx)
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", filename, diags)
	}
	roots, err := l.decode(ctx, file, filename)
	if err != nil {
		return nil, err
	}
	if err := l.verifyConsumed(); err != nil {
		return nil, err
	}
	return roots, nil
}

// LoadFile parses the manifest at path.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]*command.Command, error) {
	ctx = l.prepare(ctx)
	roots, err := l.loadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := l.verifyConsumed(); err != nil {
		return nil, err
	}
	return roots, nil
}

// LoadDir parses every manifest under dir, in lexical path order, and
// returns the root commands of all of them. Root names must not collide
// across files. Registrations may be spread over the whole directory;
// consumption is verified once at the end.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]*command.Command, error) {
	ctx = l.prepare(ctx)
	logger := loggerFrom(ctx)

	paths, err := fsutil.FindFilesByExtension(dir, manifestExtension)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no %s manifests under %s", manifestExtension, dir)
	}

	var roots []*command.Command
	seen := make(map[string]string)
	for _, path := range paths {
		batch, err := l.loadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		for _, root := range batch {
			if prev, dup := seen[root.Name()]; dup {
				return nil, fmt.Errorf("%s: root command %q already declared in %s", path, root.Name(), prev)
			}
			seen[root.Name()] = path
		}
		roots = append(roots, batch...)
	}

	logger.Debug("directory loaded", "dir", dir, "files", len(paths), "roots", len(roots))
	if err := l.verifyConsumed(); err != nil {
		return nil, err
	}
	return roots, nil
}

func (l *Loader) loadFile(ctx context.Context, path string) ([]*command.Command, error) {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", path, diags)
	}
	return l.decode(ctx, file, path)
}

func (l *Loader) decode(ctx context.Context, file *hcl.File, name string) ([]*command.Command, error) {
	var m manifest
	if diags := gohcl.DecodeBody(file.Body, nil, &m); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %w", name, diags)
	}
	if len(m.Commands) == 0 {
		return nil, fmt.Errorf("%s declares no command block", name)
	}

	roots := make([]*command.Command, 0, len(m.Commands))
	for _, block := range m.Commands {
		root, err := l.translate(ctx, block, block.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		roots = append(roots, root)
	}
	loggerFrom(ctx).Debug("manifest loaded", "file", name, "roots", len(roots))
	return roots, nil
}

// handlerFor returns the handler registered for route, marking it
// consumed. Commands without one stay inert.
func (l *Loader) handlerFor(route string) command.Handler {
	h, ok := l.handlers[route]
	if !ok {
		return nil
	}
	l.usedHandlers[route] = true
	return h
}

// callbackFor returns the callback registered for one spec of the
// command at route, marking it consumed.
func (l *Loader) callbackFor(route, identifier string) command.Callback {
	key := callbackKey{route, identifier}
	cb, ok := l.callbacks[key]
	if !ok {
		return nil
	}
	l.usedCallbacks[key] = true
	return cb
}

// verifyConsumed reports registrations no translated command picked up.
func (l *Loader) verifyConsumed() error {
	var missing []string
	for route := range l.handlers {
		if !l.usedHandlers[route] {
			missing = append(missing, fmt.Sprintf("handler for route %q", route))
		}
	}
	for key := range l.callbacks {
		if !l.usedCallbacks[key] {
			missing = append(missing, fmt.Sprintf("callback for %q at route %q", key.identifier, key.route))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("no command block consumed the registered %s", strings.Join(missing, ", "))
}

// prepare guarantees the context carries a logger for the inner
// translation layers.
func (l *Loader) prepare(ctx context.Context) context.Context {
	if _, ok := ctxlog.TryFromContext(ctx); ok {
		return ctx
	}
	return ctxlog.WithLogger(ctx, l.logger)
}

// loggerFrom returns the context logger, falling back to a discard
// logger so that helpers stay usable outside a prepared load.
func loggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctxlog.TryFromContext(ctx); ok {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
