package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/argram/command"
	"github.com/vk/argram/grammar"
	"github.com/vk/argram/internal/ctxlog"
	"github.com/vk/argram/render"
	"github.com/vk/argram/resolve"
)

// App encapsulates the runner's dependencies, configuration and
// lifecycle: a loaded command tree, a resolver over it and a renderer
// for its outcomes.
type App struct {
	outW     io.Writer
	errW     io.Writer
	logger   *slog.Logger
	config   *Config
	root     *command.Command
	resolver *resolve.Resolver
	renderer *render.Renderer
}

// New is the constructor for the runner. It returns a fully initialized
// App with its own isolated logger and a loaded command tree. A failure
// to load the grammar is a fatal startup error and panics; the
// entrypoint recovers it into a clean exit.
func New(outW, errW io.Writer, cfg *Config, loader *grammar.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("logger configured")

	roots, err := loadManifests(ctx, loader, cfg.ManifestPath)
	if err != nil {
		panic(fmt.Errorf("failed to load grammar manifests: %w", err))
	}
	logger.Debug("manifests loaded", "roots", len(roots))

	root, err := selectRoot(roots, cfg.RootName)
	if err != nil {
		panic(err)
	}
	logger.Debug("root command selected", "name", root.Name())

	return &App{
		outW:     outW,
		errW:     errW,
		logger:   logger,
		config:   cfg,
		root:     root,
		resolver: resolve.New(root, resolve.WithLogger(logger)),
		renderer: render.New(render.Options{
			Program: root.Name(),
			Width:   cfg.Width,
			Fancy:   cfg.Fancy,
			Color:   cfg.Color,
		}),
	}
}

// Root returns the loaded command tree. This is primarily for testing.
func (a *App) Root() *command.Command { return a.root }

// loadManifests loads one manifest file or every manifest under a
// directory.
func loadManifests(ctx context.Context, loader *grammar.Loader, path string) ([]*command.Command, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return loader.LoadDir(ctx, path)
	}
	return loader.LoadFile(ctx, path)
}

// selectRoot picks the command tree an invocation targets. Loads always
// yield at least one root; ambiguity needs an explicit name.
func selectRoot(roots []*command.Command, name string) (*command.Command, error) {
	if name == "" {
		if len(roots) == 1 {
			return roots[0], nil
		}
		names := make([]string, 0, len(roots))
		for _, r := range roots {
			names = append(names, r.Name())
		}
		return nil, fmt.Errorf("manifests declare %d root commands %q; pick one with -root", len(roots), names)
	}
	for _, r := range roots {
		if r.Name() == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("no root command named %q in the loaded manifests", name)
}
