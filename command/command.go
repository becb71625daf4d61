package command

import (
	"fmt"

	"github.com/vk/argram/argspec"
	"github.com/zclconf/go-cty/cty"
)

// Handler is the callable an active command runs after a successful
// resolution. It receives the bound namespace and its return value becomes
// the invocation result.
type Handler func(ns *Namespace) (cty.Value, error)

// Callback is an optional per-spec hook, invoked with the spec's bound
// value after validation (or immediately on a terminator match).
type Callback func(value cty.Value) error

// Binding pairs one spec with its optional callback. Bindings keep
// declaration order; callbacks run in that order at dispatch.
type Binding struct {
	Spec     argspec.Spec
	Callback Callback
}

// Metadata is the release information block rendered by the version
// helper. By convention only root commands carry one.
type Metadata struct {
	Version     string
	License     string
	Homepage    string
	Support     string
	Bugtracker  string
	Copyright   string
	Developers  []string
	Maintainers []string
}

// Config declares a command. Name is required. A nil Handler makes the
// command inert: resolution returns the namespace instead of a result.
type Config struct {
	Name        string
	Description string
	// Usage overrides the synthesized usage line in help output.
	Usage string
	// Epilog closes the help page; Notes and Examples render as bulleted
	// help sections.
	Epilog   string
	Notes    []string
	Examples []string
	Bindings []Binding
	Handler  Handler
	// Conflicts declares pairwise mutual exclusion between spec
	// identifiers, in addition to the group buckets specs declare
	// themselves.
	Conflicts [][2]string
	// Metadata carries release information. Its presence injects a
	// --version helper.
	Metadata *Metadata
}

// Command is one node of the tree: a frozen set of specs plus owned
// children. All exported accessors are safe for concurrent use once the
// tree is fully composed.
type Command struct {
	name        string
	description string
	usage       string
	epilog      string
	notes       []string
	examples    []string
	meta        *Metadata

	bindings    []Binding
	positionals []*argspec.Positional
	named       []argspec.Named
	byAlias     map[string]argspec.Named
	callbacks   map[string]Callback
	handler     Handler

	groups     map[string][]string
	groupOrder []string
	conflicts  [][2]string

	// parent is navigational only; children own nothing upward.
	parent     *Command
	children   map[string]*Command
	childOrder []string
}

var (
	helpAliases    = []string{"-h", "--help"}
	versionAliases = []string{"-v", "--version"}
)

// New validates cfg, injects the canonical helper flags where their slots
// are free, and returns the frozen command.
func New(cfg Config) (*Command, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("command name cannot be empty")
	}
	if !argspec.ValidName(cfg.Name) {
		return nil, fmt.Errorf("malformed command name %q", cfg.Name)
	}

	c := &Command{
		name:        cfg.Name,
		description: cfg.Description,
		usage:       cfg.Usage,
		epilog:      cfg.Epilog,
		notes:       cfg.Notes,
		examples:    cfg.Examples,
		meta:        cfg.Metadata,
		byAlias:     make(map[string]argspec.Named),
		callbacks:   make(map[string]Callback),
		handler:     cfg.Handler,
		groups:      make(map[string][]string),
		children:    make(map[string]*Command),
	}

	identifiers := make(map[string]bool)
	for _, b := range cfg.Bindings {
		if b.Spec == nil {
			return nil, fmt.Errorf("command %q: binding without a spec", cfg.Name)
		}
		if err := c.register(b, identifiers); err != nil {
			return nil, fmt.Errorf("command %q: %w", cfg.Name, err)
		}
	}

	if err := c.injectHelpers(identifiers); err != nil {
		return nil, fmt.Errorf("command %q: %w", cfg.Name, err)
	}

	for _, pair := range cfg.Conflicts {
		if pair[0] == pair[1] {
			return nil, fmt.Errorf("command %q: conflict pair references %q twice", cfg.Name, pair[0])
		}
		for _, id := range []string{pair[0], pair[1]} {
			if !identifiers[id] {
				return nil, fmt.Errorf("command %q: conflict references unknown identifier %q", cfg.Name, id)
			}
		}
		c.conflicts = append(c.conflicts, pair)
	}

	return c, nil
}

// register indexes one binding: declaration order, positional order,
// remainder placement, alias and identifier uniqueness, group membership.
func (c *Command) register(b Binding, identifiers map[string]bool) error {
	spec := b.Spec
	if identifiers[spec.Identifier()] {
		return fmt.Errorf("identifier %q is declared more than once", spec.Identifier())
	}
	identifiers[spec.Identifier()] = true

	switch s := spec.(type) {
	case *argspec.Positional:
		if n := len(c.positionals); n > 0 && c.positionals[n-1].Arity().IsRemainder() {
			return fmt.Errorf("positional %q follows a remainder positional", s.Identifier())
		}
		c.positionals = append(c.positionals, s)
	case argspec.Named:
		for _, alias := range s.Aliases() {
			if _, taken := c.byAlias[alias]; taken {
				return fmt.Errorf("alias %q is declared more than once", alias)
			}
			c.byAlias[alias] = s
		}
		c.named = append(c.named, s)
	default:
		return fmt.Errorf("unsupported spec variant %T", spec)
	}

	if g := spec.Group(); g != "" {
		if _, seen := c.groups[g]; !seen {
			c.groupOrder = append(c.groupOrder, g)
		}
		c.groups[g] = append(c.groups[g], spec.Identifier())
	}
	if b.Callback != nil {
		c.callbacks[spec.Identifier()] = b.Callback
	}
	c.bindings = append(c.bindings, b)
	return nil
}

// injectHelpers adds the canonical --help flag, and --version when the
// command carries version metadata. Declaring the long alias (or the
// identifier) takes the slot over entirely; a taken short alias only
// narrows the injected alias set.
func (c *Command) injectHelpers(identifiers map[string]bool) error {
	inject := func(aliases []string, long, id, descr string) error {
		if _, taken := c.byAlias[long]; taken {
			return nil
		}
		if identifiers[id] {
			return nil
		}
		free := make([]string, 0, len(aliases))
		for _, alias := range aliases {
			if _, taken := c.byAlias[alias]; !taken {
				free = append(free, alias)
			}
		}
		flag, err := argspec.NewBoolean(argspec.BooleanConfig{
			Aliases:     free,
			Description: descr,
			Helper:      true,
		})
		if err != nil {
			return err
		}
		return c.register(Binding{Spec: flag}, identifiers)
	}

	if err := inject(helpAliases, "--help", "help", "show this help message and exit"); err != nil {
		return err
	}
	if c.meta != nil {
		if err := inject(versionAliases, "--version", "version", "show this version message and exit"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Command) Name() string        { return c.name }
func (c *Command) Description() string { return c.description }
func (c *Command) Usage() string       { return c.usage }
func (c *Command) Epilog() string      { return c.epilog }

// Notes returns the bulleted help notes. Callers must not mutate the
// slice.
func (c *Command) Notes() []string { return c.notes }

// Examples returns the bulleted help examples. Callers must not mutate
// the slice.
func (c *Command) Examples() []string { return c.examples }

// Metadata returns the release information block, nil when the command
// carries none.
func (c *Command) Metadata() *Metadata { return c.meta }

// Version returns the release version, empty without metadata.
func (c *Command) Version() string {
	if c.meta == nil {
		return ""
	}
	return c.meta.Version
}

// Active reports whether resolution invokes a handler instead of
// returning a namespace.
func (c *Command) Active() bool { return c.handler != nil }

// Handler returns the command-level handler, nil for inert commands.
func (c *Command) Handler() Handler { return c.handler }

// Bindings returns the declaration-order (spec, callback) pairs, including
// injected helpers at the end. Callers must not mutate the slice.
func (c *Command) Bindings() []Binding { return c.bindings }

// Positionals returns the positional specs in declaration order. Callers
// must not mutate the slice.
func (c *Command) Positionals() []*argspec.Positional { return c.positionals }

// NamedSpecs returns the alias-addressed specs in declaration order,
// including injected helpers. Callers must not mutate the slice.
func (c *Command) NamedSpecs() []argspec.Named { return c.named }

// Lookup resolves an alias to its named spec.
func (c *Command) Lookup(alias string) (argspec.Named, bool) {
	s, ok := c.byAlias[alias]
	return s, ok
}

// Aliases returns every declared alias in canonical per-spec order,
// following spec declaration order.
func (c *Command) Aliases() []string {
	var out []string
	for _, s := range c.named {
		out = append(out, s.Aliases()...)
	}
	return out
}

// CallbackFor returns the callback bound to a spec identifier, if any.
func (c *Command) CallbackFor(id string) (Callback, bool) {
	cb, ok := c.callbacks[id]
	return cb, ok
}

// Groups returns the mutual-exclusion buckets: group name to member
// identifiers in declaration order. Callers must not mutate the map.
func (c *Command) Groups() map[string][]string { return c.groups }

// GroupNames returns group names in first-declaration order.
func (c *Command) GroupNames() []string { return c.groupOrder }

// GroupMembers returns the member identifiers of one group in declaration
// order.
func (c *Command) GroupMembers(name string) []string { return c.groups[name] }

// Conflicts returns the declared pairwise exclusions. Callers must not
// mutate the slice.
func (c *Command) Conflicts() [][2]string { return c.conflicts }

// Parent returns the owning command, nil at the root.
func (c *Command) Parent() *Command { return c.parent }

// Child resolves a subcommand by name.
func (c *Command) Child(name string) (*Command, bool) {
	child, ok := c.children[name]
	return child, ok
}

// ChildNames returns subcommand names in attachment order. Callers must
// not mutate the slice.
func (c *Command) ChildNames() []string { return c.childOrder }

// Route is the full path from the root to this command, space separated.
func (c *Command) Route() string {
	if c.parent == nil {
		return c.name
	}
	return c.parent.Route() + " " + c.name
}

// Root walks up to the tree root.
func (c *Command) Root() *Command {
	node := c
	for node.parent != nil {
		node = node.parent
	}
	return node
}
