package grammar

import (
	"github.com/hashicorp/hcl/v2"
)

// manifest is the top-level structure of a grammar file. A file may
// declare several root commands; most declare exactly one.
type manifest struct {
	Commands []*commandBlock `hcl:"command,block"`
}

// commandBlock is one `command "name" { ... }` block, possibly nested.
type commandBlock struct {
	Name        string   `hcl:"name,label"`
	Description string   `hcl:"description,optional"`
	Usage       string   `hcl:"usage,optional"`
	Epilog      string   `hcl:"epilog,optional"`
	Notes       []string `hcl:"notes,optional"`
	Examples    []string `hcl:"examples,optional"`

	Positionals []*positionalBlock `hcl:"positional,block"`
	Options     []*optionBlock     `hcl:"option,block"`
	Flags       []*flagBlock       `hcl:"flag,block"`
	Conflicts   []*conflictBlock   `hcl:"conflict,block"`
	Metadata    *metadataBlock     `hcl:"metadata,block"`
	Commands    []*commandBlock    `hcl:"command,block"`
}

// positionalBlock declares one value-bearing positional argument.
// Type, arity, default and choices stay as expressions until
// translation so that absence, null and evaluation faults can be told
// apart.
type positionalBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	DisplayName string         `hcl:"display_name,optional"`
	Group       string         `hcl:"group,optional"`
	Arity       hcl.Expression `hcl:"arity,optional"`
	Type        hcl.Expression `hcl:"type,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Choices     hcl.Expression `hcl:"choices,optional"`
	Hidden      bool           `hcl:"hidden,optional"`
	Deprecated  bool           `hcl:"deprecated,optional"`
	NoWait      bool           `hcl:"no_wait,optional"`
}

// optionBlock declares one named value-bearing argument. The label is
// the primary alias; the aliases attribute appends the rest. Repeated
// occurrences are governed by the arity, so there is no separate knob.
type optionBlock struct {
	Alias        string         `hcl:"alias,label"`
	Aliases      []string       `hcl:"aliases,optional"`
	Description  string         `hcl:"description,optional"`
	Group        string         `hcl:"group,optional"`
	Arity        hcl.Expression `hcl:"arity,optional"`
	Type         hcl.Expression `hcl:"type,optional"`
	Default      hcl.Expression `hcl:"default,optional"`
	Choices      hcl.Expression `hcl:"choices,optional"`
	Hidden       bool           `hcl:"hidden,optional"`
	Deprecated   bool           `hcl:"deprecated,optional"`
	NoWait       bool           `hcl:"no_wait,optional"`
	AttachedOnly bool           `hcl:"attached_only,optional"`
	Standalone   bool           `hcl:"standalone,optional"`
	Terminator   bool           `hcl:"terminator,optional"`
}

// flagBlock declares one boolean argument.
type flagBlock struct {
	Alias       string   `hcl:"alias,label"`
	Aliases     []string `hcl:"aliases,optional"`
	Description string   `hcl:"description,optional"`
	Group       string   `hcl:"group,optional"`
	Hidden      bool     `hcl:"hidden,optional"`
	Deprecated  bool     `hcl:"deprecated,optional"`
	Standalone  bool     `hcl:"standalone,optional"`
	Terminator  bool     `hcl:"terminator,optional"`
}

// conflictBlock declares one mutually exclusive pair by identifier,
// as in `conflict "all" "only" {}`.
type conflictBlock struct {
	First  string `hcl:"first,label"`
	Second string `hcl:"second,label"`
}

// metadataBlock is the release information rendered by the version
// helper. Declaring it on a command injects `--version`.
type metadataBlock struct {
	Version     string   `hcl:"version"`
	License     string   `hcl:"license,optional"`
	Homepage    string   `hcl:"homepage,optional"`
	Support     string   `hcl:"support,optional"`
	Bugtracker  string   `hcl:"bugtracker,optional"`
	Copyright   string   `hcl:"copyright,optional"`
	Developers  []string `hcl:"developers,optional"`
	Maintainers []string `hcl:"maintainers,optional"`
}
