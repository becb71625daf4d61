// Package grammar loads command trees from HCL manifests. A manifest
// declares one root `command` block with nested positional/option/flag
// blocks, conflict pairs, release metadata and subcommand blocks; the
// loader decodes it with gohcl, translates type expressions and arity
// markers into spec configs, and builds the frozen tree via the command
// package. Handlers and callbacks are Go values, so they are registered
// on the Loader by route before parsing.
package grammar
