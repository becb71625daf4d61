/*
Package argspec defines the immutable argument specification values a command
is declared with. A specification is one of three variants:

  - Positional: bound by position in declaration order.
  - NamedValue: bound by a dash alias and carrying one or more values.
  - Boolean: bound by a dash alias, presence-only.

Every variant is constructed once from a config struct, validated, and never
mutated afterwards, so a finished spec can be shared across concurrent
resolutions without synchronization.

Cardinality is expressed by Arity, whose Fit predicate is the single arity
policy in the engine: positional greedy matching and named value consumption
both ask the same predicate whether a candidate token count under-fills,
exactly fills, or overfills a spec.

Collected raw tokens are turned into typed values by a Converter producing
cty values, so bound results compose with the rest of the go-cty machinery
used across the engine.
*/
package argspec
