/*
Package resolve turns a raw token sequence into a validated, typed outcome
against a command tree. Resolution runs in four phases:

 1. Descent: leading tokens that exactly match child command names are
    consumed, without backtracking, to pick the target command.
 2. Binding: the remaining tokens are classified left to right against the
    target's specs. Faults that make further analysis meaningless (unknown
    alias, malformed token, attached-only violation) are recorded but the
    scan continues, so a later terminator such as --help can still win; if
    none does, the first such fault is returned alone.
 3. Validation: arity, conversion, choice, group, conflict, duplicate and
    leftover checks are accumulated into one ordered bundle, so a single
    invocation reports every independent problem at once.
 4. Dispatch: per-spec callbacks run in declaration order, then the
    command's handler (or, for inert commands, the namespace is returned).

A Resolver is stateless between invocations; the only mutable state is the
per-invocation token stream, so one tree serves concurrent resolutions.
There is no cancellation inside a resolution: the context only carries the
logger.
*/
package resolve
