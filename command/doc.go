/*
Package command composes argument specifications into a navigable command
tree and defines the invocation-side contracts: the Namespace a resolution
produces, the Handler an active command runs, and the per-spec Callback
hooks.

A Command is built once from a Config, validated, and then frozen; trees are
composed by attaching orphan commands under a parent. Attachment is a
one-time, one-parent operation, so cycles are structurally impossible and a
finished tree can serve concurrent resolutions without locking.

Unless a command already occupies the canonical slots, a helper --help flag
is injected at construction, and a --version flag as well when the command
carries version metadata (by convention only roots do).
*/
package command
