// Package fault defines the error and warning values produced while
// resolving command-line input, together with their stable numeric codes,
// remediation hints, and aggregation into ordered bundles.
//
// A Fault is a plain value: severity, code, a lowercase one-sentence
// summary, an optional hint, and structured context (offending token,
// offset, spec identifier, counts). Faults never print or exit by
// themselves; the presentation layer decides how to surface them.
package fault
