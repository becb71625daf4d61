// Package app contains the runner logic of the argram binary. It defines
// the runner configuration, its logger, and the load/resolve/render
// lifecycle, decoupled from any specific entrypoint like a CLI or a REPL.
package app
