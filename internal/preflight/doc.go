// Package preflight runs the readiness checks reported by `vt check`: the
// external binaries, the state directories, and the user preset file.
package preflight
