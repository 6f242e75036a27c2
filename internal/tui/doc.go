// Package tui implements `vt tui`, a Bubble Tea front end over the same
// operation planners the CLI uses.
//
// The model moves through four screens: an operation menu, a text-input form
// for the chosen operation, a run screen fed by runner progress updates, and a
// result screen. The package never shells out itself; callers inject a RunFunc
// that plans and runs the operation.
package tui
