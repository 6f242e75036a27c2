// Package presets persists named option bags in a JSON file and replays them
// against the operation planners in internal/ops.
//
// User entries are layered over a fixed set of built-in presets at load time.
// Mutations take an exclusive flock on "<file>.lock" and replace the file
// atomically, and an unparseable file is never overwritten.
package presets
