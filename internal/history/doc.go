// Package history records every ffmpeg job vt runs in a small SQLite
// database so `vt history` can show what ran, when, and how it ended.
//
// The schema is versioned; a mismatch asks the user to clear the database
// rather than migrating it.
package history
