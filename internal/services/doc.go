// Package services defines shared helpers consumed by the operation handlers
// and the process runner.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, operation names, and preset names
//     for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into validation problems versus external tool errors.
package services
