// Package fileutil holds small filesystem helpers shared by the preset store
// and the operation planners.
package fileutil
