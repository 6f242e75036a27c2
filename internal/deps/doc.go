// Package deps checks that the external binaries vidtools shells out to are
// installed and reports their versions.
package deps
