// Package buildinfoprint is imported for its side effect of printing the
// binary's build provenance to stderr at startup.
package buildinfoprint

import "github.com/hemodyne/pulsecore/buildinfo"

func init() {
	buildinfo.LogToStderr()
}
