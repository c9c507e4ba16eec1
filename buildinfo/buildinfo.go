// Package buildinfo reports the VCS state a binary was compiled from, so
// log output from a long-running monitor can be traced back to a commit.
package buildinfo

import (
	"fmt"
	"os"
	"runtime/debug"
)

type Info struct {
	Path       string
	GoVersion  string
	Commit     string
	CommitTime string
	Dirty      bool
}

func (i Info) String() string {
	suffix := ""
	if i.Dirty {
		suffix = " (working tree had uncommitted changes)"
	}

	return fmt.Sprintf("%s built with %s from commit %s at %s%s", i.Path, i.GoVersion, i.Commit, i.CommitTime, suffix)
}

func Get() Info {
	out := Info{}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.Path = bi.Path
	out.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Dirty = s.Value == "true"
		}
	}

	return out
}

func LogToStderr() {
	fmt.Fprintln(os.Stderr, Get())
}
