// Package buildinfo exposes the version stamped into the binary at link time
// and the runtime platform shown on the account screen.
package buildinfo

import (
	"fmt"
	"io"
	"runtime"
)

// Set with -ldflags "-X github.com/dmitrijs2005/imgvault/internal/buildinfo.Version=...".
var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// Info is the static description of the running client.
type Info struct {
	Version string
	Date    string
	Commit  string
	OS      string
	Arch    string
}

func Get() Info {
	return Info{
		Version: Version,
		Date:    Date,
		Commit:  Commit,
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}

// Platform renders OS and architecture as "linux/amd64".
func (i Info) Platform() string {
	return i.OS + "/" + i.Arch
}

func PrintBuildData(w io.Writer) {
	i := Get()
	fmt.Fprintf(w, "Build version: %s\n", i.Version)
	fmt.Fprintf(w, "Build date: %s\n", i.Date)
	fmt.Fprintf(w, "Build commit: %s\n", i.Commit)
}
