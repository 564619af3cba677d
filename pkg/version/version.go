// Package version reports build information for scout.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the release version, set with
// -ldflags "-X github.com/macropower/scout/pkg/version.Version=v1.2.3".
var Version string

const shortRevisionLen = 7

// Info describes the running binary.
type Info struct {
	// Version is the release version, the module version for `go install`
	// builds, or the revision for development builds.
	Version   string
	Revision  string
	GoVersion string
	Platform  string
	Dirty     bool
}

// Get collects [Info] for the running binary.
func Get() Info {
	info := Info{
		Version:   Version,
		Revision:  "unknown",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info.withFallbackVersion()
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value[:min(len(s.Value), shortRevisionLen)]
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}

	if info.Dirty {
		info.Revision += "-dirty"
	}

	if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	return info.withFallbackVersion()
}

func (i Info) withFallbackVersion() Info {
	if i.Version == "" {
		i.Version = i.Revision
	}

	return i
}

// GetVersion returns [Info.Version] of the running binary.
func GetVersion() string {
	return Get().Version
}

func (i Info) String() string {
	return fmt.Sprintf("scout %s (revision %s, %s %s)", i.Version, i.Revision, i.GoVersion, i.Platform)
}
