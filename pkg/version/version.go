// Package version reports which objsearch build is running and which
// bleve release its index is built on.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Version, Commit and Date may be set with ldflags, e.g.
//
//	-X github.com/Aman-CERP/objsearch/pkg/version.Version=$(VERSION)
//
// Unset values are filled from the module build info when available.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

const bleveModule = "github.com/blevesearch/bleve/v2"

var readBuildInfo = debug.ReadBuildInfo

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	// Bleve is the bleve module version linked in, "" if unknown.
	Bleve string `json:"bleve,omitempty"`
}

// Get returns the build info, preferring ldflags values over module data.
func Get() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "unknown":
			info.Commit = s.Value[:min(len(s.Value), 7)]
		case s.Key == "vcs.time" && info.Date == "unknown":
			info.Date = s.Value
		}
	}
	for _, dep := range bi.Deps {
		if dep.Path == bleveModule {
			info.Bleve = dep.Version
			if dep.Replace != nil {
				info.Bleve = dep.Replace.Version
			}
		}
	}
	return info
}

// String is the one-line form printed by `objsearch version`.
func (b BuildInfo) String() string {
	s := fmt.Sprintf("objsearch %s (commit: %s, built: %s, %s, %s)",
		b.Version, b.Commit, b.Date, b.GoVersion, b.Platform)
	if b.Bleve != "" {
		s += " bleve " + b.Bleve
	}
	return s
}

// Short returns just the version.
func Short() string {
	return Get().Version
}
