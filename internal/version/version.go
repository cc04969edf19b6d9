// Where: internal/version/version.go
// What: Build version reported by the version command.
// Why: Release builds carry a tag, source builds carry the VCS revision.
package version

import (
	"runtime/debug"
	"strings"
)

// Version is stamped at release time with
// -ldflags "-X github.com/poruru-code/fly-laravel/internal/version.Version=v1.2.3".
var Version = ""

var readBuildInfo = debug.ReadBuildInfo

const shortRevision = 7

// GetVersion prefers the stamped Version, then the module version of an
// installed binary, then the short VCS revision. It returns "dev" when
// none is known.
func GetVersion() string {
	if stamped := strings.TrimSpace(Version); stamped != "" {
		return stamped
	}
	info, ok := readBuildInfo()
	if !ok {
		return "dev"
	}
	if mod := info.Main.Version; mod != "" && mod != "(devel)" {
		return mod
	}
	if rev := revision(info.Settings); rev != "" {
		return rev
	}
	return "dev"
}

// revision renders vcs.revision, marked "(dirty)" for modified trees.
func revision(settings []debug.BuildSetting) string {
	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}
	rev := values["vcs.revision"]
	if len(rev) > shortRevision {
		rev = rev[:shortRevision]
	}
	if rev != "" && values["vcs.modified"] == "true" {
		rev += " (dirty)"
	}
	return rev
}
