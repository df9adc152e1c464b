package kwonly

import (
	"runtime/debug"
	"strings"
)

const modulePath = "github.com/ceridwen/kwonly"

// frameworkVersionString reports the kwonly version linked into the binary
// and the VCS revision it was built from, e.g. "based on kwonly v1.2.0 3f2a1bc-dirty".
func frameworkVersionString() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "based on kwonly dev"
	}
	return versionString(info)
}

func versionString(info *debug.BuildInfo) string {
	version := "dev"
	for _, dep := range info.Deps {
		if dep.Path == modulePath {
			version = dep.Version
		}
	}
	if info.Main.Path == modulePath && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}

	var revision, dirty string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value[:min(7, len(s.Value))]
		case "vcs.modified":
			if s.Value == "true" {
				dirty = "-dirty"
			}
		}
	}

	parts := []string{"based on kwonly", version}
	if revision != "" {
		parts = append(parts, revision+dirty)
	}
	return strings.Join(parts, " ")
}
