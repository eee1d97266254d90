package version

import (
	"runtime/debug"
)

const modulePath = "github.com/curtisnewbie/ecbaes"

var (
	Version = "v0.0.0-dev"
)

func init() {
	if ver := ReadBuildVersion(); ver != "" {
		Version = ver
	}
}

// Read module version from build info, empty if unknown.
//
// The version is found either in the main module (e.g., go install) or in
// the deps when ecbaes is imported as a library.
func ReadBuildVersion() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	if buildInfo.Main.Path == modulePath && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	for _, dep := range buildInfo.Deps {
		if dep.Path == modulePath {
			return dep.Version
		}
	}
	return ""
}
