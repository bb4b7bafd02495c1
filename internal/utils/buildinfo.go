package utils

import (
	"os/exec"
	"runtime/debug"
	"strings"
)

const unknownVersion = "unknown"

// GetApplicationVersion determines the application version from Go build
// info, falling back to git metadata for source builds.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}

	gitDescribeCommand := exec.Command("git", "describe", "--tags", "--always", "--dirty")
	gitDescribeOutput, gitDescribeError := gitDescribeCommand.Output()
	if gitDescribeError == nil && len(gitDescribeOutput) > 0 {
		return strings.TrimSpace(string(gitDescribeOutput))
	}

	return unknownVersion
}
