// Package utils provides logging, version retrieval and size formatting helpers.
package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
)

// applicationVersion is set at link time with
// -ldflags "-X github.com/temirov/mindmap/internal/utils.applicationVersion=v1.2.3".
var applicationVersion string

// GetApplicationVersion reports the mindmap version. The link-time value wins,
// then the module version recorded in the binary, then `git describe` for
// source checkouts.
func GetApplicationVersion() string {
	if applicationVersion != "" {
		return applicationVersion
	}
	if buildInfo, available := debug.ReadBuildInfo(); available {
		if moduleVersion := buildInfo.Main.Version; moduleVersion != "" && moduleVersion != developmentVersion {
			return moduleVersion
		}
	}
	if repositoryRoot, found := findRepositoryRoot("."); found {
		if described := describeRepository(repositoryRoot); described != "" {
			return described
		}
	}
	return unknownVersion
}

func describeRepository(repositoryRoot string) string {
	// #nosec G204
	describeCommand := exec.Command("git", "describe", "--tags", "--always", "--dirty")
	describeCommand.Dir = repositoryRoot
	describeOutput, describeErr := describeCommand.Output()
	if describeErr != nil {
		return ""
	}
	return strings.TrimSpace(string(describeOutput))
}

// findRepositoryRoot walks up from startDirectory to the first directory
// holding a .git folder.
func findRepositoryRoot(startDirectory string) (string, bool) {
	currentDirectory, absoluteErr := filepath.Abs(startDirectory)
	if absoluteErr != nil {
		return "", false
	}
	for {
		if information, statErr := os.Stat(filepath.Join(currentDirectory, GitDirectoryName)); statErr == nil && information.IsDir() {
			return currentDirectory, true
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", false
		}
		currentDirectory = parentDirectory
	}
}
