package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// changeWorkingDirectory switches the working directory for the duration of
// the test with the semantics of testing.T.Chdir from newer Go releases: the
// previous directory is restored through a held descriptor during cleanup,
// and PWD mirrors the change on the platforms that use it.
func changeWorkingDirectory(t *testing.T, directoryPath string) {
	t.Helper()
	previousDirectory, openError := os.Open(".")
	if openError != nil {
		t.Fatal(openError)
	}
	if chdirError := os.Chdir(directoryPath); chdirError != nil {
		previousDirectory.Close()
		t.Fatal(chdirError)
	}
	switch runtime.GOOS {
	case "windows", "plan9":
		// These platforms do not use the PWD variable.
	default:
		absoluteDirectory := directoryPath
		if !filepath.IsAbs(absoluteDirectory) {
			workingDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				t.Fatal(workingDirectoryError)
			}
			absoluteDirectory = workingDirectory
		}
		t.Setenv("PWD", absoluteDirectory)
	}
	t.Cleanup(func() {
		restoreError := previousDirectory.Chdir()
		previousDirectory.Close()
		if restoreError != nil {
			panic("restoring working directory: " + restoreError.Error())
		}
	})
}
