package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/cdigest/internal/config"
)

func boolPointer(value bool) *bool {
	return &value
}

func intPointer(value int) *int {
	return &value
}

func newParsedDigestCommand(t *testing.T, arguments []string) (*cobra.Command, *digestOptions) {
	t.Helper()
	options := &digestOptions{}
	command := &cobra.Command{Use: "digest"}
	registerDigestFlags(command, options)
	if parseError := command.Flags().Parse(arguments); parseError != nil {
		t.Fatalf("parsing arguments %v: %v", arguments, parseError)
	}
	return command, options
}

func TestApplySettingsPrecedence(t *testing.T) {
	testCases := []struct {
		testName        string
		arguments       []string
		settings        config.Settings
		expectedFormat  string
		expectedDepth   int
		expectedMaxSize int
		expectedCopy    bool
	}{
		{
			testName:        "defaults without settings",
			arguments:       nil,
			settings:        config.Settings{},
			expectedFormat:  "text",
			expectedDepth:   -1,
			expectedMaxSize: 10240,
			expectedCopy:    false,
		},
		{
			testName:  "settings fill unset flags",
			arguments: nil,
			settings: config.Settings{
				OutputFormat:    "markdown",
				MaxDepth:        intPointer(2),
				MaxSizeKB:       intPointer(512),
				CopyToClipboard: boolPointer(true),
			},
			expectedFormat:  "markdown",
			expectedDepth:   2,
			expectedMaxSize: 512,
			expectedCopy:    true,
		},
		{
			testName:  "changed flags win over settings",
			arguments: []string{"--output-format", "json", "--max-depth", "5"},
			settings: config.Settings{
				OutputFormat: "markdown",
				MaxDepth:     intPointer(2),
			},
			expectedFormat:  "json",
			expectedDepth:   5,
			expectedMaxSize: 10240,
			expectedCopy:    false,
		},
	}

	for caseIndex, testCase := range testCases {
		command, options := newParsedDigestCommand(t, testCase.arguments)
		applySettings(command.Flags(), options, testCase.settings)
		if options.outputFormat != testCase.expectedFormat {
			t.Errorf("case %d (%s): expected format %q, got %q", caseIndex, testCase.testName, testCase.expectedFormat, options.outputFormat)
		}
		if options.maxDepth != testCase.expectedDepth {
			t.Errorf("case %d (%s): expected depth %d, got %d", caseIndex, testCase.testName, testCase.expectedDepth, options.maxDepth)
		}
		if options.maxSizeKB != testCase.expectedMaxSize {
			t.Errorf("case %d (%s): expected max size %d, got %d", caseIndex, testCase.testName, testCase.expectedMaxSize, options.maxSizeKB)
		}
		if options.copyToClipboard != testCase.expectedCopy {
			t.Errorf("case %d (%s): expected copy %t, got %t", caseIndex, testCase.testName, testCase.expectedCopy, options.copyToClipboard)
		}
	}
}

func TestApplySettingsMergesIgnorePatterns(t *testing.T) {
	command, options := newParsedDigestCommand(t, []string{"--ignore", "*.tmp"})
	applySettings(command.Flags(), options, config.Settings{Ignore: []string{"vendor", "*.log"}})
	expectedPatterns := []string{"vendor", "*.log", "*.tmp"}
	if !reflect.DeepEqual(options.ignorePatterns, expectedPatterns) {
		t.Errorf("expected patterns %v, got %v", expectedPatterns, options.ignorePatterns)
	}
}

func TestIsSupportedFormat(t *testing.T) {
	testCases := []struct {
		formatName string
		expected   bool
	}{
		{formatName: "text", expected: true},
		{formatName: "json", expected: true},
		{formatName: "markdown", expected: true},
		{formatName: "xml", expected: true},
		{formatName: "html", expected: true},
		{formatName: "yaml", expected: false},
		{formatName: "", expected: false},
	}

	for caseIndex, testCase := range testCases {
		if actual := isSupportedFormat(testCase.formatName); actual != testCase.expected {
			t.Errorf("case %d (%q): expected %t, got %t", caseIndex, testCase.formatName, testCase.expected, actual)
		}
	}
}

func TestResolveOutputPath(t *testing.T) {
	explicitPath, explicitError := resolveOutputPath("digest.json", "project", "json")
	if explicitError != nil {
		t.Fatalf("explicit name: %v", explicitError)
	}
	if !filepath.IsAbs(explicitPath) || filepath.Base(explicitPath) != "digest.json" {
		t.Errorf("expected absolute path ending in digest.json, got %q", explicitPath)
	}

	derivedPath, derivedError := resolveOutputPath("", "project", "markdown")
	if derivedError != nil {
		t.Fatalf("derived name: %v", derivedError)
	}
	if !filepath.IsAbs(derivedPath) || filepath.Base(derivedPath) != "project_codebase_digest.md" {
		t.Errorf("expected default digest name, got %q", derivedPath)
	}

	if _, unknownError := resolveOutputPath("", "project", "yaml"); unknownError == nil {
		t.Error("expected error for unknown format")
	}
}

func TestExceedsLimitKB(t *testing.T) {
	testCases := []struct {
		testName  string
		byteCount int64
		limitKB   int
		expected  bool
	}{
		{testName: "exactly at limit", byteCount: 10240 * 1024, limitKB: 10240, expected: false},
		{testName: "one byte over", byteCount: 10240*1024 + 1, limitKB: 10240, expected: true},
		{testName: "under limit", byteCount: 1024, limitKB: 1, expected: false},
		{testName: "over small limit", byteCount: 2048, limitKB: 1, expected: true},
	}

	for caseIndex, testCase := range testCases {
		if actual := exceedsLimitKB(testCase.byteCount, testCase.limitKB); actual != testCase.expected {
			t.Errorf("case %d (%s): expected %t, got %t", caseIndex, testCase.testName, testCase.expected, actual)
		}
	}
}

func TestRootCommandRejectsUnknownFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())
	changeWorkingDirectory(t, t.TempDir())

	rootCommand := createRootCommand(zap.NewNop())
	rootCommand.SetOut(io.Discard)
	rootCommand.SetErr(io.Discard)
	rootCommand.SetArgs([]string{".", "--output-format", "yaml", "--no-input"})
	executionError := rootCommand.Execute()
	if executionError == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(executionError.Error(), "Invalid format value") {
		t.Errorf("unexpected error: %v", executionError)
	}
}

func TestRootCommandWritesDigest(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())
	changeWorkingDirectory(t, t.TempDir())

	analysisDirectory := t.TempDir()
	if writeError := os.WriteFile(filepath.Join(analysisDirectory, "main.go"), []byte("package main\n"), 0o644); writeError != nil {
		t.Fatalf("writing fixture: %v", writeError)
	}
	outputPath := filepath.Join(t.TempDir(), "digest.json")

	rootCommand := createRootCommand(zap.NewNop())
	rootCommand.SetOut(io.Discard)
	rootCommand.SetErr(io.Discard)
	rootCommand.SetArgs([]string{analysisDirectory, "-o", "json", "-f", outputPath, "--no-input"})
	if executionError := rootCommand.Execute(); executionError != nil {
		t.Fatalf("executing root command: %v", executionError)
	}

	digestBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("reading digest: %v", readError)
	}
	var digestDocument map[string]interface{}
	if unmarshalError := json.Unmarshal(digestBytes, &digestDocument); unmarshalError != nil {
		t.Fatalf("decoding digest: %v", unmarshalError)
	}
	if nameValue, _ := digestDocument["name"].(string); nameValue != filepath.Base(analysisDirectory) {
		t.Errorf("expected digest name %q, got %v", filepath.Base(analysisDirectory), digestDocument["name"])
	}
}

func TestConfigInitCommandWritesLocalFile(t *testing.T) {
	workingDirectory := t.TempDir()
	changeWorkingDirectory(t, workingDirectory)

	rootCommand := createRootCommand(zap.NewNop())
	rootCommand.SetOut(io.Discard)
	rootCommand.SetErr(io.Discard)
	rootCommand.SetArgs([]string{"config", "init"})
	if executionError := rootCommand.Execute(); executionError != nil {
		t.Fatalf("executing config init: %v", executionError)
	}

	configPath := filepath.Join(workingDirectory, ".cdigest.yaml")
	configBytes, readError := os.ReadFile(configPath)
	if readError != nil {
		t.Fatalf("reading written configuration: %v", readError)
	}
	if !strings.Contains(string(configBytes), "outputFormat: text") {
		t.Errorf("unexpected configuration contents: %q", string(configBytes))
	}
}
